package vendors

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"procurehub/store-portal/store-portal-backend/pkg/pdf"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateVendor(ctx context.Context, v *Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockRepository) GetVendor(ctx context.Context, id string) (*Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Vendor), args.Error(1)
}

func (m *MockRepository) ListVendors(ctx context.Context) ([]Vendor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Vendor), args.Error(1)
}

func (m *MockRepository) AddQuotation(ctx context.Context, q *Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockRepository) QuotationsForIndent(ctx context.Context, indentNo string) ([]QuotationWithVendor, error) {
	args := m.Called(ctx, indentNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]QuotationWithVendor), args.Error(1)
}

func (m *MockRepository) CreatePO(ctx context.Context, po *PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockRepository) GetPO(ctx context.Context, poNo string) (*PurchaseOrder, error) {
	args := m.Called(ctx, poNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PurchaseOrder), args.Error(1)
}

func (m *MockRepository) ListPOs(ctx context.Context, firmScope string) ([]PurchaseOrder, error) {
	args := m.Called(ctx, firmScope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PurchaseOrder), args.Error(1)
}

func (m *MockRepository) NextPOSeq(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func fixedService(repo Repository) *Service {
	instant := time.Date(2024, 3, 4, 9, 15, 0, 0, staging.Kolkata())
	return NewService(repo, pdf.NewGenerator(), staging.FixedClock{Instant: instant}, nil)
}

func quote(indentNo, vendorName, rate string, created time.Time) QuotationWithVendor {
	return QuotationWithVendor{
		Quotation: Quotation{
			ID:        uuid.New(),
			IndentNo:  indentNo,
			VendorID:  uuid.New(),
			Rate:      decimal.RequireFromString(rate),
			CreatedAt: created,
		},
		VendorName: vendorName,
	}
}

func TestCompare_PicksLowestRate(t *testing.T) {
	repo := new(MockRepository)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, staging.Kolkata())
	quotes := []QuotationWithVendor{
		quote("IN-00042", "Sharma Traders", "118.50", base),
		quote("IN-00042", "Gupta Supplies", "112.00", base.Add(time.Hour)),
		quote("IN-00042", "Verma & Sons", "125.75", base.Add(2*time.Hour)),
	}
	repo.On("QuotationsForIndent", mock.Anything, "IN-00042").Return(quotes, nil)

	cmp, err := fixedService(repo).Compare(context.Background(), "IN-00042")
	require.NoError(t, err)
	require.NotNil(t, cmp.Lowest)
	assert.Equal(t, "Gupta Supplies", cmp.Lowest.VendorName)
	assert.Equal(t, "112", cmp.Lowest.Rate.String())
	assert.Len(t, cmp.Quotes, 3)
}

func TestCompare_TieKeepsEarliestQuote(t *testing.T) {
	repo := new(MockRepository)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, staging.Kolkata())
	quotes := []QuotationWithVendor{
		quote("IN-00042", "Sharma Traders", "100.00", base),
		quote("IN-00042", "Gupta Supplies", "100.00", base.Add(time.Hour)),
	}
	repo.On("QuotationsForIndent", mock.Anything, "IN-00042").Return(quotes, nil)

	cmp, err := fixedService(repo).Compare(context.Background(), "IN-00042")
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", cmp.Lowest.VendorName)
}

func TestCompare_NoQuotes(t *testing.T) {
	repo := new(MockRepository)
	repo.On("QuotationsForIndent", mock.Anything, "IN-00099").Return([]QuotationWithVendor{}, nil)

	cmp, err := fixedService(repo).Compare(context.Background(), "IN-00099")
	require.NoError(t, err)
	assert.Nil(t, cmp.Lowest)
	assert.Empty(t, cmp.Quotes)
}

func TestCreatePurchaseOrder_ComputesAmountAndNumber(t *testing.T) {
	repo := new(MockRepository)
	vendorID := uuid.New()
	repo.On("GetVendor", mock.Anything, vendorID.String()).Return(&Vendor{ID: vendorID, Name: "Gupta Supplies"}, nil)
	repo.On("NextPOSeq", mock.Anything).Return(int64(7), nil)

	var created *PurchaseOrder
	repo.On("CreatePO", mock.Anything, mock.AnythingOfType("*vendors.PurchaseOrder")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*PurchaseOrder) }).
		Return(nil)

	user := staging.UserContext{UserID: "u1", FirmScope: "Shree Fabricators"}
	po, err := fixedService(repo).CreatePurchaseOrder(context.Background(), user, CreatePORequest{
		IndentNo: "IN-00042",
		VendorID: vendorID,
		ItemName: "MS Angle 50x50",
		Unit:     "kg",
		Quantity: decimal.RequireFromString("250"),
		Rate:     decimal.RequireFromString("112.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "PO-00007", po.PONo)
	assert.Equal(t, "Shree Fabricators", po.FirmNameMatch)
	assert.Equal(t, "28000", po.Amount.String())
}

func TestCreatePurchaseOrder_ScopedUserCannotPickAnotherFirm(t *testing.T) {
	repo := new(MockRepository)
	vendorID := uuid.New()
	repo.On("GetVendor", mock.Anything, vendorID.String()).Return(&Vendor{ID: vendorID, Name: "Gupta Supplies"}, nil)
	repo.On("NextPOSeq", mock.Anything).Return(int64(8), nil)
	repo.On("CreatePO", mock.Anything, mock.Anything).Return(nil)

	user := staging.UserContext{UserID: "u1", FirmScope: "Shree Fabricators"}
	po, err := fixedService(repo).CreatePurchaseOrder(context.Background(), user, CreatePORequest{
		IndentNo: "IN-00042",
		VendorID: vendorID,
		ItemName: "MS Angle 50x50",
		Unit:     "kg",
		Quantity: decimal.RequireFromString("10"),
		Rate:     decimal.RequireFromString("5"),
		Firm:     "Some Other Firm",
	})
	require.NoError(t, err)
	assert.Equal(t, "Shree Fabricators", po.FirmNameMatch)
}

func TestCreatePurchaseOrder_AllScopeNeedsExplicitFirm(t *testing.T) {
	repo := new(MockRepository)
	user := staging.UserContext{UserID: "admin", FirmScope: "all"}
	_, err := fixedService(repo).CreatePurchaseOrder(context.Background(), user, CreatePORequest{
		IndentNo: "IN-00042",
		VendorID: uuid.New(),
		ItemName: "MS Angle 50x50",
		Unit:     "kg",
		Quantity: decimal.RequireFromString("10"),
		Rate:     decimal.RequireFromString("5"),
	})
	assert.ErrorIs(t, err, ErrFirmRequired)
	repo.AssertNotCalled(t, "CreatePO", mock.Anything, mock.Anything)
}

func TestListPOs_ScopePassthrough(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListPOs", mock.Anything, "Shree Fabricators").Return([]PurchaseOrder{}, nil)
	repo.On("ListPOs", mock.Anything, "").Return([]PurchaseOrder{{PONo: "PO-00001"}}, nil)

	svc := fixedService(repo)
	_, err := svc.ListPOs(context.Background(), staging.UserContext{FirmScope: "Shree Fabricators"})
	require.NoError(t, err)

	all, err := svc.ListPOs(context.Background(), staging.UserContext{FirmScope: "ALL"})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	repo.AssertExpectations(t)
}

func TestRenderPO_ProducesPDF(t *testing.T) {
	repo := new(MockRepository)
	vendorID := uuid.New()
	repo.On("GetPO", mock.Anything, "PO-00007").Return(&PurchaseOrder{
		ID:            uuid.New(),
		PONo:          "PO-00007",
		IndentNo:      "IN-00042",
		FirmNameMatch: "Shree Fabricators",
		VendorID:      vendorID,
		ItemName:      "MS Angle 50x50",
		Unit:          "kg",
		Quantity:      decimal.RequireFromString("250"),
		Rate:          decimal.RequireFromString("112"),
		Amount:        decimal.RequireFromString("28000"),
		CreatedAt:     time.Date(2024, 3, 4, 9, 15, 0, 0, staging.Kolkata()),
	}, nil)
	repo.On("GetVendor", mock.Anything, vendorID.String()).Return(&Vendor{
		ID: vendorID, Name: "Gupta Supplies", Address: "14 Industrial Estate, Pune",
	}, nil)

	doc, err := fixedService(repo).RenderPO(context.Background(), staging.UserContext{FirmScope: "all"}, "PO-00007")
	require.NoError(t, err)
	require.NotNil(t, doc)
}

func TestRenderPO_HidesOtherFirms(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetPO", mock.Anything, "PO-00007").Return(&PurchaseOrder{
		ID:            uuid.New(),
		PONo:          "PO-00007",
		FirmNameMatch: "Shree Fabricators",
		VendorID:      uuid.New(),
	}, nil)

	svc := fixedService(repo)
	outsider := staging.UserContext{FirmScope: "Patel Traders"}
	_, err := svc.RenderPO(context.Background(), outsider, "PO-00007")
	assert.ErrorIs(t, err, ErrPONotFound)
	repo.AssertNotCalled(t, "GetVendor", mock.Anything, mock.Anything)

	owner := staging.UserContext{FirmScope: "shree fabricators"}
	repo.On("GetVendor", mock.Anything, mock.Anything).Return(&Vendor{Name: "Gupta Supplies"}, nil)
	doc, err := svc.RenderPO(context.Background(), owner, "PO-00007")
	require.NoError(t, err)
	require.NotNil(t, doc)
}
