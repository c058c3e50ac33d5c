package inventory

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetLevel(ctx context.Context, firm, itemName string) (*StockLevel, error) {
	args := m.Called(ctx, firm, itemName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockLevel), args.Error(1)
}

func (m *MockRepository) ListLevels(ctx context.Context, firmScope string) ([]StockLevel, error) {
	args := m.Called(ctx, firmScope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StockLevel), args.Error(1)
}

func (m *MockRepository) Adjust(ctx context.Context, mv *StockMovement) (*StockLevel, error) {
	args := m.Called(ctx, mv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockLevel), args.Error(1)
}

func (m *MockRepository) ListMovements(ctx context.Context, firmScope, itemName string) ([]StockMovement, error) {
	args := m.Called(ctx, firmScope, itemName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StockMovement), args.Error(1)
}

func fixedService(repo Repository) *Service {
	instant := time.Date(2024, 3, 4, 9, 15, 0, 0, staging.Kolkata())
	return NewService(repo, staging.FixedClock{Instant: instant}, nil)
}

func TestApplyStoreIn_RecordsInboundMovement(t *testing.T) {
	repo := new(MockRepository)
	var captured *StockMovement
	repo.On("Adjust", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*StockMovement) }).
		Return(&StockLevel{ItemName: "MS Angle 50x50", Quantity: decimal.RequireFromString("250")}, nil)

	lvl, err := fixedService(repo).ApplyStoreIn(context.Background(),
		"Shree Fabricators", "MS Angle 50x50", "kg", "LIFT-0042", decimal.RequireFromString("250"))
	require.NoError(t, err)
	assert.Equal(t, "250", lvl.Quantity.String())

	require.NotNil(t, captured)
	assert.Equal(t, MovementIn, captured.Kind)
	assert.Equal(t, "LIFT-0042", captured.RefNo)
	assert.Equal(t, "Shree Fabricators", captured.FirmNameMatch)
}

func TestApplyIssue_RecordsOutboundMovement(t *testing.T) {
	repo := new(MockRepository)
	var captured *StockMovement
	repo.On("Adjust", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*StockMovement) }).
		Return(&StockLevel{ItemName: "MS Angle 50x50", Quantity: decimal.RequireFromString("245")}, nil)

	_, err := fixedService(repo).ApplyIssue(context.Background(),
		"Shree Fabricators", "MS Angle 50x50", "kg", "IS-100", decimal.RequireFromString("5"))
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, MovementOut, captured.Kind)
	assert.Equal(t, "5", captured.Quantity.String())
}

func TestApplyIssue_InsufficientStock(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Adjust", mock.Anything, mock.Anything).Return(nil, ErrInsufficientStock)

	_, err := fixedService(repo).ApplyIssue(context.Background(),
		"Shree Fabricators", "MS Angle 50x50", "kg", "IS-101", decimal.RequireFromString("9999"))
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestApplyStoreIn_RejectsBlankAndAllFirm(t *testing.T) {
	repo := new(MockRepository)
	svc := fixedService(repo)

	_, err := svc.ApplyStoreIn(context.Background(), "  ", "Item", "kg", "LIFT-1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrFirmRequired)

	_, err = svc.ApplyStoreIn(context.Background(), "All", "Item", "kg", "LIFT-1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrFirmRequired)
	repo.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
}

func TestListLevels_ScopeHandling(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListLevels", mock.Anything, "Shree Fabricators").Return([]StockLevel{}, nil)
	repo.On("ListLevels", mock.Anything, "").Return([]StockLevel{{ItemName: "Cement"}}, nil)

	svc := fixedService(repo)
	_, err := svc.ListLevels(context.Background(), staging.UserContext{FirmScope: "Shree Fabricators"})
	require.NoError(t, err)

	all, err := svc.ListLevels(context.Background(), staging.UserContext{FirmScope: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	repo.AssertExpectations(t)
}

func sampleLevels() []StockLevel {
	at := time.Date(2024, 3, 4, 9, 15, 0, 0, staging.Kolkata())
	return []StockLevel{
		{FirmNameMatch: "Shree Fabricators", ItemName: "MS Angle 50x50", Unit: "kg", Quantity: decimal.RequireFromString("245"), UpdatedAt: at},
		{FirmNameMatch: "Shree Fabricators", ItemName: "Welding Rods", Unit: "box", Quantity: decimal.RequireFromString("12"), UpdatedAt: at},
	}
}

func TestWriteStockCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStockCSV(&buf, sampleLevels()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Firm,Item,Unit,Quantity,Updated At", lines[0])
	assert.Contains(t, lines[1], "MS Angle 50x50")
	assert.Contains(t, lines[1], "245")
}

func TestWriteStockXLSX(t *testing.T) {
	doc, err := WriteStockXLSX(sampleLevels())
	require.NoError(t, err)
	require.NotNil(t, doc)
}
