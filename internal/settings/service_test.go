package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, firm *Firm) error {
	args := m.Called(ctx, firm)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, activeOnly bool) ([]Firm, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Firm), args.Error(1)
}

func (m *MockRepository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func TestCreateFirm(t *testing.T) {
	repo := new(MockRepository)
	var created *Firm
	repo.On("Create", mock.Anything, mock.AnythingOfType("*settings.Firm")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*Firm) }).
		Return(nil)

	instant := time.Date(2024, 3, 4, 9, 15, 0, 0, staging.Kolkata())
	svc := NewService(repo, staging.FixedClock{Instant: instant}, nil)

	firm, err := svc.CreateFirm(context.Background(), CreateFirmRequest{Name: "  Shree Fabricators  "})
	require.NoError(t, err)
	assert.Equal(t, "Shree Fabricators", firm.Name)
	assert.True(t, firm.Active)
	require.NotNil(t, created)
}

func TestCreateFirm_ReservedNames(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, nil, nil)

	for _, name := range []string{"", "   ", "all", "ALL", " All "} {
		_, err := svc.CreateFirm(context.Background(), CreateFirmRequest{Name: name})
		assert.ErrorIs(t, err, ErrReservedName, "name %q", name)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
