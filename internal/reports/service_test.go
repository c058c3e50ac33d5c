package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procurehub/store-portal/store-portal-backend/internal/auth"
	"procurehub/store-portal/store-portal-backend/internal/procurement"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

// MockBoardRepo is a mock implementation of the procurement Repository
type MockBoardRepo struct {
	mock.Mock
}

func (m *MockBoardRepo) FetchAll(ctx context.Context, entity staging.EntityType) ([]staging.Record, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]staging.Record), args.Error(1)
}

func (m *MockBoardRepo) GetByKey(ctx context.Context, entity staging.EntityType, key string) (staging.Record, error) {
	args := m.Called(ctx, entity, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(staging.Record), args.Error(1)
}

func (m *MockBoardRepo) UpdateByKey(ctx context.Context, entity staging.EntityType, key string, update staging.Update) (staging.Record, error) {
	args := m.Called(ctx, entity, key, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(staging.Record), args.Error(1)
}

func (m *MockBoardRepo) Insert(ctx context.Context, entity staging.EntityType, record staging.Record) error {
	args := m.Called(ctx, entity, record)
	return args.Error(0)
}

func newTestBoard(repo procurement.Repository) *procurement.Service {
	registry := procurement.NewRegistry()
	instant := time.Date(2024, 1, 8, 10, 30, 0, 0, staging.Kolkata())
	engine := staging.NewEngine(registry, staging.FixedClock{Instant: instant}, nil, staging.Kolkata())
	return procurement.NewService(repo, engine, nil, zap.NewNop())
}

func adminUser(firm string) staging.UserContext {
	return staging.UserContext{
		UserID:      "admin-1",
		FirmScope:   firm,
		Permissions: map[string]bool{auth.PermAdmin: true},
	}
}

func TestSummaryAggregatesPendingCounts(t *testing.T) {
	repo := new(MockBoardRepo)
	repo.On("FetchAll", mock.Anything, procurement.EntityIssue).Return([]staging.Record{
		{"issue_no": "IS-1", "firm_name_match": "Alpha", "planned1": "2024-01-01 10:00:00"},
		{"issue_no": "IS-2", "firm_name_match": "Alpha", "planned1": "2024-01-01 10:00:00"},
	}, nil)
	repo.On("FetchAll", mock.Anything, mock.Anything).Return([]staging.Record{}, nil)

	svc := NewService(newTestBoard(repo), nil, time.Minute, zap.NewNop())
	summary, err := svc.Summary(context.Background(), adminUser("Alpha"))
	require.NoError(t, err)

	var issues *EntitySummary
	for i := range summary.Entities {
		if summary.Entities[i].Entity == string(procurement.EntityIssue) {
			issues = &summary.Entities[i]
		}
	}
	require.NotNil(t, issues)
	assert.Equal(t, 2, issues.TotalPending)
}

func TestSummaryCachesPerScope(t *testing.T) {
	repo := new(MockBoardRepo)
	repo.On("FetchAll", mock.Anything, mock.Anything).Return([]staging.Record{}, nil)

	svc := NewService(newTestBoard(repo), nil, time.Minute, zap.NewNop())
	entities := len(svc.board.Registry().Entities())

	_, err := svc.Summary(context.Background(), adminUser("Alpha"))
	require.NoError(t, err)
	_, err = svc.Summary(context.Background(), adminUser("Alpha"))
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FetchAll", entities)

	svc.Invalidate()
	_, err = svc.Summary(context.Background(), adminUser("Alpha"))
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FetchAll", 2*entities)
}

func TestSummaryCacheHitStillRequiresPermissions(t *testing.T) {
	repo := new(MockBoardRepo)
	repo.On("FetchAll", mock.Anything, mock.Anything).Return([]staging.Record{
		{"issue_no": "IS-1", "firm_name_match": "Alpha", "planned1": "2024-01-01 10:00:00"},
	}, nil)

	svc := NewService(newTestBoard(repo), nil, time.Minute, zap.NewNop())

	// Warm the cache for the Alpha scope as a privileged caller.
	_, err := svc.Summary(context.Background(), adminUser("Alpha"))
	require.NoError(t, err)

	// A caller in the same firm without view permissions must be refused,
	// cached summary or not.
	unprivileged := staging.UserContext{
		UserID:      "u-2",
		FirmScope:   "Alpha",
		Permissions: map[string]bool{},
	}
	_, err = svc.Summary(context.Background(), unprivileged)
	assert.ErrorIs(t, err, procurement.ErrPermissionDenied)

	// Partial permissions are not enough either: the summary spans every
	// pipeline, so it needs view rights on all of them.
	partial := staging.UserContext{
		UserID:      "u-3",
		FirmScope:   "Alpha",
		Permissions: map[string]bool{auth.PermIssueView: true},
	}
	_, err = svc.Summary(context.Background(), partial)
	assert.ErrorIs(t, err, procurement.ErrPermissionDenied)
}
