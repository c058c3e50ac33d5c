package reports

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"procurehub/store-portal/store-portal-backend/internal/auth"
	"procurehub/store-portal/store-portal-backend/internal/procurement"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

// cacheEntry is one cached summary keyed by the caller's firm scope.
type cacheEntry struct {
	summary   *DashboardSummary
	expiresAt time.Time
}

// Service computes the dashboard summary from live board state. Results
// are cached per firm scope because every user lands on this view.
type Service struct {
	board  *procurement.Service
	db     *sqlx.DB
	ttl    time.Duration
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewService(board *procurement.Service, db *sqlx.DB, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		board:  board,
		db:     db,
		ttl:    ttl,
		logger: logger,
		cache:  make(map[string]cacheEntry),
	}
}

// Summary returns pending counts across every pipeline for the caller.
func (s *Service) Summary(ctx context.Context, user staging.UserContext) (*DashboardSummary, error) {
	if err := s.authorize(user); err != nil {
		return nil, err
	}

	scope := user.FirmScope
	if user.SeesAll() {
		scope = staging.ScopeAll
	}

	s.mu.RLock()
	entry, ok := s.cache[scope]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.summary, nil
	}

	summary, err := s.compute(ctx, user)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[scope] = cacheEntry{summary: summary, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return summary, nil
}

// authorize mirrors the per-pipeline view gate on every call, so a summary
// cached for one caller's scope is never served to another caller who
// could not have computed it.
func (s *Service) authorize(user staging.UserContext) error {
	if user.Allowed(auth.PermAdmin) {
		return nil
	}
	for _, entity := range s.board.Registry().Entities() {
		if !user.Allowed(procurement.ViewPermission(entity)) {
			return procurement.ErrPermissionDenied
		}
	}
	return nil
}

func (s *Service) compute(ctx context.Context, user staging.UserContext) (*DashboardSummary, error) {
	summary := &DashboardSummary{ComputedAt: time.Now()}
	for _, entity := range s.board.Registry().Entities() {
		counts, err := s.board.PendingCounts(ctx, user, entity)
		if err != nil {
			return nil, err
		}
		es := EntitySummary{Entity: string(entity), StageCounts: counts}
		for _, n := range counts {
			es.TotalPending += n
		}
		summary.Entities = append(summary.Entities, es)
	}
	return summary, nil
}

// Invalidate drops all cached summaries. The board calls this (via the
// notifier path) after a stage completes.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
}

// SaveSnapshots persists per-stage pending counts. Run from the workers
// binary on a schedule.
func (s *Service) SaveSnapshots(ctx context.Context) error {
	admin := staging.UserContext{
		UserID:      "workers",
		FirmScope:   staging.ScopeAll,
		Permissions: map[string]bool{auth.PermAdmin: true},
	}
	summary, err := s.compute(ctx, admin)
	if err != nil {
		return fmt.Errorf("failed to compute dashboard snapshot: %w", err)
	}

	for _, es := range summary.Entities {
		for stage, count := range es.StageCounts {
			_, err := s.db.ExecContext(ctx, `
				INSERT INTO dashboard_snapshots (entity, stage, pending_count, computed_at)
				VALUES ($1, $2, $3, $4)`,
				es.Entity, stage, count, summary.ComputedAt)
			if err != nil {
				return fmt.Errorf("failed to save dashboard snapshot: %w", err)
			}
		}
	}
	s.logger.Info("dashboard snapshots saved", zap.Int("entities", len(summary.Entities)))
	return nil
}

// RecentSnapshots returns stored aggregates for one entity, newest first.
func (s *Service) RecentSnapshots(ctx context.Context, entity string, limit int) ([]Snapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []Snapshot
	err := s.db.SelectContext(ctx, &out, `
		SELECT entity, stage, pending_count, computed_at
		FROM dashboard_snapshots
		WHERE entity = $1
		ORDER BY computed_at DESC, stage
		LIMIT $2`, entity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard snapshots: %w", err)
	}
	return out, nil
}
