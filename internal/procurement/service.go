package procurement

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"procurehub/store-portal/store-portal-backend/internal/auth"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotVisible       = errors.New("record is outside the caller's firm scope")
)

// StageEvent describes one completed transition, including the row as
// persisted so listeners can read stage inputs without refetching.
type StageEvent struct {
	Entity     string
	Key        string
	Stage      int
	StageLabel string
	Record     staging.Record
	User       staging.UserContext
}

// Notifier fans out stage completions. Implemented by the notifications
// service and the stock listener; the indirection keeps this package off
// the websocket stack.
type Notifier interface {
	StageCompleted(ctx context.Context, event StageEvent)
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) StageCompleted(ctx context.Context, event StageEvent) {}

// Service runs the fetch-filter-classify read path and the
// validate-compute-persist write path for every staged entity.
type Service struct {
	repo     Repository
	engine   *staging.Engine
	notifier Notifier
	logger   *zap.Logger
}

func NewService(repo Repository, engine *staging.Engine, notifier Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{repo: repo, engine: engine, notifier: notifier, logger: logger}
}

// Registry exposes the stage schema for handlers.
func (s *Service) Registry() *staging.Registry { return s.engine.Registry() }

// Pending lists the records the user may see that are awaiting the given
// stage, natural key descending.
func (s *Service) Pending(ctx context.Context, user staging.UserContext, entity staging.EntityType, stage int) ([]staging.Record, error) {
	c, schema, err := s.classified(ctx, user, entity, stage)
	if err != nil {
		return nil, err
	}
	staging.SortByKeyDesc(c.Pending, schema.KeyField)
	return c.Pending, nil
}

// History lists the user-visible records that completed the given stage.
func (s *Service) History(ctx context.Context, user staging.UserContext, entity staging.EntityType, stage int) ([]staging.Record, error) {
	c, schema, err := s.classified(ctx, user, entity, stage)
	if err != nil {
		return nil, err
	}
	staging.SortByKeyDesc(c.History, schema.KeyField)
	return c.History, nil
}

func (s *Service) classified(ctx context.Context, user staging.UserContext, entity staging.EntityType, stage int) (staging.Classification, staging.EntitySchema, error) {
	schema, terr := s.Registry().Entity(entity)
	if terr != nil {
		return staging.Classification{}, staging.EntitySchema{}, terr
	}
	def, terr := s.Registry().Stage(entity, stage)
	if terr != nil {
		return staging.Classification{}, staging.EntitySchema{}, terr
	}
	if perm := ViewPermission(entity); !user.Allowed(perm) && !user.Allowed(auth.PermAdmin) {
		return staging.Classification{}, staging.EntitySchema{}, ErrPermissionDenied
	}

	records, err := s.repo.FetchAll(ctx, entity)
	if err != nil {
		// Read failures degrade to an empty board plus the error; the
		// caller renders "no data" rather than failing outright.
		s.logger.Error("fetch failed",
			zap.String("entity", string(entity)),
			zap.Error(err))
		return staging.Classification{}, schema, err
	}

	visible := staging.FilterVisible(records, schema.FirmField, user)
	return staging.Classify(visible, def), schema, nil
}

// Complete runs one stage transition end to end: permission gate, firm
// scope check, engine validation, persistence, notification. Returns the
// updated row as persisted.
func (s *Service) Complete(ctx context.Context, user staging.UserContext, entity staging.EntityType, stage int, key string, input staging.StageInput) (staging.Record, error) {
	def, terr := s.Registry().Stage(entity, stage)
	if terr != nil {
		return nil, terr
	}
	schema, _ := s.Registry().Entity(entity)

	if perm := ActionPermission(entity, stage); !user.Allowed(perm) && !user.Allowed(auth.PermAdmin) {
		return nil, ErrPermissionDenied
	}

	record, err := s.repo.GetByKey(ctx, entity, key)
	if err != nil {
		return nil, err
	}
	if !user.CanSee(record, schema.FirmField) {
		return nil, ErrNotVisible
	}

	outcome, terr := s.engine.CompleteStage(ctx, record, entity, stage, input)
	if terr != nil {
		return nil, terr
	}

	updated, err := s.repo.UpdateByKey(ctx, entity, key, outcome.Update)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, staging.PersistenceTimeout(err)
		}
		if errors.Is(err, ErrRecordNotFound) {
			return nil, err
		}
		return nil, staging.PersistenceFailed(err)
	}

	s.logger.Info("stage completed",
		zap.String("entity", string(entity)),
		zap.String("key", key),
		zap.Int("stage", stage),
		zap.String("stage_label", def.Label),
		zap.String("user", user.UserID))

	s.notifier.StageCompleted(ctx, StageEvent{
		Entity:     string(entity),
		Key:        key,
		Stage:      stage,
		StageLabel: def.Label,
		Record:     updated,
		User:       user,
	})

	return updated, nil
}

// Get returns a single record if the caller may see it.
func (s *Service) Get(ctx context.Context, user staging.UserContext, entity staging.EntityType, key string) (staging.Record, error) {
	schema, terr := s.Registry().Entity(entity)
	if terr != nil {
		return nil, terr
	}
	if perm := ViewPermission(entity); !user.Allowed(perm) && !user.Allowed(auth.PermAdmin) {
		return nil, ErrPermissionDenied
	}
	record, err := s.repo.GetByKey(ctx, entity, key)
	if err != nil {
		return nil, err
	}
	if !user.CanSee(record, schema.FirmField) {
		return nil, ErrNotVisible
	}
	return record, nil
}

// PendingCounts aggregates, per stage, how many visible records await it.
// Backs the dashboard tiles.
func (s *Service) PendingCounts(ctx context.Context, user staging.UserContext, entity staging.EntityType) (map[int]int, error) {
	schema, terr := s.Registry().Entity(entity)
	if terr != nil {
		return nil, terr
	}
	if perm := ViewPermission(entity); !user.Allowed(perm) && !user.Allowed(auth.PermAdmin) {
		return nil, ErrPermissionDenied
	}

	records, err := s.repo.FetchAll(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending %s: %w", entity, err)
	}
	visible := staging.FilterVisible(records, schema.FirmField, user)

	counts := make(map[int]int, schema.StageCount())
	for i := 1; i <= schema.StageCount(); i++ {
		def, _ := s.Registry().Stage(entity, i)
		counts[i] = len(staging.Classify(visible, def).Pending)
	}
	return counts, nil
}
