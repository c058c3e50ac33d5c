package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"procurehub/store-portal/store-portal-backend/internal/procurement"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Service persists notifications and pushes them to connected dashboards.
// It implements the board's Notifier so stage completions fan out without
// the board knowing about websockets.
type Service struct {
	db      *gorm.DB
	manager *Manager
	logger  *zap.Logger
}

func NewService(db *gorm.DB, manager *Manager, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&Notification{}); err != nil {
		return nil, fmt.Errorf("failed to migrate notification tables: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, manager: manager, logger: logger}, nil
}

// StageCompleted records and pushes a stage-completion event for the firm
// the record belongs to.
func (s *Service) StageCompleted(ctx context.Context, event procurement.StageEvent) {
	firm := event.Record.Str("firm_name_match")
	if firm == "" {
		firm = event.User.FirmScope
	}
	payload := map[string]any{
		"entity":      event.Entity,
		"key":         event.Key,
		"stage":       event.Stage,
		"stage_label": event.StageLabel,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	n := &Notification{
		ID:            uuid.New(),
		FirmNameMatch: firm,
		Title:         fmt.Sprintf("%s completed", event.StageLabel),
		Body:          fmt.Sprintf("%s %s moved past %s", event.Entity, event.Key, event.StageLabel),
		Payload:       datatypes.JSON(raw),
		ActorName:     event.User.Name,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		s.logger.Error("failed to persist notification",
			zap.String("entity", event.Entity),
			zap.String("key", event.Key),
			zap.Error(err))
	}

	sent := s.manager.SendToFirm(firm, Message{
		Type:      MessageTypeStageCompleted,
		Data:      payload,
		Timestamp: time.Now(),
	})
	s.logger.Debug("stage completion pushed",
		zap.String("entity", event.Entity),
		zap.String("key", event.Key),
		zap.Int("recipients", sent))
}

// visibleTo narrows a notification query to the caller's firm scope.
// Scope "all" sees every row.
func (s *Service) visibleTo(ctx context.Context, user staging.UserContext) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&Notification{})
	if !user.SeesAll() {
		query = query.Where("lower(firm_name_match) = lower(?)", user.FirmScope)
	}
	return query
}

// List returns recent notifications visible to the caller, newest first.
func (s *Service) List(ctx context.Context, user staging.UserContext, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []Notification
	if err := s.visibleTo(ctx, user).Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

// MarkRead stamps read_at on one notification. A notification outside the
// caller's firm scope reads as not found.
func (s *Service) MarkRead(ctx context.Context, user staging.UserContext, id uuid.UUID) error {
	result := s.visibleTo(ctx, user).
		Where("id = ?", id).
		Update("read_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
