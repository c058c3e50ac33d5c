package indents

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

type Service struct {
	repo   Repository
	clock  staging.Clock
	loc    *time.Location
	logger *zap.Logger
}

func NewService(repo Repository, clock staging.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = staging.SystemClock{}
	}
	return &Service{repo: repo, clock: clock, loc: staging.Kolkata(), logger: logger}
}

// Create registers a new indent with the approval stage already planned:
// the row shows up on the pending-approval board immediately.
func (s *Service) Create(ctx context.Context, user staging.UserContext, req CreateIndentRequest) (*Indent, error) {
	firm := req.Firm
	if !user.SeesAll() || firm == "" {
		firm = user.FirmScope
	}
	if firm == "" || firm == staging.ScopeAll {
		return nil, fmt.Errorf("indent needs a concrete firm, got %q", firm)
	}

	seq, err := s.repo.NextIndentSeq(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().In(s.loc)
	indent := &Indent{
		ID:            uuid.New(),
		IndentNo:      fmt.Sprintf("IN-%05d", seq),
		FirmNameMatch: firm,
		ItemName:      req.ItemName,
		Unit:          req.Unit,
		Quantity:      req.Quantity,
		Department:    req.Department,
		RequestedBy:   user.Name,
		Planned1:      sql.NullString{String: now.Format(staging.TimestampLayout), Valid: true},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, indent); err != nil {
		return nil, err
	}

	s.logger.Info("indent created",
		zap.String("indent_no", indent.IndentNo),
		zap.String("firm", firm),
		zap.String("requested_by", user.UserID))

	return indent, nil
}

// List returns the indents inside the caller's firm scope, newest first.
func (s *Service) List(ctx context.Context, user staging.UserContext) ([]Indent, error) {
	scope := user.FirmScope
	if user.SeesAll() {
		scope = ""
	}
	return s.repo.List(ctx, scope)
}

// Get returns one indent if the caller's scope covers it.
func (s *Service) Get(ctx context.Context, user staging.UserContext, indentNo string) (*Indent, error) {
	indent, err := s.repo.GetByNo(ctx, indentNo)
	if err != nil {
		return nil, err
	}
	if !user.CanSee(staging.Record{"firm_name_match": indent.FirmNameMatch}, staging.DefaultFirmField) {
		return nil, ErrIndentNotFound
	}
	return indent, nil
}
