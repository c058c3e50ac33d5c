package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

var ErrFirmRequired = errors.New("a concrete firm is required")

// Service maintains the stock ledger. Receipts come from the store-in
// pipeline and issues from the issue pipeline.
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
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, clock: clock, loc: staging.Kolkata(), logger: logger}
}

func (s *Service) movement(firm, itemName, unit, refNo string, kind MovementKind, qty decimal.Decimal) *StockMovement {
	return &StockMovement{
		ID:            uuid.New(),
		FirmNameMatch: strings.TrimSpace(firm),
		ItemName:      strings.TrimSpace(itemName),
		Unit:          strings.TrimSpace(unit),
		Kind:          kind,
		Quantity:      qty,
		RefNo:         strings.TrimSpace(refNo),
		CreatedAt:     s.clock.Now().In(s.loc),
	}
}

// ApplyStoreIn adds received quantity to stock. refNo carries the lift
// number so the ledger ties back to the receipt.
func (s *Service) ApplyStoreIn(ctx context.Context, firm, itemName, unit, refNo string, qty decimal.Decimal) (*StockLevel, error) {
	if strings.TrimSpace(firm) == "" || strings.EqualFold(strings.TrimSpace(firm), staging.ScopeAll) {
		return nil, ErrFirmRequired
	}
	m := s.movement(firm, itemName, unit, refNo, MovementIn, qty)
	lvl, err := s.repo.Adjust(ctx, m)
	if err != nil {
		return nil, err
	}
	s.logger.Info("stock received",
		zap.String("firm", m.FirmNameMatch),
		zap.String("item", m.ItemName),
		zap.String("qty", qty.String()),
		zap.String("ref_no", m.RefNo))
	return lvl, nil
}

// ApplyIssue deducts issued quantity from stock. The ledger never goes
// negative.
func (s *Service) ApplyIssue(ctx context.Context, firm, itemName, unit, refNo string, qty decimal.Decimal) (*StockLevel, error) {
	if strings.TrimSpace(firm) == "" || strings.EqualFold(strings.TrimSpace(firm), staging.ScopeAll) {
		return nil, ErrFirmRequired
	}
	m := s.movement(firm, itemName, unit, refNo, MovementOut, qty)
	lvl, err := s.repo.Adjust(ctx, m)
	if err != nil {
		return nil, err
	}
	s.logger.Info("stock issued",
		zap.String("firm", m.FirmNameMatch),
		zap.String("item", m.ItemName),
		zap.String("qty", qty.String()),
		zap.String("ref_no", m.RefNo))
	return lvl, nil
}

func (s *Service) scope(user staging.UserContext) string {
	if user.SeesAll() {
		return ""
	}
	return user.FirmScope
}

func (s *Service) ListLevels(ctx context.Context, user staging.UserContext) ([]StockLevel, error) {
	return s.repo.ListLevels(ctx, s.scope(user))
}

func (s *Service) ListMovements(ctx context.Context, user staging.UserContext, itemName string) ([]StockMovement, error) {
	return s.repo.ListMovements(ctx, s.scope(user), itemName)
}
