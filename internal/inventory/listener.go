package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"procurehub/store-portal/store-portal-backend/internal/procurement"
)

// StageListener applies board transitions to the stock ledger: a completed
// receive stage books stock in, a completed give-items stage books it out.
type StageListener struct {
	service *Service
	logger  *zap.Logger
}

func NewStageListener(service *Service, logger *zap.Logger) *StageListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StageListener{service: service, logger: logger}
}

func (l *StageListener) StageCompleted(ctx context.Context, event procurement.StageEvent) {
	record := event.Record
	firm := record.Str("firm_name_match")
	item := record.Str("item_name")
	unit := record.Str("unit")

	switch {
	case event.Entity == string(procurement.EntityStoreIn) && event.Stage == 1:
		qty, err := decimal.NewFromString(record.Str("received_qty"))
		if err != nil {
			l.logger.Warn("unparseable received_qty",
				zap.String("key", event.Key),
				zap.String("value", record.Str("received_qty")))
			return
		}
		if _, err := l.service.ApplyStoreIn(ctx, firm, item, unit, event.Key, qty); err != nil {
			l.logger.Error("failed to book stock in",
				zap.String("lift_no", event.Key),
				zap.Error(err))
		}

	case event.Entity == string(procurement.EntityIssue) && event.Stage == 1:
		if record.Str("status") != "Yes" {
			return
		}
		qty, err := decimal.NewFromString(record.Str("given_qty"))
		if err != nil {
			l.logger.Warn("unparseable given_qty",
				zap.String("key", event.Key),
				zap.String("value", record.Str("given_qty")))
			return
		}
		if _, err := l.service.ApplyIssue(ctx, firm, item, unit, event.Key, qty); err != nil {
			l.logger.Error("failed to book stock out",
				zap.String("issue_no", event.Key),
				zap.Error(err))
		}
	}
}
