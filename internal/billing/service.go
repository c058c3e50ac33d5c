package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

var (
	ErrBillNotFound = errors.New("bill not found")
	ErrFirmRequired = errors.New("a concrete firm is required")
	ErrOverpayment  = errors.New("payment exceeds outstanding balance")
)

// Service tracks vendor bills and their settlement.
type Service struct {
	db     *gorm.DB
	clock  staging.Clock
	loc    *time.Location
	logger *zap.Logger
}

func NewService(db *gorm.DB, clock staging.Clock, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&Bill{}, &Payment{}); err != nil {
		return nil, fmt.Errorf("failed to migrate billing tables: %w", err)
	}
	if clock == nil {
		clock = staging.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, clock: clock, loc: staging.Kolkata(), logger: logger}, nil
}

// RecordBill captures a bill entered at the store-in bill-entry stage.
func (s *Service) RecordBill(ctx context.Context, user staging.UserContext, req RecordBillRequest) (*Bill, error) {
	firm := strings.TrimSpace(req.Firm)
	if !user.SeesAll() {
		firm = strings.TrimSpace(user.FirmScope)
	}
	if firm == "" || strings.EqualFold(firm, staging.ScopeAll) {
		return nil, ErrFirmRequired
	}

	details := datatypes.JSON("{}")
	if len(req.Details) > 0 {
		raw, err := json.Marshal(req.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to encode bill details: %w", err)
		}
		details = datatypes.JSON(raw)
	}

	bill := &Bill{
		ID:            uuid.New(),
		BillNo:        strings.TrimSpace(req.BillNo),
		LiftNo:        strings.TrimSpace(req.LiftNo),
		FirmNameMatch: firm,
		VendorName:    strings.TrimSpace(req.VendorName),
		Amount:        req.Amount,
		Status:        BillStatusEntered,
		Details:       details,
		EnteredBy:     user.Name,
	}
	if err := s.db.WithContext(ctx).Create(bill).Error; err != nil {
		return nil, fmt.Errorf("failed to record bill: %w", err)
	}
	s.logger.Info("bill recorded",
		zap.String("bill_no", bill.BillNo),
		zap.String("lift_no", bill.LiftNo),
		zap.String("amount", bill.Amount.String()))
	return bill, nil
}

// RecordPayment settles part of a bill. The bill flips to paid once the
// settled total reaches the bill amount.
func (s *Service) RecordPayment(ctx context.Context, user staging.UserContext, req RecordPaymentRequest) (*Payment, error) {
	var bill Bill
	err := s.db.WithContext(ctx).Where("bill_no = ?", strings.TrimSpace(req.BillNo)).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}
	if !user.CanSee(staging.Record{"firm_name_match": bill.FirmNameMatch}, "firm_name_match") {
		return nil, ErrBillNotFound
	}

	paid, err := s.paidTotal(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	if paid.Add(req.Amount).GreaterThan(bill.Amount) {
		return nil, ErrOverpayment
	}

	payment := &Payment{
		ID:        uuid.New(),
		BillID:    bill.ID,
		Amount:    req.Amount,
		Mode:      strings.TrimSpace(req.Mode),
		Reference: strings.TrimSpace(req.Reference),
		Remarks:   strings.TrimSpace(req.Remarks),
		PaidBy:    user.Name,
		PaidAt:    s.clock.Now().In(s.loc),
	}
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if paid.Add(req.Amount).Equal(bill.Amount) {
		if err := s.db.WithContext(ctx).Model(&bill).Update("status", BillStatusPaid).Error; err != nil {
			return nil, fmt.Errorf("failed to mark bill paid: %w", err)
		}
	}
	s.logger.Info("payment recorded",
		zap.String("bill_no", bill.BillNo),
		zap.String("amount", payment.Amount.String()),
		zap.String("mode", payment.Mode))
	return payment, nil
}

func (s *Service) paidTotal(ctx context.Context, billID uuid.UUID) (decimal.Decimal, error) {
	var payments []Payment
	if err := s.db.WithContext(ctx).Where("bill_id = ?", billID).Find(&payments).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to load payments: %w", err)
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// ListBills returns bills visible to the caller with settlement totals.
func (s *Service) ListBills(ctx context.Context, user staging.UserContext) ([]BillSummary, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if !user.SeesAll() {
		query = query.Where("lower(firm_name_match) = lower(?)", user.FirmScope)
	}
	var bills []Bill
	if err := query.Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	out := make([]BillSummary, 0, len(bills))
	for _, bill := range bills {
		paid, err := s.paidTotal(ctx, bill.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, BillSummary{
			Bill:       bill,
			PaidAmount: paid,
			Balance:    bill.Amount.Sub(paid),
		})
	}
	return out, nil
}

// GetBill looks up one bill by number, firm scoped.
func (s *Service) GetBill(ctx context.Context, user staging.UserContext, billNo string) (*BillSummary, error) {
	var bill Bill
	err := s.db.WithContext(ctx).Where("bill_no = ?", billNo).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}
	if !user.CanSee(staging.Record{"firm_name_match": bill.FirmNameMatch}, "firm_name_match") {
		return nil, ErrBillNotFound
	}
	paid, err := s.paidTotal(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	return &BillSummary{Bill: bill, PaidAmount: paid, Balance: bill.Amount.Sub(paid)}, nil
}
