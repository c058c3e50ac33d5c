package vendors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"procurehub/store-portal/store-portal-backend/pkg/pdf"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

var (
	ErrFirmRequired = errors.New("a concrete firm is required")
	ErrNoQuotations = errors.New("no quotations recorded for indent")
)

// Service handles vendor management, quotation comparison and purchase
// order issuance.
type Service struct {
	repo   Repository
	pdfs   pdf.Generator
	clock  staging.Clock
	loc    *time.Location
	logger *zap.Logger
}

func NewService(repo Repository, pdfs pdf.Generator, clock staging.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = staging.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		pdfs:   pdfs,
		clock:  clock,
		loc:    staging.Kolkata(),
		logger: logger,
	}
}

func (s *Service) CreateVendor(ctx context.Context, req CreateVendorRequest) (*Vendor, error) {
	v := &Vendor{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		GSTIN:     strings.TrimSpace(req.GSTIN),
		CreatedAt: s.clock.Now().In(s.loc),
	}
	if v.Name == "" {
		return nil, fmt.Errorf("vendor name is required")
	}
	if err := s.repo.CreateVendor(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Info("vendor created", zap.String("vendor_id", v.ID.String()), zap.String("name", v.Name))
	return v, nil
}

func (s *Service) ListVendors(ctx context.Context) ([]Vendor, error) {
	return s.repo.ListVendors(ctx)
}

func (s *Service) AddQuotation(ctx context.Context, req AddQuotationRequest) (*Quotation, error) {
	if _, err := s.repo.GetVendor(ctx, req.VendorID.String()); err != nil {
		return nil, err
	}
	q := &Quotation{
		ID:        uuid.New(),
		IndentNo:  strings.TrimSpace(req.IndentNo),
		VendorID:  req.VendorID,
		Rate:      req.Rate,
		Remarks:   strings.TrimSpace(req.Remarks),
		CreatedAt: s.clock.Now().In(s.loc),
	}
	if err := s.repo.AddQuotation(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Compare returns all quotations for an indent with the lowest rate marked.
// Ties keep the earliest quote, matching how the comparison sheet reads
// top to bottom.
func (s *Service) Compare(ctx context.Context, indentNo string) (*Comparison, error) {
	quotes, err := s.repo.QuotationsForIndent(ctx, indentNo)
	if err != nil {
		return nil, err
	}
	cmp := &Comparison{IndentNo: indentNo, Quotes: quotes}
	for i := range quotes {
		if cmp.Lowest == nil || quotes[i].Rate.LessThan(cmp.Lowest.Rate) {
			cmp.Lowest = &quotes[i]
		}
	}
	return cmp, nil
}

// CreatePurchaseOrder issues a PO to the chosen vendor. The caller's firm
// scope fills in the firm unless the caller sees all firms and named one.
func (s *Service) CreatePurchaseOrder(ctx context.Context, user staging.UserContext, req CreatePORequest) (*PurchaseOrder, error) {
	firm := strings.TrimSpace(req.Firm)
	if !user.SeesAll() {
		firm = strings.TrimSpace(user.FirmScope)
	}
	if firm == "" || strings.EqualFold(firm, staging.ScopeAll) {
		return nil, ErrFirmRequired
	}

	vendor, err := s.repo.GetVendor(ctx, req.VendorID.String())
	if err != nil {
		return nil, err
	}

	seq, err := s.repo.NextPOSeq(ctx)
	if err != nil {
		return nil, err
	}

	po := &PurchaseOrder{
		ID:            uuid.New(),
		PONo:          fmt.Sprintf("PO-%05d", seq),
		IndentNo:      strings.TrimSpace(req.IndentNo),
		FirmNameMatch: firm,
		VendorID:      vendor.ID,
		ItemName:      strings.TrimSpace(req.ItemName),
		Unit:          strings.TrimSpace(req.Unit),
		Quantity:      req.Quantity,
		Rate:          req.Rate,
		Amount:        req.Quantity.Mul(req.Rate),
		Remarks:       strings.TrimSpace(req.Remarks),
		CreatedAt:     s.clock.Now().In(s.loc),
	}
	if err := s.repo.CreatePO(ctx, po); err != nil {
		return nil, err
	}
	s.logger.Info("purchase order issued",
		zap.String("po_no", po.PONo),
		zap.String("indent_no", po.IndentNo),
		zap.String("vendor", vendor.Name),
		zap.String("amount", po.Amount.String()))
	return po, nil
}

func (s *Service) ListPOs(ctx context.Context, user staging.UserContext) ([]PurchaseOrder, error) {
	scope := user.FirmScope
	if user.SeesAll() {
		scope = ""
	}
	return s.repo.ListPOs(ctx, scope)
}

// RenderPO produces the printable PDF for an issued purchase order. A PO
// outside the caller's firm scope reads as not found.
func (s *Service) RenderPO(ctx context.Context, user staging.UserContext, poNo string) (io.Reader, error) {
	po, err := s.repo.GetPO(ctx, poNo)
	if err != nil {
		return nil, err
	}
	if !user.CanSee(staging.Record{"firm_name_match": po.FirmNameMatch}, "firm_name_match") {
		return nil, ErrPONotFound
	}
	vendor, err := s.repo.GetVendor(ctx, po.VendorID.String())
	if err != nil {
		return nil, err
	}
	data := pdf.POData{
		PONumber:   po.PONo,
		PODate:     po.CreatedAt.In(s.loc).Format("02-01-2006"),
		FirmName:   po.FirmNameMatch,
		VendorName: vendor.Name,
		VendorAddr: vendor.Address,
		IndentNo:   po.IndentNo,
		Lines: []pdf.POLine{{
			ItemName: po.ItemName,
			Unit:     po.Unit,
			Quantity: po.Quantity.String(),
			Rate:     po.Rate.String(),
			Amount:   po.Amount.String(),
		}},
		Total:   po.Amount.String(),
		Remarks: po.Remarks,
	}
	return s.pdfs.GeneratePO(ctx, data)
}
