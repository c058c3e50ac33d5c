package vendors

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is one supplier on the approved list.
type Vendor struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Phone     string    `json:"phone" db:"phone"`
	GSTIN     string    `json:"gstin" db:"gstin"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Quotation is one vendor's rate against an indent. The dashboard compares
// up to three per indent and highlights the lowest.
type Quotation struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	IndentNo  string          `json:"indent_no" db:"indent_no"`
	VendorID  uuid.UUID       `json:"vendor_id" db:"vendor_id"`
	Rate      decimal.Decimal `json:"rate" db:"rate"`
	Remarks   string          `json:"remarks" db:"remarks"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// QuotationWithVendor joins the vendor name for display.
type QuotationWithVendor struct {
	Quotation
	VendorName string `json:"vendor_name" db:"vendor_name"`
}

// Comparison is the rate-compare view for one indent: all quotes plus the
// lowest one.
type Comparison struct {
	IndentNo string                `json:"indent_no"`
	Quotes   []QuotationWithVendor `json:"quotes"`
	Lowest   *QuotationWithVendor  `json:"lowest,omitempty"`
}

// PurchaseOrder is the order issued to the selected vendor.
type PurchaseOrder struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	PONo          string          `json:"po_no" db:"po_no"`
	IndentNo      string          `json:"indent_no" db:"indent_no"`
	FirmNameMatch string          `json:"firm_name_match" db:"firm_name_match"`
	VendorID      uuid.UUID       `json:"vendor_id" db:"vendor_id"`
	ItemName      string          `json:"item_name" db:"item_name"`
	Unit          string          `json:"unit" db:"unit"`
	Quantity      decimal.Decimal `json:"quantity" db:"quantity"`
	Rate          decimal.Decimal `json:"rate" db:"rate"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Remarks       string          `json:"remarks" db:"remarks"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// CreateVendorRequest registers a supplier.
type CreateVendorRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	GSTIN   string `json:"gstin"`
}

// AddQuotationRequest records one vendor's rate for an indent.
type AddQuotationRequest struct {
	IndentNo string          `json:"indent_no" binding:"required"`
	VendorID uuid.UUID       `json:"vendor_id" binding:"required"`
	Rate     decimal.Decimal `json:"rate" binding:"required"`
	Remarks  string          `json:"remarks"`
}

// CreatePORequest issues a purchase order against an indent.
type CreatePORequest struct {
	IndentNo string          `json:"indent_no" binding:"required"`
	VendorID uuid.UUID       `json:"vendor_id" binding:"required"`
	ItemName string          `json:"item_name" binding:"required"`
	Unit     string          `json:"unit" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Rate     decimal.Decimal `json:"rate" binding:"required"`
	Firm     string          `json:"firm_name_match"`
	Remarks  string          `json:"remarks"`
}
