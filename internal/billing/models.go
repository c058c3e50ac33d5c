package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BillStatus is the lifecycle status of a vendor bill.
type BillStatus string

const (
	BillStatusEntered  BillStatus = "entered"
	BillStatusApproved BillStatus = "approved"
	BillStatusPaid     BillStatus = "paid"
)

// Bill is a vendor bill captured at the bill-entry stage of store-in.
type Bill struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BillNo        string          `json:"bill_no" gorm:"not null;uniqueIndex"`
	LiftNo        string          `json:"lift_no" gorm:"not null;index"`
	FirmNameMatch string          `json:"firm_name_match" gorm:"not null;index"`
	VendorName    string          `json:"vendor_name"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Status        BillStatus      `json:"status" gorm:"default:'entered';index"`
	Details       datatypes.JSON  `json:"details" gorm:"default:'{}'"`
	EnteredBy     string          `json:"entered_by"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// Payment is a settlement made against a bill.
type Payment struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BillID    uuid.UUID       `json:"bill_id" gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Mode      string          `json:"mode"`
	Reference string          `json:"reference"`
	Remarks   string          `json:"remarks"`
	PaidBy    string          `json:"paid_by"`
	PaidAt    time.Time       `json:"paid_at"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`

	Bill Bill `json:"-" gorm:"foreignKey:BillID"`
}

// RecordBillRequest captures one vendor bill.
type RecordBillRequest struct {
	BillNo     string          `json:"bill_no" binding:"required"`
	LiftNo     string          `json:"lift_no" binding:"required"`
	Firm       string          `json:"firm_name_match"`
	VendorName string          `json:"vendor_name"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Details    map[string]any  `json:"details"`
}

// RecordPaymentRequest settles some or all of a bill.
type RecordPaymentRequest struct {
	BillNo    string          `json:"bill_no" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Mode      string          `json:"mode"`
	Reference string          `json:"reference"`
	Remarks   string          `json:"remarks"`
}

// BillSummary is a bill with its settled total.
type BillSummary struct {
	Bill
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Balance    decimal.Decimal `json:"balance"`
}
