package indents

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Indent is a purchase requisition row. The planned/actual pairs encode
// its three-stage pipeline (approval, PO decision, PO issue); the board
// endpoints read them generically, this module owns intake and typed
// listing.
type Indent struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	IndentNo      string          `json:"indent_no" db:"indent_no"`
	FirmNameMatch string          `json:"firm_name_match" db:"firm_name_match"`
	ItemName      string          `json:"item_name" db:"item_name"`
	Unit          string          `json:"unit" db:"unit"`
	Quantity      decimal.Decimal `json:"quantity" db:"quantity"`
	Department    string          `json:"department" db:"department"`
	RequestedBy   string          `json:"requested_by" db:"requested_by"`

	Planned1 sql.NullString `json:"planned1" db:"planned1"`
	Actual1  sql.NullString `json:"actual1" db:"actual1"`
	Delay1   sql.NullString `json:"delay1" db:"delay1"`
	Planned2 sql.NullString `json:"planned2" db:"planned2"`
	Actual2  sql.NullString `json:"actual2" db:"actual2"`
	Delay2   sql.NullString `json:"delay2" db:"delay2"`
	Planned3 sql.NullString `json:"planned3" db:"planned3"`
	Actual3  sql.NullString `json:"actual3" db:"actual3"`
	Delay3   sql.NullString `json:"delay3" db:"delay3"`

	ApprovalStatus  sql.NullString `json:"approval_status" db:"approval_status"`
	ApprovalRemarks sql.NullString `json:"approval_remarks" db:"approval_remarks"`
	PORequired      sql.NullString `json:"po_required" db:"po_required"`
	PORemarks       sql.NullString `json:"po_remarks" db:"po_remarks"`
	PONo            sql.NullString `json:"po_no" db:"po_no"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateIndentRequest is the intake payload. Firm is taken from the
// caller's scope unless the caller sees all firms and names one.
type CreateIndentRequest struct {
	ItemName   string          `json:"item_name" binding:"required"`
	Unit       string          `json:"unit" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Department string          `json:"department"`
	Firm       string          `json:"firm_name_match"`
}
