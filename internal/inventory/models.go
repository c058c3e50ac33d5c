package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevel is the current on-hand quantity of one item at one firm.
type StockLevel struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	FirmNameMatch string          `json:"firm_name_match" db:"firm_name_match"`
	ItemName      string          `json:"item_name" db:"item_name"`
	Unit          string          `json:"unit" db:"unit"`
	Quantity      decimal.Decimal `json:"quantity" db:"quantity"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// MovementKind says which direction stock moved.
type MovementKind string

const (
	MovementIn  MovementKind = "IN"
	MovementOut MovementKind = "OUT"
)

// StockMovement is the audit trail of every receipt and issue applied to
// the stock ledger.
type StockMovement struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	FirmNameMatch string          `json:"firm_name_match" db:"firm_name_match"`
	ItemName      string          `json:"item_name" db:"item_name"`
	Unit          string          `json:"unit" db:"unit"`
	Kind          MovementKind    `json:"kind" db:"kind"`
	Quantity      decimal.Decimal `json:"quantity" db:"quantity"`
	RefNo         string          `json:"ref_no" db:"ref_no"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
