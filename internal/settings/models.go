package settings

import (
	"time"

	"github.com/google/uuid"
)

// Firm is one entry in the firm master. Firm names here are the values
// matched against each record's firm_name_match column, so renames are an
// admin operation, not a casual edit.
type Firm struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateFirmRequest registers a firm.
type CreateFirmRequest struct {
	Name string `json:"name" binding:"required"`
}
