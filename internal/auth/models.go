package auth

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Permission keys form a closed set; anything else on a user row is ignored.
const (
	PermIndentView           = "indent_view"
	PermIndentApprovalAction = "indent_approval_action"
	PermPOView               = "po_view"
	PermPOAction             = "po_action"
	PermReceiveItemView      = "receive_item_view"
	PermReceiveItemAction    = "receive_item_action"
	PermIssueView            = "issue_view"
	PermIssueAction          = "issue_action"
	PermTallyView            = "tally_view"
	PermTallyAction          = "tally_action"
	PermFullKittingView      = "full_kitting_view"
	PermFullKittingAction    = "full_kitting_action"
	PermStockView            = "stock_view"
	PermBillView             = "bill_view"
	PermPaymentAction        = "payment_action"
	PermAdmin                = "admin"
)

// AllPermissions lists every known permission key.
var AllPermissions = []string{
	PermIndentView, PermIndentApprovalAction,
	PermPOView, PermPOAction,
	PermReceiveItemView, PermReceiveItemAction,
	PermIssueView, PermIssueAction,
	PermTallyView, PermTallyAction,
	PermFullKittingView, PermFullKittingAction,
	PermStockView, PermBillView, PermPaymentAction,
	PermAdmin,
}

// User is one back-office account. FirmScope restricts which rows of the
// shared tables the user sees; "all" bypasses filtering.
type User struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Username     string          `json:"username" db:"username"`
	Name         string          `json:"name" db:"name"`
	PasswordHash string          `json:"-" db:"password_hash"`
	FirmScope    string          `json:"firm_name_match" db:"firm_name_match"`
	Permissions  json.RawMessage `json:"permissions" db:"permissions"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// PermissionMap decodes the JSONB permission column, keeping only known
// keys.
func (u *User) PermissionMap() map[string]bool {
	raw := map[string]bool{}
	if len(u.Permissions) > 0 {
		_ = json.Unmarshal(u.Permissions, &raw)
	}
	out := make(map[string]bool, len(AllPermissions))
	for _, key := range AllPermissions {
		if raw[key] {
			out[key] = true
		}
	}
	return out
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed token and the caller's profile.
type LoginResponse struct {
	Token       string          `json:"token"`
	User        string          `json:"user"`
	Name        string          `json:"name"`
	FirmScope   string          `json:"firm_name_match"`
	Permissions map[string]bool `json:"permissions"`
}

// CreateUserRequest is the admin-only account creation payload.
type CreateUserRequest struct {
	Username    string          `json:"username" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Password    string          `json:"password" binding:"required"`
	FirmScope   string          `json:"firm_name_match" binding:"required"`
	Permissions map[string]bool `json:"permissions"`
}
