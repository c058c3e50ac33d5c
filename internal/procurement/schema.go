package procurement

import (
	"procurehub/store-portal/store-portal-backend/internal/auth"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

// Staged entity types tracked by the portal.
const (
	EntityIndent      staging.EntityType = "indent"
	EntityStoreIn     staging.EntityType = "store_in"
	EntityIssue       staging.EntityType = "issue"
	EntityTally       staging.EntityType = "tally"
	EntityFullKitting staging.EntityType = "full_kitting"
)

// tableFor maps entity types to their backing tables. Closed set; the
// repository refuses anything else.
var tableFor = map[staging.EntityType]string{
	EntityIndent:      "indents",
	EntityStoreIn:     "store_in_records",
	EntityIssue:       "issues",
	EntityTally:       "tally_entries",
	EntityFullKitting: "full_kitting_records",
}

// NewRegistry declares every pipeline: the ordered stages, their
// planned/actual/status/remarks columns, the form each stage needs, and
// the odd business rules (the PO-decision stage never records a Sunday).
func NewRegistry() *staging.Registry {
	return staging.MustNewRegistry(
		staging.EntitySchema{
			Entity:   EntityIndent,
			KeyField: "indent_no",
			Stages: []staging.StageDefinition{
				{
					Index:         1,
					Label:         "Approval",
					PlannedField:  "planned1",
					ActualField:   "actual1",
					DelayField:    "delay1",
					StatusField:   "approval_status",
					StatusChoices: []string{"Approve", "Reject"},
					RemarksField:  "approval_remarks",
				},
				{
					Index:         2,
					Label:         "PO Decision",
					PlannedField:  "planned2",
					ActualField:   "actual2",
					DelayField:    "delay2",
					StatusField:   "po_required",
					StatusChoices: []string{"Yes", "No"},
					RemarksField:  "po_remarks",
					SkipSunday:    true,
				},
				{
					Index:        3,
					Label:        "PO Issue",
					PlannedField: "planned3",
					ActualField:  "actual3",
					DelayField:   "delay3",
					Inputs: []staging.InputField{
						{Name: "po_no", Kind: staging.TextField, Required: true},
					},
				},
			},
		},
		staging.EntitySchema{
			Entity:   EntityStoreIn,
			KeyField: "lift_no",
			Stages: []staging.StageDefinition{
				{
					Index:        1,
					Label:        "Receive",
					PlannedField: "planned1",
					ActualField:  "actual1",
					DelayField:   "delay1",
					Inputs: []staging.InputField{
						{Name: "received_qty", Kind: staging.NumberField, Required: true},
					},
					Attachment: &staging.AttachmentSpec{
						Field:  "bill_photo",
						Policy: staging.DefaultAttachmentPolicy(),
					},
				},
				{
					Index:         2,
					Label:         "Tally",
					PlannedField:  "planned2",
					ActualField:   "actual2",
					DelayField:    "delay2",
					StatusField:   "tally_status",
					StatusChoices: []string{"okey", "not okey"},
					RemarksField:  "tally_remarks",
				},
				{
					Index:        3,
					Label:        "Bill Entry",
					PlannedField: "planned3",
					ActualField:  "actual3",
					DelayField:   "delay3",
					Inputs: []staging.InputField{
						{Name: "bill_no", Kind: staging.TextField, Required: true},
						{Name: "bill_amount", Kind: staging.NumberField, Required: true},
					},
				},
			},
		},
		staging.EntitySchema{
			Entity:   EntityIssue,
			KeyField: "issue_no",
			Stages: []staging.StageDefinition{
				{
					Index:         1,
					Label:         "Give Items",
					PlannedField:  "planned1",
					ActualField:   "actual1",
					StatusField:   "status",
					StatusChoices: []string{"Yes", "No"},
					Inputs: []staging.InputField{
						{Name: "given_qty", Kind: staging.NumberField, Required: true},
					},
				},
			},
		},
		staging.EntitySchema{
			Entity:   EntityTally,
			KeyField: "tally_no",
			Stages: []staging.StageDefinition{
				{
					Index:         1,
					Label:         "Tally",
					PlannedField:  "planned1",
					ActualField:   "actual1",
					DelayField:    "delay1",
					StatusField:   "tally_status",
					StatusChoices: []string{"Done", "Not Done"},
					RemarksField:  "tally_remarks",
				},
			},
		},
		staging.EntitySchema{
			Entity:   EntityFullKitting,
			KeyField: "kitting_no",
			Stages: []staging.StageDefinition{
				{
					Index:         1,
					Label:         "Kitting Check",
					PlannedField:  "planned1",
					ActualField:   "actual1",
					StatusField:   "kitting_status",
					StatusChoices: []string{"Yes", "No"},
					RemarksField:  "kitting_remarks",
				},
				{
					Index:        2,
					Label:        "Clearance",
					PlannedField: "planned2",
					ActualField:  "actual2",
					RemarksField: "clearance_remarks",
				},
			},
		},
	)
}

// ViewPermission returns the permission bit that gates reading an
// entity's lists.
func ViewPermission(entity staging.EntityType) string {
	switch entity {
	case EntityIndent:
		return auth.PermIndentView
	case EntityStoreIn:
		return auth.PermReceiveItemView
	case EntityIssue:
		return auth.PermIssueView
	case EntityTally:
		return auth.PermTallyView
	case EntityFullKitting:
		return auth.PermFullKittingView
	default:
		return ""
	}
}

// ActionPermission returns the permission bit that gates completing the
// given stage. Indent approval and the PO stages are gated separately.
func ActionPermission(entity staging.EntityType, stage int) string {
	switch entity {
	case EntityIndent:
		if stage == 1 {
			return auth.PermIndentApprovalAction
		}
		return auth.PermPOAction
	case EntityStoreIn:
		return auth.PermReceiveItemAction
	case EntityIssue:
		return auth.PermIssueAction
	case EntityTally:
		return auth.PermTallyAction
	case EntityFullKitting:
		return auth.PermFullKittingAction
	default:
		return ""
	}
}
