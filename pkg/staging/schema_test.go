package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueSchema() EntitySchema {
	return EntitySchema{
		Entity:   "issue",
		KeyField: "issue_no",
		Stages: []StageDefinition{
			{
				Index:         1,
				Label:         "Give Items",
				PlannedField:  "planned1",
				ActualField:   "actual1",
				StatusField:   "status",
				StatusChoices: []string{"Yes", "No"},
				Inputs: []InputField{
					{Name: "given_qty", Kind: NumberField, Required: true},
				},
			},
		},
	}
}

func indentSchema() EntitySchema {
	return EntitySchema{
		Entity:   "indent",
		KeyField: "indent_no",
		Stages: []StageDefinition{
			{
				Index:         1,
				Label:         "Approval",
				PlannedField:  "planned1",
				ActualField:   "actual1",
				StatusField:   "approval_status",
				StatusChoices: []string{"Approve", "Reject"},
				RemarksField:  "approval_remarks",
			},
			{
				Index:         2,
				Label:         "PO Decision",
				PlannedField:  "planned2",
				ActualField:   "actual2",
				StatusField:   "po_required",
				StatusChoices: []string{"Yes", "No"},
				SkipSunday:    true,
			},
		},
	}
}

func TestNewRegistryValidates(t *testing.T) {
	_, err := NewRegistry(EntitySchema{Entity: "x", KeyField: "k"})
	assert.Error(t, err, "schema without stages must be rejected")

	_, err = NewRegistry(EntitySchema{
		Entity:   "x",
		KeyField: "k",
		Stages:   []StageDefinition{{Index: 2, PlannedField: "p", ActualField: "a"}},
	})
	assert.Error(t, err, "stage index must match position")

	_, err = NewRegistry(issueSchema(), issueSchema())
	assert.Error(t, err, "duplicate entity must be rejected")

	_, err = NewRegistry(EntitySchema{
		Entity:   "x",
		KeyField: "k",
		Stages:   []StageDefinition{{Index: 1, PlannedField: "p"}},
	})
	assert.Error(t, err, "missing actual field must be rejected")
}

func TestRegistryLookup(t *testing.T) {
	reg, err := NewRegistry(issueSchema(), indentSchema())
	require.NoError(t, err)

	schema, terr := reg.Entity("issue")
	require.Nil(t, terr)
	assert.Equal(t, DefaultFirmField, schema.FirmField, "firm field defaults")
	assert.Equal(t, 1, schema.StageCount())

	def, terr := reg.Stage("indent", 2)
	require.Nil(t, terr)
	assert.True(t, def.SkipSunday)
	assert.Equal(t, EntityType("indent"), def.Entity)

	_, terr = reg.Entity("grn")
	require.NotNil(t, terr)
	assert.Equal(t, CodeUnknownEntity, terr.Code)

	_, terr = reg.Stage("issue", 2)
	require.NotNil(t, terr)
	assert.Equal(t, CodeUnknownStage, terr.Code)

	_, terr = reg.Stage("issue", 0)
	require.NotNil(t, terr)
	assert.Equal(t, CodeUnknownStage, terr.Code)
}

func TestAttachmentPolicy(t *testing.T) {
	p := DefaultAttachmentPolicy()
	assert.True(t, p.Allows("application/pdf", 1024*1024))
	assert.True(t, p.Allows("IMAGE/PNG", 10))
	assert.False(t, p.Allows("image/gif", 10))
	assert.False(t, p.Allows("application/pdf", 6*1024*1024))
}
