package staging

import (
	"fmt"
	"strings"
)

// EntityType identifies one staged business-object type (indent, store-in
// entry, issue, tally entry, full-kitting entry).
type EntityType string

// DefaultFirmField is the column that carries a record's owning firm.
const DefaultFirmField = "firm_name_match"

// FieldKind classifies a user-supplied input field on a stage form.
type FieldKind int

const (
	TextField FieldKind = iota
	EnumField
	NumberField
)

// InputField describes one value the user must (or may) supply when
// completing a stage.
type InputField struct {
	Name     string
	Kind     FieldKind
	Required bool
	Choices  []string // EnumField only
}

// AttachmentPolicy limits what files a stage accepts.
type AttachmentPolicy struct {
	MaxBytes     int64
	ContentTypes []string
}

// DefaultAttachmentPolicy mirrors the upload limits enforced store-wide:
// 5 MB, common image formats plus PDF.
func DefaultAttachmentPolicy() AttachmentPolicy {
	return AttachmentPolicy{
		MaxBytes: 5 * 1024 * 1024,
		ContentTypes: []string{
			"image/jpeg", "image/png", "image/jpg", "image/webp", "application/pdf",
		},
	}
}

// Allows reports whether a file of the given type and size passes the policy.
func (p AttachmentPolicy) Allows(contentType string, size int64) bool {
	if size > p.MaxBytes {
		return false
	}
	for _, t := range p.ContentTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

// AttachmentSpec declares that a stage accepts a file and where the
// uploaded file's URL lands on the record.
type AttachmentSpec struct {
	Field    string
	Required bool
	Policy   AttachmentPolicy
}

// StageDefinition declares one stage of an entity's lifecycle: the
// planned/actual timestamp pair that encodes its state, the optional
// status/remarks/delay columns, and the form the user fills to complete it.
type StageDefinition struct {
	Entity EntityType
	Index  int // 1-based position in the pipeline
	Label  string

	PlannedField string
	ActualField  string
	StatusField  string // "" when the stage has no status
	RemarksField string // "" when the stage takes no remarks
	DelayField   string // "" when no delay column exists

	// StatusChoices closes the status vocabulary. Empty with a non-empty
	// StatusField means free text.
	StatusChoices []string

	Inputs     []InputField
	Attachment *AttachmentSpec

	// SkipSunday advances the completion date to Monday when the stage is
	// completed on a Sunday. Entity/stage specific, never global.
	SkipSunday bool
}

// EntitySchema is the full ordered pipeline for one entity type.
type EntitySchema struct {
	Entity    EntityType
	KeyField  string // natural key column (indent_no, lift_no, ...)
	FirmField string // defaults to DefaultFirmField
	Stages    []StageDefinition
}

// StageCount returns the number of stages in the pipeline.
func (s EntitySchema) StageCount() int { return len(s.Stages) }

// Registry is the immutable lookup table of entity schemas. Built once at
// startup; lookups never mutate it.
type Registry struct {
	entities map[EntityType]EntitySchema
}

// NewRegistry validates and indexes the given schemas.
func NewRegistry(schemas ...EntitySchema) (*Registry, error) {
	entities := make(map[EntityType]EntitySchema, len(schemas))
	for _, s := range schemas {
		if s.Entity == "" {
			return nil, fmt.Errorf("schema with empty entity type")
		}
		if _, dup := entities[s.Entity]; dup {
			return nil, fmt.Errorf("duplicate schema for entity %q", s.Entity)
		}
		if s.KeyField == "" {
			return nil, fmt.Errorf("entity %q: missing key field", s.Entity)
		}
		if s.FirmField == "" {
			s.FirmField = DefaultFirmField
		}
		if len(s.Stages) == 0 {
			return nil, fmt.Errorf("entity %q: no stages", s.Entity)
		}
		for i := range s.Stages {
			st := &s.Stages[i]
			st.Entity = s.Entity
			if st.Index != i+1 {
				return nil, fmt.Errorf("entity %q: stage %d declared with index %d", s.Entity, i+1, st.Index)
			}
			if st.PlannedField == "" || st.ActualField == "" {
				return nil, fmt.Errorf("entity %q stage %d: planned/actual fields are required", s.Entity, st.Index)
			}
			if len(st.StatusChoices) > 0 && st.StatusField == "" {
				return nil, fmt.Errorf("entity %q stage %d: status choices without a status field", s.Entity, st.Index)
			}
			for _, in := range st.Inputs {
				if in.Name == "" {
					return nil, fmt.Errorf("entity %q stage %d: input with empty name", s.Entity, st.Index)
				}
				if in.Kind == EnumField && len(in.Choices) == 0 {
					return nil, fmt.Errorf("entity %q stage %d: enum input %q without choices", s.Entity, st.Index, in.Name)
				}
			}
			if st.Attachment != nil && st.Attachment.Field == "" {
				return nil, fmt.Errorf("entity %q stage %d: attachment without target field", s.Entity, st.Index)
			}
		}
		entities[s.Entity] = s
	}
	return &Registry{entities: entities}, nil
}

// MustNewRegistry is NewRegistry for statically declared schemas.
func MustNewRegistry(schemas ...EntitySchema) *Registry {
	r, err := NewRegistry(schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

// Entity returns the schema for the given entity type.
func (r *Registry) Entity(entity EntityType) (EntitySchema, *TransitionError) {
	s, ok := r.entities[entity]
	if !ok {
		return EntitySchema{}, unknownEntity(entity)
	}
	return s, nil
}

// Stage returns the definition for (entity, stageIndex). stageIndex is 1-based.
func (r *Registry) Stage(entity EntityType, stageIndex int) (StageDefinition, *TransitionError) {
	s, terr := r.Entity(entity)
	if terr != nil {
		return StageDefinition{}, terr
	}
	if stageIndex < 1 || stageIndex > len(s.Stages) {
		return StageDefinition{}, unknownStage(entity, stageIndex)
	}
	return s.Stages[stageIndex-1], nil
}

// Entities lists the registered entity types.
func (r *Registry) Entities() []EntityType {
	out := make([]EntityType, 0, len(r.entities))
	for e := range r.entities {
		out = append(out, e)
	}
	return out
}
