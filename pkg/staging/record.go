package staging

import (
	"fmt"
	"strings"
)

// Record is one row of a staged entity's table, keyed by column name. The
// engine only reads fields the schema names, so extra columns pass through
// untouched.
type Record map[string]any

// Str returns the trimmed string form of a field. Nil and absent fields
// come back empty. Numeric values are rendered with fmt so the presence
// checks behave the same regardless of how the store decoded the column.
func (r Record) Str(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// Has reports whether a field is present and non-blank after trimming.
// Whitespace-only values count as empty; the source tables are not
// consistent about this, so the engine trims everywhere.
func (r Record) Has(field string) bool {
	return r.Str(field) != ""
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Update is the partial mutation a successful transition produces. The
// engine never applies it; persistence belongs to the caller.
type Update map[string]any

// Apply merges the update into a copy of the record and returns the copy.
func (u Update) Apply(r Record) Record {
	out := r.Clone()
	for k, v := range u {
		out[k] = v
	}
	return out
}

// StagePending reports whether the record is awaiting completion at the
// stage: planned set, actual not.
func StagePending(r Record, def StageDefinition) bool {
	return r.Has(def.PlannedField) && !r.Has(def.ActualField)
}

// StageCompleted reports whether both planned and actual are set.
func StageCompleted(r Record, def StageDefinition) bool {
	return r.Has(def.PlannedField) && r.Has(def.ActualField)
}
