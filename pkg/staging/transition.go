package staging

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// BlobStore is the collaborator that persists stage attachments. Upload
// returns the public URL recorded on the row.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, contentType, pathHint string) (string, error)
}

// Attachment is a file supplied with a stage completion.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// StageInput is everything the user supplies to complete a stage.
type StageInput struct {
	Status     string
	Remarks    string
	Values     map[string]any // extra form fields, keyed by record column
	Attachment *Attachment
}

// Outcome describes a successful transition: the partial update to persist
// and the record's classification at this stage once the update lands
// (always history; completion is one-way).
type Outcome struct {
	Update     Update
	NowHistory bool
}

// Engine validates stage transitions and computes the resulting partial
// update. It never touches storage itself: persistence and refresh belong
// to the caller, so the engine stays pure apart from the attachment upload.
type Engine struct {
	registry *Registry
	clock    Clock
	blobs    BlobStore
	loc      *time.Location
}

// NewEngine builds an engine over the given schema registry. A nil clock
// means the system clock; a nil location means Asia/Kolkata.
func NewEngine(registry *Registry, clock Clock, blobs BlobStore, loc *time.Location) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = Kolkata()
	}
	return &Engine{registry: registry, clock: clock, blobs: blobs, loc: loc}
}

// Registry exposes the engine's schema table.
func (e *Engine) Registry() *Registry { return e.registry }

// CompleteStage checks that the stage is pending (planned set, actual
// empty) and not already completed, validates the input against the
// stage's form schema, uploads the attachment if one was supplied, and
// returns the partial update. On any failure it returns a typed error
// and no update.
func (e *Engine) CompleteStage(ctx context.Context, record Record, entity EntityType, stageIndex int, input StageInput) (*Outcome, *TransitionError) {
	schema, terr := e.registry.Entity(entity)
	if terr != nil {
		return nil, terr
	}
	def, terr := e.registry.Stage(entity, stageIndex)
	if terr != nil {
		return nil, terr
	}

	key := record.Str(schema.KeyField)
	if !record.Has(def.PlannedField) {
		return nil, notEligible(key, stageIndex)
	}
	if record.Has(def.ActualField) {
		return nil, alreadyCompleted(key, stageIndex)
	}
	if fields := validateInput(def, input); len(fields) > 0 {
		return nil, validationFailed(fields)
	}

	update := Update{}

	if input.Attachment != nil {
		url, err := e.blobs.Upload(ctx, input.Attachment.Data, input.Attachment.ContentType,
			fmt.Sprintf("%s/%s/stage-%d/%s", entity, key, stageIndex, input.Attachment.Name))
		if err != nil {
			return nil, uploadFailed(err)
		}
		update[def.Attachment.Field] = url
	}

	ts := e.clock.Now().In(e.loc)
	if def.SkipSunday && ts.Weekday() == time.Sunday {
		// No processing is recorded on Sundays for this stage; the
		// effective date moves to Monday.
		ts = ts.AddDate(0, 0, 1)
	}
	update[def.ActualField] = ts.Format(TimestampLayout)

	if def.StatusField != "" && input.Status != "" {
		update[def.StatusField] = input.Status
	}
	if def.RemarksField != "" && input.Remarks != "" {
		update[def.RemarksField] = input.Remarks
	}
	if def.DelayField != "" {
		if planned, err := time.ParseInLocation(TimestampLayout, record.Str(def.PlannedField), e.loc); err == nil {
			update[def.DelayField] = delayDays(planned, ts)
		}
	}
	for _, in := range def.Inputs {
		if v, ok := input.Values[in.Name]; ok {
			update[in.Name] = v
		}
	}

	return &Outcome{Update: update, NowHistory: true}, nil
}

// validateInput checks the stage's form schema and returns per-field
// failure detail, empty when the input is valid.
func validateInput(def StageDefinition, input StageInput) map[string]string {
	fields := map[string]string{}

	if def.StatusField != "" {
		if input.Status == "" {
			fields[def.StatusField] = "status is required"
		} else if len(def.StatusChoices) > 0 && !contains(def.StatusChoices, input.Status) {
			fields[def.StatusField] = fmt.Sprintf("status must be one of %v", def.StatusChoices)
		}
	}

	for _, in := range def.Inputs {
		v, ok := input.Values[in.Name]
		if !ok || isBlankValue(v) {
			if in.Required {
				fields[in.Name] = "required"
			}
			continue
		}
		switch in.Kind {
		case EnumField:
			if !contains(in.Choices, fmt.Sprintf("%v", v)) {
				fields[in.Name] = fmt.Sprintf("must be one of %v", in.Choices)
			}
		case NumberField:
			if !isNumeric(v) {
				fields[in.Name] = "must be a number"
			}
		}
	}

	switch {
	case def.Attachment == nil:
		if input.Attachment != nil {
			fields["attachment"] = "stage does not accept a file"
		}
	case input.Attachment == nil:
		if def.Attachment.Required {
			fields[def.Attachment.Field] = "file is required"
		}
	default:
		a := input.Attachment
		if !def.Attachment.Policy.Allows(a.ContentType, int64(len(a.Data))) {
			fields[def.Attachment.Field] = fmt.Sprintf(
				"file must be at most %d bytes and one of %v",
				def.Attachment.Policy.MaxBytes, def.Attachment.Policy.ContentTypes)
		}
	}

	return fields
}

func contains(choices []string, v string) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}

func isBlankValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return Record{"v": s}.Str("v") == ""
	}
	return false
}

func isNumeric(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(n, 64)
		return err == nil
	default:
		return false
	}
}

// delayDays renders the informational delay column: calendar days between
// the planned date and the actual date, floored at zero. The comparison is
// date to date, so a planned evening followed by an actual early morning
// still counts as one day late.
func delayDays(planned, actual time.Time) string {
	p := time.Date(planned.Year(), planned.Month(), planned.Day(), 0, 0, 0, 0, planned.Location())
	a := time.Date(actual.Year(), actual.Month(), actual.Day(), 0, 0, 0, 0, actual.Location())
	days := int(a.Sub(p).Hours() / 24)
	if days < 0 {
		days = 0
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
