package staging

import "fmt"

// ErrorCode is the closed taxonomy of transition failures. Every failure is
// returned as a value for the caller to branch on; nothing here panics.
type ErrorCode string

const (
	CodeNotEligible            ErrorCode = "NotEligible"
	CodeAlreadyCompleted       ErrorCode = "AlreadyCompleted"
	CodeValidationFailed       ErrorCode = "ValidationFailed"
	CodeAttachmentUploadFailed ErrorCode = "AttachmentUploadFailed"
	CodePersistenceFailed      ErrorCode = "PersistenceFailed"
	CodePersistenceTimeout     ErrorCode = "PersistenceTimeout"
	CodeUnknownStage           ErrorCode = "UnknownStage"
	CodeUnknownEntity          ErrorCode = "UnknownEntity"
)

// TransitionError carries the failure code plus, for validation failures,
// per-field detail the UI can surface next to the offending input.
type TransitionError struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
}

func (e *TransitionError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is supports errors.Is against another *TransitionError by code.
func (e *TransitionError) Is(target error) bool {
	t, ok := target.(*TransitionError)
	return ok && t.Code == e.Code
}

func notEligible(key string, stage int) *TransitionError {
	return &TransitionError{
		Code:    CodeNotEligible,
		Message: fmt.Sprintf("record %q has not reached stage %d", key, stage),
	}
}

func alreadyCompleted(key string, stage int) *TransitionError {
	return &TransitionError{
		Code:    CodeAlreadyCompleted,
		Message: fmt.Sprintf("stage %d of record %q is already completed", stage, key),
	}
}

func validationFailed(fields map[string]string) *TransitionError {
	return &TransitionError{
		Code:    CodeValidationFailed,
		Message: "stage input is invalid",
		Fields:  fields,
	}
}

func uploadFailed(err error) *TransitionError {
	return &TransitionError{
		Code:    CodeAttachmentUploadFailed,
		Message: err.Error(),
	}
}

func unknownEntity(entity EntityType) *TransitionError {
	return &TransitionError{
		Code:    CodeUnknownEntity,
		Message: fmt.Sprintf("no schema registered for entity %q", entity),
	}
}

func unknownStage(entity EntityType, stage int) *TransitionError {
	return &TransitionError{
		Code:    CodeUnknownStage,
		Message: fmt.Sprintf("entity %q has no stage %d", entity, stage),
	}
}

// PersistenceFailed wraps a repository write failure in the taxonomy.
func PersistenceFailed(err error) *TransitionError {
	return &TransitionError{Code: CodePersistenceFailed, Message: err.Error()}
}

// PersistenceTimeout wraps a repository deadline hit in the taxonomy.
func PersistenceTimeout(err error) *TransitionError {
	return &TransitionError{Code: CodePersistenceTimeout, Message: err.Error()}
}
