package staging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBlobStore is a mock implementation of the BlobStore interface
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, data []byte, contentType, pathHint string) (string, error) {
	args := m.Called(ctx, data, contentType, pathHint)
	return args.String(0), args.Error(1)
}

func testEngine(t *testing.T, instant time.Time, blobs BlobStore) *Engine {
	t.Helper()
	reg, err := NewRegistry(issueSchema(), indentSchema(), storeInTestSchema())
	require.NoError(t, err)
	return NewEngine(reg, FixedClock{Instant: instant}, blobs, Kolkata())
}

func storeInTestSchema() EntitySchema {
	return EntitySchema{
		Entity:   "store_in",
		KeyField: "lift_no",
		Stages: []StageDefinition{
			{
				Index:        1,
				Label:        "Receive",
				PlannedField: "planned1",
				ActualField:  "actual1",
				DelayField:   "delay1",
				Inputs: []InputField{
					{Name: "received_qty", Kind: NumberField, Required: true},
				},
				Attachment: &AttachmentSpec{
					Field:  "bill_photo",
					Policy: DefaultAttachmentPolicy(),
				},
			},
		},
	}
}

func TestCompleteStageSuccess(t *testing.T) {
	// Scenario: pending issue record, valid input, fixed Monday clock.
	instant := time.Date(2024, 1, 8, 10, 30, 0, 0, Kolkata())
	engine := testEngine(t, instant, new(MockBlobStore))

	record := Record{
		"issue_no": "IS-100",
		"planned1": "2024-01-01 10:00:00",
		"actual1":  "",
	}
	input := StageInput{Status: "Yes", Values: map[string]any{"given_qty": 5}}

	outcome, terr := engine.CompleteStage(context.Background(), record, "issue", 1, input)
	require.Nil(t, terr)
	assert.True(t, outcome.NowHistory)
	assert.Equal(t, Update{
		"actual1":   "2024-01-08 10:30:00",
		"status":    "Yes",
		"given_qty": 5,
	}, outcome.Update)
}

func TestCompleteStageAlreadyCompleted(t *testing.T) {
	instant := time.Date(2024, 1, 8, 10, 30, 0, 0, Kolkata())
	engine := testEngine(t, instant, new(MockBlobStore))

	record := Record{
		"issue_no": "IS-100",
		"planned1": "2024-01-01 10:00:00",
		"actual1":  "",
	}
	input := StageInput{Status: "Yes", Values: map[string]any{"given_qty": 5}}

	outcome, terr := engine.CompleteStage(context.Background(), record, "issue", 1, input)
	require.Nil(t, terr)

	// Re-run against the updated record: completion is one-way.
	after := outcome.Update.Apply(record)
	outcome2, terr := engine.CompleteStage(context.Background(), after, "issue", 1, input)
	require.NotNil(t, terr)
	assert.Equal(t, CodeAlreadyCompleted, terr.Code)
	assert.Nil(t, outcome2)
}

func TestCompleteStageNotEligible(t *testing.T) {
	engine := testEngine(t, time.Now(), new(MockBlobStore))

	record := Record{"issue_no": "IS-100", "planned1": "  "}
	_, terr := engine.CompleteStage(context.Background(), record, "issue", 1,
		StageInput{Status: "Yes", Values: map[string]any{"given_qty": 5}})
	require.NotNil(t, terr)
	assert.Equal(t, CodeNotEligible, terr.Code)
}

func TestCompleteStageValidation(t *testing.T) {
	engine := testEngine(t, time.Now(), new(MockBlobStore))
	record := Record{"issue_no": "IS-100", "planned1": "2024-01-01 10:00:00"}

	// Missing status and required quantity.
	_, terr := engine.CompleteStage(context.Background(), record, "issue", 1, StageInput{})
	require.NotNil(t, terr)
	assert.Equal(t, CodeValidationFailed, terr.Code)
	assert.Contains(t, terr.Fields, "status")
	assert.Contains(t, terr.Fields, "given_qty")

	// Status outside the closed vocabulary.
	_, terr = engine.CompleteStage(context.Background(), record, "issue", 1,
		StageInput{Status: "Maybe", Values: map[string]any{"given_qty": 5}})
	require.NotNil(t, terr)
	assert.Equal(t, CodeValidationFailed, terr.Code)
	assert.Contains(t, terr.Fields, "status")

	// Quantity must be numeric.
	_, terr = engine.CompleteStage(context.Background(), record, "issue", 1,
		StageInput{Status: "Yes", Values: map[string]any{"given_qty": "five"}})
	require.NotNil(t, terr)
	assert.Equal(t, CodeValidationFailed, terr.Code)
	assert.Contains(t, terr.Fields, "given_qty")
}

func TestCompleteStageUnknownEntityAndStage(t *testing.T) {
	engine := testEngine(t, time.Now(), new(MockBlobStore))
	record := Record{"issue_no": "IS-100", "planned1": "x"}

	_, terr := engine.CompleteStage(context.Background(), record, "grn", 1, StageInput{})
	require.NotNil(t, terr)
	assert.Equal(t, CodeUnknownEntity, terr.Code)

	_, terr = engine.CompleteStage(context.Background(), record, "issue", 7, StageInput{})
	require.NotNil(t, terr)
	assert.Equal(t, CodeUnknownStage, terr.Code)
}

func TestSundayRollover(t *testing.T) {
	// 2024-01-07 was a Sunday.
	sunday := time.Date(2024, 1, 7, 11, 0, 0, 0, Kolkata())
	engine := testEngine(t, sunday, new(MockBlobStore))

	record := Record{
		"indent_no": "IN-1",
		"planned1":  "2024-01-01 09:00:00",
		"actual1":   "2024-01-02 09:00:00",
		"planned2":  "2024-01-03 09:00:00",
	}

	// Stage 2 skips Sundays: date advances to Monday, time of day kept.
	outcome, terr := engine.CompleteStage(context.Background(), record, "indent", 2,
		StageInput{Status: "No"})
	require.Nil(t, terr)
	assert.Equal(t, "2024-01-08 11:00:00", outcome.Update["actual2"])

	// Stage 1 does not skip: the Sunday date itself is recorded.
	fresh := Record{"indent_no": "IN-2", "planned1": "2024-01-01 09:00:00"}
	outcome, terr = engine.CompleteStage(context.Background(), fresh, "indent", 1,
		StageInput{Status: "Approve"})
	require.Nil(t, terr)
	assert.Equal(t, "2024-01-07 11:00:00", outcome.Update["actual1"])
}

func TestAttachmentGating(t *testing.T) {
	engine := testEngine(t, time.Now(), new(MockBlobStore))
	record := Record{"lift_no": "LF-1", "planned1": "2024-01-01 09:00:00"}

	// Wrong content type.
	_, terr := engine.CompleteStage(context.Background(), record, "store_in", 1, StageInput{
		Values:     map[string]any{"received_qty": 10},
		Attachment: &Attachment{Name: "bill.gif", ContentType: "image/gif", Data: []byte("x")},
	})
	require.NotNil(t, terr)
	assert.Equal(t, CodeValidationFailed, terr.Code)
	assert.Contains(t, terr.Fields, "bill_photo")

	// Oversized file.
	_, terr = engine.CompleteStage(context.Background(), record, "store_in", 1, StageInput{
		Values:     map[string]any{"received_qty": 10},
		Attachment: &Attachment{Name: "bill.pdf", ContentType: "application/pdf", Data: make([]byte, 6*1024*1024)},
	})
	require.NotNil(t, terr)
	assert.Equal(t, CodeValidationFailed, terr.Code)

	// A stage without an attachment slot rejects files outright.
	issueRec := Record{"issue_no": "IS-9", "planned1": "2024-01-01 09:00:00"}
	_, terr = engine.CompleteStage(context.Background(), issueRec, "issue", 1, StageInput{
		Status:     "Yes",
		Values:     map[string]any{"given_qty": 1},
		Attachment: &Attachment{Name: "x.png", ContentType: "image/png", Data: []byte("x")},
	})
	require.NotNil(t, terr)
	assert.Equal(t, CodeValidationFailed, terr.Code)
}

func TestAttachmentUploadAndDelay(t *testing.T) {
	instant := time.Date(2024, 1, 4, 9, 0, 0, 0, Kolkata())
	blobs := new(MockBlobStore)
	blobs.On("Upload", mock.Anything, mock.Anything, "application/pdf", mock.Anything).
		Return("https://blobs.example.com/store_in/LF-1/bill.pdf", nil)
	engine := testEngine(t, instant, blobs)

	record := Record{"lift_no": "LF-1", "planned1": "2024-01-01 09:00:00"}
	outcome, terr := engine.CompleteStage(context.Background(), record, "store_in", 1, StageInput{
		Values:     map[string]any{"received_qty": 10},
		Attachment: &Attachment{Name: "bill.pdf", ContentType: "application/pdf", Data: make([]byte, 1024*1024)},
	})
	require.Nil(t, terr)
	assert.Equal(t, "https://blobs.example.com/store_in/LF-1/bill.pdf", outcome.Update["bill_photo"])
	assert.Equal(t, "3 days", outcome.Update["delay1"])
	blobs.AssertExpectations(t)
}

func TestDelayDaysCountsCalendarDays(t *testing.T) {
	at := func(day, hour, min int) time.Time {
		return time.Date(2024, 1, day, hour, min, 0, 0, Kolkata())
	}
	cases := []struct {
		name    string
		planned time.Time
		actual  time.Time
		want    string
	}{
		{"same day", at(5, 9, 0), at(5, 17, 30), "0 days"},
		{"under 24h across midnight", at(5, 23, 0), at(6, 1, 0), "1 day"},
		{"full day", at(5, 9, 0), at(6, 9, 0), "1 day"},
		{"several days", at(1, 9, 0), at(4, 9, 0), "3 days"},
		{"completed early", at(5, 9, 0), at(4, 9, 0), "0 days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, delayDays(tc.planned, tc.actual))
		})
	}
}

func TestAttachmentUploadFailureAbortsTransition(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unreachable"))
	engine := testEngine(t, time.Now(), blobs)

	record := Record{"lift_no": "LF-1", "planned1": "2024-01-01 09:00:00"}
	outcome, terr := engine.CompleteStage(context.Background(), record, "store_in", 1, StageInput{
		Values:     map[string]any{"received_qty": 10},
		Attachment: &Attachment{Name: "bill.pdf", ContentType: "application/pdf", Data: []byte("x")},
	})
	require.NotNil(t, terr)
	assert.Equal(t, CodeAttachmentUploadFailed, terr.Code)
	assert.Nil(t, outcome, "no partial update after a failed upload")
}
