package staging

import "time"

// TimestampLayout is the wire format of every planned/actual value:
// zero-padded, 24-hour, locale-invariant.
const TimestampLayout = "2006-01-02 15:04:05"

// Clock supplies the current instant. Injectable so the Sunday-rollover
// rule is deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }

// Kolkata returns the business timezone all timestamps are recorded in.
// Falls back to a fixed UTC+5:30 zone when the tz database is absent.
func Kolkata() *time.Location {
	if loc, err := time.LoadLocation("Asia/Kolkata"); err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*3600+1800)
}
