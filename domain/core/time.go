package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// CutoffAt is the per-condition collection-period cutoff. Rows recorded
// before it belong to the pilot window and are excluded.
type CutoffAt Timestamp

// NewCutoffAt builds a cutoff from a calendar time.
func NewCutoffAt(t time.Time) CutoffAt { return CutoffAt(NewTimestamp(t)) }

// Time returns the underlying time.Time.
func (t CutoffAt) Time() time.Time { return Timestamp(t).Time() }

// String renders the cutoff as an RFC3339 date-time.
func (t CutoffAt) String() string { return t.Time().Format(time.RFC3339) }

// MarshalJSON renders the cutoff like a Timestamp.
func (t CutoffAt) MarshalJSON() ([]byte, error) {
	return Timestamp(t).MarshalJSON()
}

func (t *CutoffAt) UnmarshalJSON(data []byte) error {
	return (*Timestamp)(t).UnmarshalJSON(data)
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}
