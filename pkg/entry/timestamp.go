package entry

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// LayoutDay is the calendar-day layout used to bucket entries.
	LayoutDay = "2006-01-02"
	// LayoutDisplay is the human readable layout used by printers.
	LayoutDisplay = "Mon Jan 2, 2006 15:04"
)

func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Timestamp is persisted as epoch milliseconds, so values are always kept at
// millisecond precision.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to what the store can hold.
func Now() Timestamp {
	return FromMillis(time.Now().UnixMilli())
}

// FromMillis converts epoch milliseconds into a local Timestamp.
func FromMillis(ms int64) Timestamp {
	return Timestamp{Time: time.UnixMilli(ms)}
}

// Millis returns the epoch millisecond form stored in the database.
func (t Timestamp) Millis() int64 {
	return t.UnixMilli()
}

func (t Timestamp) SameDay(then time.Time) bool {
	if t.Local().Day() == then.Local().Day() &&
		t.Local().Month() == then.Local().Month() &&
		t.Local().Year() == then.Local().Year() {
		return true
	}
	return false
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", FormatTime(t.Time))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var timestamp string
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}
	if timestamp == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339)
}

func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}
