package entry

import (
	"fmt"
	"strings"
	"time"
)

// Entry is a single recorded mood observation.
type Entry struct {
	ID        int64     `json:"id"`
	Mood      string    `json:"mood"`
	MoodLevel int       `json:"moodLevel"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp Timestamp `json:"timestamp"`
}

// New builds an unsaved entry stamped with the current time.
func New(mood string, level int, notes string) *Entry {
	return &Entry{
		Mood:      mood,
		MoodLevel: level,
		Notes:     notes,
		Timestamp: Now(),
	}
}

// Clone returns a detached copy of e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// Equal reports whether both entries carry the same values. Timestamps are
// compared as instants.
func (e *Entry) Equal(o *Entry) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.ID == o.ID &&
		e.Mood == o.Mood &&
		e.MoodLevel == o.MoodLevel &&
		e.Notes == o.Notes &&
		e.Timestamp.Equal(o.Timestamp.Time)
}

// Day returns the local calendar day of the entry, formatted as 2006-01-02.
func (e *Entry) Day() string {
	return e.Timestamp.Local().Format(LayoutDay)
}

func (e *Entry) String() string {
	notes := strings.TrimSpace(e.Notes)
	if notes == "" {
		return fmt.Sprintf("%s (%d)", e.Mood, e.MoodLevel)
	}
	return fmt.Sprintf("%s (%d)  %s", e.Mood, e.MoodLevel, notes)
}

// Distribution is the number of entries recorded for one mood label.
type Distribution struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// Total sums the counts of every row.
func Total(rows []Distribution) int {
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	return total
}

// CountFor returns the count recorded for mood, zero when absent.
func CountFor(rows []Distribution, mood string) int {
	for _, r := range rows {
		if r.Mood == mood {
			return r.Count
		}
	}
	return 0
}

// Since filters entries to those recorded at or after then, keeping order.
func Since(entries []*Entry, then time.Time) []*Entry {
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		if !e.Timestamp.Before(then) {
			out = append(out, e)
		}
	}
	return out
}
