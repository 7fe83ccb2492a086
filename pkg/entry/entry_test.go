package entry

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewStampsMillisecondPrecision(t *testing.T) {
	e := New("Happy 😊", 5, "")
	if e.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
	if got := FromMillis(e.Timestamp.Millis()); !got.Equal(e.Timestamp.Time) {
		t.Fatalf("timestamp does not survive millisecond round trip: %v vs %v", got, e.Timestamp)
	}
	if e.ID != 0 {
		t.Fatalf("new entries carry no id, got %d", e.ID)
	}
}

func TestCloneIsDetached(t *testing.T) {
	e := &Entry{ID: 3, Mood: "Calm 🙂", MoodLevel: 4, Notes: "tea", Timestamp: Now()}
	cp := e.Clone()
	if !cp.Equal(e) {
		t.Fatalf("clone should equal original")
	}
	cp.Notes = "coffee"
	if e.Notes != "tea" {
		t.Fatalf("mutating clone changed original")
	}
	if cp.Equal(e) {
		t.Fatalf("expected entries to differ after edit")
	}
}

func TestEqualNil(t *testing.T) {
	var a, b *Entry
	if !a.Equal(b) {
		t.Fatalf("nil entries should be equal")
	}
	if (&Entry{}).Equal(nil) {
		t.Fatalf("entry should not equal nil")
	}
}

func TestTimestampJSON(t *testing.T) {
	ts := FromMillis(1_700_000_000_123)
	e := Entry{ID: 1, Mood: "Sad 😟", MoodLevel: 2, Timestamp: ts}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Entry
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Timestamp.Equal(ts.Time) {
		t.Fatalf("expected %v, got %v", ts, out.Timestamp)
	}
}

func TestDistributionHelpers(t *testing.T) {
	rows := []Distribution{{Mood: "Happy 😊", Count: 2}, {Mood: "Sad 😟", Count: 1}}
	if Total(rows) != 3 {
		t.Fatalf("expected total 3, got %d", Total(rows))
	}
	if CountFor(rows, "Sad 😟") != 1 {
		t.Fatalf("expected Sad count 1")
	}
	if CountFor(rows, "Calm 🙂") != 0 {
		t.Fatalf("expected absent mood count 0")
	}
}

func TestSince(t *testing.T) {
	now := time.Now()
	entries := []*Entry{
		{ID: 2, Timestamp: Timestamp{Time: now}},
		{ID: 1, Timestamp: Timestamp{Time: now.Add(-48 * time.Hour)}},
	}
	got := Since(entries, now.Add(-24*time.Hour))
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only the recent entry, got %v", got)
	}
}
