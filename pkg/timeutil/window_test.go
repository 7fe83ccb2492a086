package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowDefault(t *testing.T) {
	dur, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != week {
		t.Fatalf("expected %v, got %v", week, dur)
	}
	if label != "1w" {
		t.Fatalf("expected label 1w, got %s", label)
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in    string
		want  time.Duration
		label string
	}{
		{"3d", 3 * day, "3d"},
		{"1w2d6h30m", week + 2*day + 6*time.Hour + 30*time.Minute, "1w2d6h30m"},
		{" 2 Weeks ", 2 * week, "2w"},
		{"48h", 2 * day, "2d"},
		{"90sec", 90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		dur, label, err := ParseWindow(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if dur != tt.want || label != tt.label {
			t.Fatalf("%q: got %v %q, want %v %q", tt.in, dur, label, tt.want, tt.label)
		}
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3 fortnights", "0d", "5"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestCutoff(t *testing.T) {
	now := time.Date(2025, time.May, 20, 12, 0, 0, 0, time.UTC)
	got, label, err := Cutoff(now, "2d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(-2 * day); !got.Equal(want) || label != "2d" {
		t.Fatalf("got %v %q, want %v 2d", got, label, want)
	}
}

func TestLastDays(t *testing.T) {
	now := time.Date(2025, time.March, 2, 18, 45, 0, 0, time.UTC)
	days := LastDays(now, 7)
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if want := time.Date(2025, time.February, 24, 0, 0, 0, 0, time.UTC); !days[0].Equal(want) {
		t.Fatalf("expected first day %v, got %v", want, days[0])
	}
	if want := StartOfDay(now); !days[6].Equal(want) {
		t.Fatalf("expected last day %v, got %v", want, days[6])
	}
	if LastDays(now, 0) != nil {
		t.Fatalf("expected nil for zero days")
	}
}

func TestParseWindowRejectsHugeValues(t *testing.T) {
	for _, in := range []string{"9999999999999w", "106751d", "5000w5000w"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
	got, _, err := ParseWindow("5000w")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5000*week {
		t.Fatalf("got %v, want %v", got, 5000*week)
	}
}
