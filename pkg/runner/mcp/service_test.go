package mcp

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/store"
)

func newService(t *testing.T, now time.Time) *Service {
	t.Helper()
	p, err := store.Open(store.MemoryPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	clock := func() time.Time { return now }
	a := app.New(p,
		app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		app.WithGracePeriod(10*time.Millisecond),
		app.WithClock(clock),
	)
	t.Cleanup(func() {
		_ = a.Close()
		_ = p.Close()
	})
	svc := NewService(a)
	svc.Now = clock
	return svc
}

func TestServiceLogMoodResolvesAliases(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, time.Now())

	dto, err := svc.LogMood(ctx, LogMoodOptions{Mood: "calm", Notes: "  walk  "})
	if err != nil {
		t.Fatalf("LogMood: %v", err)
	}
	if dto.Mood != "Calm 🙂" || dto.MoodLevel != 4 {
		t.Fatalf("unexpected entry %+v", dto)
	}
	if dto.Notes != "walk" {
		t.Fatalf("expected trimmed notes, got %q", dto.Notes)
	}
	if !dto.InCatalog || dto.Color != "#42A5F5" {
		t.Fatalf("expected catalog color, got %+v", dto)
	}

	dto, err = svc.LogMood(ctx, LogMoodOptions{Mood: "1", Level: 2})
	if err != nil {
		t.Fatalf("LogMood by level: %v", err)
	}
	if dto.Mood != "Anxious 😬" || dto.MoodLevel != 2 {
		t.Fatalf("level override not applied: %+v", dto)
	}

	if _, err := svc.LogMood(ctx, LogMoodOptions{Mood: "elated"}); err == nil {
		t.Fatalf("expected unknown mood to fail")
	}
}

func TestServiceListMoodsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, time.Now())

	for _, m := range []string{"happy", "sad", "neutral"} {
		if _, err := svc.LogMood(ctx, LogMoodOptions{Mood: m}); err != nil {
			t.Fatalf("LogMood %s: %v", m, err)
		}
	}

	all, err := svc.ListMoods(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListMoods: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].Mood != "Neutral 😐" || all[2].Mood != "Happy 😊" {
		t.Fatalf("unexpected order: %s, %s", all[0].Mood, all[2].Mood)
	}

	limited, err := svc.ListMoods(ctx, "1d", 2)
	if err != nil {
		t.Fatalf("ListMoods limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(limited))
	}

	if _, err := svc.ListMoods(ctx, "soon", 0); err == nil {
		t.Fatalf("expected invalid window to fail")
	}
}

func TestServiceUpdateKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, time.Now())

	dto, err := svc.LogMood(ctx, LogMoodOptions{Mood: "neutral", Notes: "meh"})
	if err != nil {
		t.Fatalf("LogMood: %v", err)
	}
	id := formatID(dto.ID)

	happy := "happy"
	notes := "better"
	updated, err := svc.UpdateEntry(ctx, UpdateEntryOptions{ID: id, Mood: &happy, Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if updated.ID != dto.ID || updated.TimestampUnix != dto.TimestampUnix {
		t.Fatalf("identity or timestamp changed: %+v vs %+v", updated, dto)
	}
	if updated.Mood != "Happy 😊" || updated.MoodLevel != 5 || updated.Notes != "better" {
		t.Fatalf("unexpected update %+v", updated)
	}

	got, err := svc.EntryByID(ctx, id)
	if err != nil {
		t.Fatalf("EntryByID: %v", err)
	}
	if got.Notes != "better" {
		t.Fatalf("update not persisted: %+v", got)
	}

	missing, err := svc.UpdateEntry(ctx, UpdateEntryOptions{ID: "999", Notes: &notes})
	if err != nil || missing != nil {
		t.Fatalf("update of an unknown id = %+v, %v; want nil, nil", missing, err)
	}
}

func TestServiceDeleteEntry(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, time.Now())

	dto, err := svc.LogMood(ctx, LogMoodOptions{Mood: "sad"})
	if err != nil {
		t.Fatalf("LogMood: %v", err)
	}

	deleted, err := svc.DeleteEntry(ctx, formatID(dto.ID))
	if err != nil || !deleted {
		t.Fatalf("DeleteEntry = %v, %v", deleted, err)
	}
	deleted, err = svc.DeleteEntry(ctx, formatID(dto.ID))
	if err != nil || deleted {
		t.Fatalf("second DeleteEntry = %v, %v; want false, nil", deleted, err)
	}
	if got, err := svc.EntryByID(ctx, formatID(dto.ID)); err != nil || got != nil {
		t.Fatalf("lookup of a deleted id = %+v, %v; want nil, nil", got, err)
	}
	if _, err := svc.DeleteEntry(ctx, "abc"); err == nil {
		t.Fatalf("expected invalid id to fail")
	}
}

func TestServiceDistributionAndTrend(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local)
	svc := newService(t, now)

	for _, m := range []string{"happy", "happy", "anxious"} {
		if _, err := svc.LogMood(ctx, LogMoodOptions{Mood: m}); err != nil {
			t.Fatalf("LogMood %s: %v", m, err)
		}
	}

	bars, err := svc.Distribution(ctx)
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Label != "Happy" || bars[0].Count != 2 || bars[1].Label != "Anxious" || bars[1].Count != 1 {
		t.Fatalf("unexpected bars %+v", bars)
	}

	points, err := svc.WeeklyTrend(ctx)
	if err != nil {
		t.Fatalf("WeeklyTrend: %v", err)
	}
	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	today := points[len(points)-1]
	if today.Count != 3 {
		t.Fatalf("expected 3 entries today, got %d", today.Count)
	}
	want := float64(5+5+1) / 3
	if today.Average != want {
		t.Fatalf("average = %v, want %v", today.Average, want)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{in: "7", want: 7, ok: true},
		{in: " 12 ", want: 12, ok: true},
		{in: "0"},
		{in: "-3"},
		{in: "x"},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("ParseID(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestServiceRequiresApp(t *testing.T) {
	var svc *Service
	if _, err := svc.ListMoods(context.Background(), "", 0); err == nil {
		t.Fatalf("expected unconfigured service to fail")
	}
	if len(svc.Catalog()) != 5 {
		t.Fatalf("expected default catalog")
	}
}

func TestServiceUnknownIDsAreAbsent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, time.Now())

	got, err := svc.EntryByID(ctx, "42")
	if err != nil || got != nil {
		t.Fatalf("EntryByID(42) = %+v, %v; want nil, nil", got, err)
	}
	notes := "n"
	updated, err := svc.UpdateEntry(ctx, UpdateEntryOptions{ID: "42", Notes: &notes})
	if err != nil || updated != nil {
		t.Fatalf("UpdateEntry(42) = %+v, %v; want nil, nil", updated, err)
	}
	all, err := svc.ListMoods(ctx, "", 0)
	if err != nil || len(all) != 0 {
		t.Fatalf("expected the store untouched, got %d entries, %v", len(all), err)
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
