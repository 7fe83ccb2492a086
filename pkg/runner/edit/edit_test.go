package edit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store"
)

func newService(t *testing.T) *app.Service {
	t.Helper()
	p, err := store.Open(store.MemoryPath)
	if err != nil {
		t.Fatalf("open persistence: %v", err)
	}
	s := app.New(p, app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(func() {
		_ = s.Close()
		_ = p.Close()
	})
	return s
}

func TestEditNotesKeepsTheRest(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	orig, err := s.Add(ctx, "Neutral 😐", 3, "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	notes := "updated text"
	e := Edit{Service: s, ID: orig.ID, Notes: &notes, Out: io.Discard}
	if err := e.Do(ctx); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got, err := s.EntryByID(ctx, orig.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Notes != notes || got.Mood != orig.Mood || got.MoodLevel != orig.MoodLevel || !got.Timestamp.Equal(orig.Timestamp.Time) {
		t.Fatalf("unexpected entry after edit: %v (was %v)", got, orig)
	}
}

func TestEditMood(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	orig, err := s.Add(ctx, "Neutral 😐", 3, "keep")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	calm, _ := mood.Default().FindByLevel(4)
	e := Edit{Service: s, ID: orig.ID, Mood: &calm, Out: io.Discard}
	if err := e.Do(ctx); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got, _ := s.EntryByID(ctx, orig.ID)
	if got.Mood != "Calm 🙂" || got.MoodLevel != 4 || got.Notes != "keep" {
		t.Fatalf("unexpected entry after edit: %v", got)
	}
}

func TestEditMissing(t *testing.T) {
	e := Edit{Service: newService(t), ID: 404, Out: io.Discard}
	if err := e.Do(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
