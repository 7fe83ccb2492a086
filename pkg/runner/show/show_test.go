package show

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"tableflip.dev/moodlog/pkg/app"
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

func TestShow(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	e, err := s.Add(ctx, "Calm 🙂", 4, "a *quiet* morning")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	var buf bytes.Buffer
	if err := (&Show{Service: s, ID: e.ID, Out: &buf}).Do(ctx); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(buf.String(), "Calm 🙂") || !strings.Contains(buf.String(), "quiet") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestShowMissing(t *testing.T) {
	var buf bytes.Buffer
	if err := (&Show{Service: newService(t), ID: 99, JSON: true, Out: &buf}).Do(context.Background()); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(buf.String(), "\"found\": false") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
