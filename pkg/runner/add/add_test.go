package add

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/entry"
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

func TestAddUsesCatalogLevel(t *testing.T) {
	s := newService(t)
	happy, _ := mood.Default().FindByLevel(5)
	var buf bytes.Buffer
	a := Add{Service: s, Mood: happy, HasMood: true, Notes: "sunny", JSON: true, Out: &buf}
	if err := a.Do(context.Background()); err != nil {
		t.Fatalf("add: %v", err)
	}
	var got entry.Entry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if got.ID == 0 || got.Mood != "Happy 😊" || got.MoodLevel != 5 || got.Notes != "sunny" {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestAddLevelOverride(t *testing.T) {
	s := newService(t)
	sad, _ := mood.Default().FindByLevel(2)
	a := Add{Service: s, Mood: sad, HasMood: true, Level: 1, Out: io.Discard}
	if err := a.Do(context.Background()); err != nil {
		t.Fatalf("add: %v", err)
	}
	all, err := s.History(context.Background())
	if err != nil || len(all) != 1 || all[0].MoodLevel != 1 {
		t.Fatalf("expected one entry at level 1, got %v %v", all, err)
	}
}

func TestAddRequiresMood(t *testing.T) {
	a := Add{Service: newService(t), Out: io.Discard}
	if err := a.Do(context.Background()); err == nil {
		t.Fatalf("expected missing mood to fail")
	}
}
