package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/moodlog/pkg/entry"
)

func TestWatchEmitsMutationEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := openMemory(t)

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	e := mustInsert(t, p, entry.New("Happy 😊", 5, ""))
	e.Notes = "changed"
	if err := p.Update(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := p.Delete(ctx, e); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []EventType{EventEntryCreated, EventEntryUpdated, EventEntryDeleted}
	for _, w := range want {
		select {
		case evt := <-ch:
			if evt.Type != w {
				t.Fatalf("expected %s, got %s", w, evt.Type)
			}
			if evt.ID != e.ID {
				t.Fatalf("expected id %d, got %d", e.ID, evt.ID)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", w)
		}
	}
}

func TestWatchSkipsNoOpMutations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := openMemory(t)

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	ghost := &entry.Entry{ID: 7, Mood: "Sad 😟"}
	_ = p.Update(ctx, ghost)
	_ = p.Delete(ctx, ghost)

	select {
	case evt := <-ch:
		t.Fatalf("unexpected event %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchClosesWithPersistence(t *testing.T) {
	p, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ch, err := p.Watch(context.Background())
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("watch channel not closed")
	}
	if _, err := p.Watch(context.Background()); err == nil {
		t.Fatalf("expected watch on closed persistence to fail")
	}
}

func TestWatchSeesWritesFromAnotherHandle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := filepath.Join(t.TempDir(), "mood_database.db")

	reader, err := Open(path)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	defer reader.Close()
	writer, err := Open(path)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	defer writer.Close()

	ch, err := reader.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	// Allow the watcher goroutine to register before writing.
	time.Sleep(50 * time.Millisecond)

	mustInsert(t, writer, entry.New("Calm 🙂", 4, "from elsewhere"))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				all, err := reader.ListAll(ctx)
				if err != nil {
					t.Fatalf("list: %v", err)
				}
				if len(all) != 1 {
					t.Fatalf("expected external write to be visible, got %d entries", len(all))
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for invalidation event")
		}
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 10)
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Type: EventInvalidated}, func(ev Event) { got <- ev })
	}
	select {
	case ev := <-got:
		if ev.Type != EventInvalidated {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("throttle never flushed")
	}
	select {
	case ev := <-got:
		t.Fatalf("expected a single coalesced event, got extra %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}
