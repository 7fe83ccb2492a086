package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventEntryCreated is emitted after an insert commits.
	EventEntryCreated EventType = iota

	// EventEntryUpdated is emitted after an update changed a record.
	EventEntryUpdated

	// EventEntryDeleted is emitted after a delete removed a record.
	EventEntryDeleted

	// EventInvalidated signals that the database file was written by someone
	// else (another moodlog process) and callers should reload everything.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventEntryCreated:
		return "created"
	case EventEntryUpdated:
		return "updated"
	case EventEntryDeleted:
		return "deleted"
	case EventInvalidated:
		return "invalidated"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type EventType
	ID   int64
}

const watchBuffer = 64

// hub fans committed mutations out to every Watch subscriber.
type hub struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan Event
	closed bool
	done   chan struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan Event), done: make(chan struct{})}
}

func (h *hub) subscribe() (int, <-chan Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, nil, false
	}
	h.next++
	ch := make(chan Event, watchBuffer)
	h.subs[h.next] = ch
	return h.next, ch, true
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		send(ch, ev)
	}
}

func (h *hub) sendTo(id int, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		send(ch, ev)
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

func send(ch chan Event, ev Event) {
	select {
	case ch <- ev:
	default:
		// A full buffer means the consumer already has unread events and
		// will reload anyway, so dropping keeps writers from blocking.
	}
}

// Watch streams change events until ctx is cancelled or the persistence is
// closed, at which point the channel is closed. Every committed mutation in
// this process produces an event; writes to the database file made by other
// processes produce a (throttled) EventInvalidated.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	id, events, ok := p.hub.subscribe()
	if !ok {
		return nil, fmt.Errorf("store: watch: persistence closed")
	}

	var watcher *fsnotify.Watcher
	if p.path != "" {
		var err error
		watcher, err = fsnotify.NewWatcher()
		if err != nil {
			p.hub.unsubscribe(id)
			return nil, fmt.Errorf("store: create watcher: %w", err)
		}
		if err := watcher.Add(filepath.Dir(p.path)); err != nil {
			_ = watcher.Close()
			p.hub.unsubscribe(id)
			return nil, fmt.Errorf("store: watch %s: %w", filepath.Dir(p.path), err)
		}
	}

	go func() {
		defer p.hub.unsubscribe(id)
		if watcher == nil {
			select {
			case <-ctx.Done():
			case <-p.hub.done:
			}
			return
		}
		defer func() {
			if err := watcher.Close(); err != nil {
				slog.Default().Warn("store: watcher close", "err", err)
			}
		}()

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()
		forward := func(ev Event) { p.hub.sendTo(id, ev) }
		base := filepath.Base(p.path)

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.hub.done:
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// We cannot classify the change, so ask for a full reload.
				slog.Default().Debug("store: watcher error", "err", err)
				throttle.Enqueue(Event{Type: EventInvalidated}, forward)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				// Matches the database and its -journal/-wal side files.
				if !strings.HasPrefix(filepath.Base(evt.Name), base) {
					continue
				}
				throttle.Enqueue(Event{Type: EventInvalidated}, forward)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces rapid change notifications so consumers reload
// once per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Type] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]struct{})
	t.timer = nil
	t.mu.Unlock()

	for eventType := range pending {
		send(Event{Type: eventType})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
