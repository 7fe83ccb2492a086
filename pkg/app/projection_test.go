package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"tableflip.dev/moodlog/pkg/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSource hands out one results channel per start so tests can drive
// each subscription by hand.
type fakeSource struct {
	mu      sync.Mutex
	feeds   []chan store.Result[int]
	ctxs    []context.Context
	failErr error
}

func (f *fakeSource) start(ctx context.Context) (<-chan store.Result[int], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	ch := make(chan store.Result[int], 4)
	f.feeds = append(f.feeds, ch)
	f.ctxs = append(f.ctxs, ctx)
	return ch, nil
}

func (f *fakeSource) feed(t *testing.T, i int) chan store.Result[int] {
	t.Helper()
	var ch chan store.Result[int]
	eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if len(f.feeds) > i {
			ch = f.feeds[i]
			return true
		}
		return false
	})
	return ch
}

func (f *fakeSource) ctx(i int) context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctxs[i]
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func receive[T any](t *testing.T, o *Observer[T]) Snapshot[T] {
	t.Helper()
	select {
	case s, ok := <-o.C():
		if !ok {
			t.Fatalf("observer channel closed")
		}
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for snapshot")
	}
	panic("unreachable")
}

func receiveValue(t *testing.T, o *Observer[int], want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-o.C():
			if !ok {
				t.Fatalf("observer channel closed while waiting for %d", want)
			}
			if s.Err != nil {
				t.Fatalf("unexpected error snapshot: %v", s.Err)
			}
			if s.Value == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for value %d", want)
		}
	}
}

func TestProjectionValueBeforeFirstEmission(t *testing.T) {
	src := &fakeSource{}
	p := newProjection("test", -1, time.Second, quietLogger(), src.start)

	if got := p.Value(); got != -1 {
		t.Fatalf("expected initial value, got %d", got)
	}
	if got := p.State(); got != StateUnsubscribed {
		t.Fatalf("expected unsubscribed before observers, got %s", got)
	}

	o := p.Observe()
	defer o.Close()
	if s := receive(t, o); s.Value != -1 || s.Err != nil {
		t.Fatalf("first snapshot should be the current value, got %+v", s)
	}
	if got := p.State(); got != StateSubscribing {
		t.Fatalf("expected subscribing, got %s", got)
	}

	src.feed(t, 0) <- store.Result[int]{Value: 7}
	receiveValue(t, o, 7)
	if got := p.State(); got != StateActive {
		t.Fatalf("expected active, got %s", got)
	}
	if got := p.Value(); got != 7 {
		t.Fatalf("expected value 7, got %d", got)
	}
}

func TestProjectionGracePeriodKeepsSubscription(t *testing.T) {
	src := &fakeSource{}
	p := newProjection("test", 0, 200*time.Millisecond, quietLogger(), src.start)

	o := p.Observe()
	src.feed(t, 0) <- store.Result[int]{Value: 1}
	receiveValue(t, o, 1)
	o.Close()

	// Rebuilt view inside the grace period reuses the running query.
	time.Sleep(20 * time.Millisecond)
	o2 := p.Observe()
	defer o2.Close()
	if s := receive(t, o2); s.Value != 1 {
		t.Fatalf("expected retained value 1, got %d", s.Value)
	}
	time.Sleep(300 * time.Millisecond)
	if got := p.Starts(); got != 1 {
		t.Fatalf("expected a single store subscription, got %d", got)
	}
	if got := p.State(); got != StateActive {
		t.Fatalf("expected active, got %s", got)
	}
	if err := src.ctx(0).Err(); err != nil {
		t.Fatalf("query should still be running: %v", err)
	}
}

func TestProjectionReleasesAfterGracePeriod(t *testing.T) {
	src := &fakeSource{}
	p := newProjection("test", 0, 30*time.Millisecond, quietLogger(), src.start)

	o := p.Observe()
	src.feed(t, 0) <- store.Result[int]{Value: 3}
	receiveValue(t, o, 3)
	o.Close()
	o.Close()

	eventually(t, func() bool { return p.State() == StateUnsubscribed })
	if src.ctx(0).Err() == nil {
		t.Fatalf("store query should be cancelled after the grace period")
	}
	if got := p.Value(); got != 3 {
		t.Fatalf("last value should be retained, got %d", got)
	}

	o2 := p.Observe()
	defer o2.Close()
	if s := receive(t, o2); s.Value != 3 {
		t.Fatalf("resubscribe should start from the last value, got %d", s.Value)
	}
	src.feed(t, 1) <- store.Result[int]{Value: 4}
	receiveValue(t, o2, 4)
	if got := p.Starts(); got != 2 {
		t.Fatalf("expected the query to restart once, got %d starts", got)
	}
}

func TestProjectionFaultIsRecoverable(t *testing.T) {
	src := &fakeSource{}
	p := newProjection("test", 0, time.Second, quietLogger(), src.start)
	boom := errors.New("disk gone")

	o := p.Observe()
	defer o.Close()
	feed := src.feed(t, 0)
	feed <- store.Result[int]{Value: 2}
	receiveValue(t, o, 2)

	feed <- store.Result[int]{Err: boom}
	eventually(t, func() bool { return p.State() == StateFailed })
	s := receive(t, o)
	if !errors.Is(s.Err, boom) {
		t.Fatalf("expected fault snapshot, got %+v", s)
	}
	if s.Value != 2 {
		t.Fatalf("fault snapshot should carry the last value, got %d", s.Value)
	}
	if !errors.Is(p.Err(), boom) {
		t.Fatalf("expected Err to report the fault, got %v", p.Err())
	}

	p.Retry()
	src.feed(t, 1) <- store.Result[int]{Value: 5}
	receiveValue(t, o, 5)
	if p.Err() != nil {
		t.Fatalf("restart should clear the fault, got %v", p.Err())
	}
}

func TestProjectionObserveRestartsAfterFault(t *testing.T) {
	src := &fakeSource{failErr: errors.New("cannot subscribe")}
	p := newProjection("test", 0, time.Second, quietLogger(), src.start)

	o := p.Observe()
	defer o.Close()
	eventually(t, func() bool { return p.State() == StateFailed })

	src.mu.Lock()
	src.failErr = nil
	src.mu.Unlock()

	o2 := p.Observe()
	defer o2.Close()
	src.feed(t, 0) <- store.Result[int]{Value: 9}
	receiveValue(t, o2, 9)
}

func TestProjectionSourceEndingIsAFault(t *testing.T) {
	src := &fakeSource{}
	p := newProjection("test", 0, time.Second, quietLogger(), src.start)

	o := p.Observe()
	defer o.Close()
	close(src.feed(t, 0))

	eventually(t, func() bool { return p.State() == StateFailed })
	if !errors.Is(p.Err(), ErrSourceClosed) {
		t.Fatalf("expected ErrSourceClosed, got %v", p.Err())
	}
}

func TestProjectionShutdownClosesObservers(t *testing.T) {
	src := &fakeSource{}
	p := newProjection("test", 0, time.Second, quietLogger(), src.start)

	o := p.Observe()
	receive(t, o)
	p.shutdown()

	if _, ok := <-o.C(); ok {
		t.Fatalf("observer channel should be closed on shutdown")
	}
	o.Close()

	late := p.Observe()
	s, ok := <-late.C()
	if !ok || !errors.Is(s.Err, ErrClosed) {
		t.Fatalf("observing a closed projection should report ErrClosed, got %+v", s)
	}
	if _, ok := <-late.C(); ok {
		t.Fatalf("late observer channel should be closed")
	}
	late.Close()
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateUnsubscribed: "unsubscribed",
		StateSubscribing:  "subscribing",
		StateActive:       "active",
		StateFailed:       "failed",
		State(42):         "State(42)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
