package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tableflip.dev/moodlog/pkg/store"
)

// State is the lifecycle of a projection's store subscription.
type State int

const (
	// StateUnsubscribed means no store query is running.
	StateUnsubscribed State = iota
	// StateSubscribing means the store query was started and has not
	// delivered its first snapshot yet.
	StateSubscribing
	// StateActive means snapshots are flowing.
	StateActive
	// StateFailed means the store query reported a fault and stopped. The
	// next Observe or Retry starts it again.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnsubscribed:
		return "unsubscribed"
	case StateSubscribing:
		return "subscribing"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrSourceClosed is reported when the store stops a live query on its own,
// for example because the database was closed.
var ErrSourceClosed = errors.New("app: live query ended")

// Snapshot is what observers receive. Err is set once, when the underlying
// query fails; Value then holds the last good value.
type Snapshot[T any] struct {
	Value T
	Err   error
}

// Source starts a live store query that runs until ctx is done.
type Source[T any] func(ctx context.Context) (<-chan store.Result[T], error)

// Projection is a hot, always-current view over a live store query.
//
// The query runs only while someone observes the projection. When the last
// observer leaves, the query keeps running for the grace period so a view
// that is torn down and rebuilt keeps its subscription; after that it is
// cancelled and restarted by the next observer. The latest value is kept
// across restarts, and before the first snapshot arrives Value returns the
// initial value given at construction.
type Projection[T any] struct {
	name   string
	source Source[T]
	grace  time.Duration
	log    *slog.Logger

	mu        sync.Mutex
	state     State
	value     T
	err       error
	observers map[*Observer[T]]struct{}
	cancel    context.CancelFunc
	gen       uint64
	idle      *time.Timer
	idleGen   uint64
	starts    int
	closed    bool
}

func newProjection[T any](name string, initial T, grace time.Duration, log *slog.Logger, source Source[T]) *Projection[T] {
	return &Projection[T]{
		name:      name,
		source:    source,
		grace:     grace,
		log:       log.With("projection", name),
		value:     initial,
		observers: make(map[*Observer[T]]struct{}),
	}
}

// Name identifies the projection in logs.
func (p *Projection[T]) Name() string {
	return p.name
}

// Value returns the latest snapshot without blocking.
func (p *Projection[T]) Value() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Err returns the fault that stopped the projection, if any.
func (p *Projection[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// State reports the subscription state.
func (p *Projection[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Observers is the number of attached observers.
func (p *Projection[T]) Observers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.observers)
}

// Starts counts how many times the store query has been started.
func (p *Projection[T]) Starts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.starts
}

// Observe attaches an observer. It immediately receives the current value
// and afterwards every new snapshot. Slow observers only see the latest.
func (p *Projection[T]) Observe() *Observer[T] {
	o := &Observer[T]{p: p, ch: make(chan Snapshot[T], 1)}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		o.push(Snapshot[T]{Value: p.value, Err: ErrClosed})
		close(o.ch)
		o.once.Do(func() {})
		return o
	}
	p.stopIdleLocked()
	p.observers[o] = struct{}{}
	o.push(Snapshot[T]{Value: p.value})
	if p.state == StateUnsubscribed || p.state == StateFailed {
		p.startLocked()
	}
	return o
}

// Retry restarts a failed projection that still has observers.
func (p *Projection[T]) Retry() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.state != StateFailed || len(p.observers) == 0 {
		return
	}
	p.startLocked()
}

func (p *Projection[T]) startLocked() {
	p.gen++
	gen := p.gen
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.state = StateSubscribing
	p.err = nil
	p.starts++
	p.log.Debug("subscribing to store", "starts", p.starts)
	go p.run(ctx, gen)
}

func (p *Projection[T]) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	if p.state != StateFailed {
		p.state = StateUnsubscribed
	}
}

func (p *Projection[T]) stopIdleLocked() {
	p.idleGen++
	if p.idle != nil {
		p.idle.Stop()
		p.idle = nil
	}
}

func (p *Projection[T]) run(ctx context.Context, gen uint64) {
	results, err := p.source(ctx)
	if err != nil {
		p.fail(gen, err)
		return
	}
	for r := range results {
		if r.Err != nil {
			p.fail(gen, r.Err)
			return
		}
		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return
		}
		p.value = r.Value
		p.state = StateActive
		p.broadcastLocked(Snapshot[T]{Value: r.Value})
		p.mu.Unlock()
	}
	if ctx.Err() == nil {
		p.fail(gen, ErrSourceClosed)
	}
}

func (p *Projection[T]) fail(gen uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.err = err
	p.state = StateFailed
	p.log.Error("live query failed", "err", err)
	p.broadcastLocked(Snapshot[T]{Value: p.value, Err: err})
}

func (p *Projection[T]) broadcastLocked(s Snapshot[T]) {
	for o := range p.observers {
		o.push(s)
	}
}

func (p *Projection[T]) detach(o *Observer[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.observers[o]; !ok {
		return
	}
	delete(p.observers, o)
	close(o.ch)
	if len(p.observers) > 0 || p.closed {
		return
	}
	if p.state != StateSubscribing && p.state != StateActive {
		return
	}
	p.stopIdleLocked()
	idleGen := p.idleGen
	p.idle = time.AfterFunc(p.grace, func() { p.expire(idleGen) })
}

func (p *Projection[T]) expire(idleGen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idleGen != p.idleGen || len(p.observers) > 0 {
		return
	}
	p.idle = nil
	p.log.Debug("grace period elapsed, releasing store query")
	p.stopLocked()
}

// shutdown stops the query and detaches every observer.
func (p *Projection[T]) shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.stopIdleLocked()
	p.stopLocked()
	for o := range p.observers {
		delete(p.observers, o)
		close(o.ch)
	}
}

// Observer receives snapshots from a projection until closed.
type Observer[T any] struct {
	p    *Projection[T]
	ch   chan Snapshot[T]
	once sync.Once
}

// C delivers snapshots. It is closed by Close or when the service shuts down.
func (o *Observer[T]) C() <-chan Snapshot[T] {
	return o.ch
}

// Close detaches the observer. Safe to call more than once.
func (o *Observer[T]) Close() {
	o.once.Do(func() { o.p.detach(o) })
}

// push replaces any unread snapshot with s. Callers hold p.mu, which makes
// this the only writer, so the send cannot block.
func (o *Observer[T]) push(s Snapshot[T]) {
	select {
	case <-o.ch:
	default:
	}
	o.ch <- s
}
