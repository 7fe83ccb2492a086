// Package app coordinates the mood store and the presentation layers.
//
// Service keeps live projections of the history and the mood distribution,
// turns user intents into store calls, and outlives any single screen.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store"
)

const (
	// DefaultGracePeriod is how long a projection keeps its store query
	// after the last observer leaves.
	DefaultGracePeriod = 5 * time.Second
	// DefaultQueueSize bounds pending fire-and-forget commands.
	DefaultQueueSize = 64
)

var (
	// ErrNoPersistence is returned when the service has no store.
	ErrNoPersistence = errors.New("app: no persistence configured")
	// ErrClosed is returned for work issued after Close.
	ErrClosed = errors.New("app: service closed")
	// ErrEmptyMood rejects entries without a mood label.
	ErrEmptyMood = errors.New("app: mood is required")
)

// Option customises New.
type Option func(*Service)

// WithCatalog replaces the default mood catalog.
func WithCatalog(c *mood.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithGracePeriod sets how long idle projections keep their subscription.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.grace = d
		}
	}
}

// WithLogger sets the logger used for command failures and projection
// lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithQueueSize sets the capacity of the command queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// Service is the view-state coordinator. Its projections and commands may be
// used from any number of goroutines; it keeps no data of its own beyond the
// projections' latest snapshots.
type Service struct {
	persistence store.Persistence
	catalog     *mood.Catalog

	log       *slog.Logger
	grace     time.Duration
	queueSize int
	now       func() time.Time

	history      *Projection[[]*entry.Entry]
	distribution *Projection[[]entry.Distribution]

	mu       sync.RWMutex
	closed   bool
	queue    chan command
	group    errgroup.Group
	failures chan CommandError
}

// New builds a Service over p and starts its command worker. Callers must
// Close it to flush pending commands.
func New(p store.Persistence, opts ...Option) *Service {
	s := &Service{
		persistence: p,
		catalog:     mood.Default(),
		log:         slog.Default(),
		grace:       DefaultGracePeriod,
		queueSize:   DefaultQueueSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "app")

	s.history = newProjection("moodHistory", []*entry.Entry{}, s.grace, s.log,
		func(ctx context.Context) (<-chan store.Result[[]*entry.Entry], error) {
			if s.persistence == nil {
				return nil, ErrNoPersistence
			}
			return store.Entries(ctx, s.persistence)
		})
	s.distribution = newProjection("moodDistribution", []entry.Distribution{}, s.grace, s.log,
		func(ctx context.Context) (<-chan store.Result[[]entry.Distribution], error) {
			if s.persistence == nil {
				return nil, ErrNoPersistence
			}
			return store.Distributions(ctx, s.persistence)
		})

	s.queue = make(chan command, s.queueSize)
	s.failures = make(chan CommandError, failureBuffer)
	s.group.Go(func() error {
		for cmd := range s.queue {
			s.apply(cmd)
		}
		return nil
	})
	return s
}

// MoodHistory is every entry, newest first.
func (s *Service) MoodHistory() *Projection[[]*entry.Entry] {
	return s.history
}

// MoodDistribution is the entry count per mood.
func (s *Service) MoodDistribution() *Projection[[]entry.Distribution] {
	return s.distribution
}

// Catalog returns the mood catalog offered to users.
func (s *Service) Catalog() *mood.Catalog {
	return s.catalog
}

// AvailableMoods lists the selectable moods in display order.
func (s *Service) AvailableMoods() []mood.Option {
	return s.catalog.Options()
}

// FindMood looks a stored mood label up in the catalog.
func (s *Service) FindMood(name string) (mood.Option, bool) {
	return s.catalog.FindByDisplayName(name)
}

// Add records a new entry stamped with the current time and waits for the
// store to commit it. A blank mood is rejected before anything is stored;
// updates pass the record through as is.
func (s *Service) Add(ctx context.Context, moodName string, level int, notes string) (*entry.Entry, error) {
	e := s.newEntry(moodName, level, notes)
	if err := s.insert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) newEntry(moodName string, level int, notes string) *entry.Entry {
	return &entry.Entry{
		Mood:      strings.TrimSpace(moodName),
		MoodLevel: level,
		Notes:     notes,
		Timestamp: entry.FromMillis(s.now().UnixMilli()),
	}
}

// insert stores e with the timestamp it already carries.
func (s *Service) insert(ctx context.Context, e *entry.Entry) error {
	if s.persistence == nil {
		return ErrNoPersistence
	}
	if e.Mood == "" {
		return ErrEmptyMood
	}
	if err := s.persistence.Insert(ctx, e); err != nil {
		return fmt.Errorf("app: add mood entry: %w", err)
	}
	return nil
}

// Update replaces the stored record with the same id. Unknown ids are
// ignored.
func (s *Service) Update(ctx context.Context, e *entry.Entry) error {
	if s.persistence == nil {
		return ErrNoPersistence
	}
	if e == nil {
		return store.ErrNilEntry
	}
	if err := s.persistence.Update(ctx, e); err != nil {
		return fmt.Errorf("app: update mood entry: %w", err)
	}
	return nil
}

// Delete removes the stored record with the same id. Unknown ids are
// ignored.
func (s *Service) Delete(ctx context.Context, e *entry.Entry) error {
	if s.persistence == nil {
		return ErrNoPersistence
	}
	if e == nil {
		return nil
	}
	if err := s.persistence.Delete(ctx, e); err != nil {
		return fmt.Errorf("app: delete mood entry: %w", err)
	}
	return nil
}

// EntryByID waits for the store and returns the entry, or nil when there is
// no such id.
func (s *Service) EntryByID(ctx context.Context, id int64) (*entry.Entry, error) {
	if s.persistence == nil {
		return nil, ErrNoPersistence
	}
	e, err := s.persistence.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("app: get mood entry: %w", err)
	}
	return e, nil
}

// History reads the current history once.
func (s *Service) History(ctx context.Context) ([]*entry.Entry, error) {
	if s.persistence == nil {
		return nil, ErrNoPersistence
	}
	all, err := s.persistence.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: list mood entries: %w", err)
	}
	return all, nil
}

// Distribution reads the current mood distribution once.
func (s *Service) Distribution(ctx context.Context) ([]entry.Distribution, error) {
	if s.persistence == nil {
		return nil, ErrNoPersistence
	}
	dist, err := s.persistence.Distribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: mood distribution: %w", err)
	}
	return dist, nil
}

// Close stops accepting commands, waits for queued ones to finish and shuts
// the projections down. It does not close the persistence.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	err := s.group.Wait()
	s.history.shutdown()
	s.distribution.shutdown()
	return err
}
