package store

import (
	"context"

	"tableflip.dev/moodlog/pkg/entry"
)

// Result is one snapshot delivered by a live query.
type Result[T any] struct {
	Value T
	Err   error
}

// Entries is a live form of ListAll.
func Entries(ctx context.Context, p Persistence) (<-chan Result[[]*entry.Entry], error) {
	return Live(ctx, p, p.ListAll)
}

// Distributions is a live form of Distribution.
func Distributions(ctx context.Context, p Persistence) (<-chan Result[[]entry.Distribution], error) {
	return Live(ctx, p, p.Distribution)
}

// Live runs query immediately and again after every change reported by
// p.Watch, sending each result on the returned channel. The change feed is
// subscribed before the first query, so no committed write is missed.
// Bursts of changes collapse into one query that reads the latest state.
//
// A failed query is delivered as a Result carrying Err, after which the
// channel is closed. The channel is also closed once ctx is done.
func Live[T any](ctx context.Context, p Persistence, query func(context.Context) (T, error)) (<-chan Result[T], error) {
	ctx, cancel := context.WithCancel(ctx)
	events, err := p.Watch(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		defer cancel()

		emit := func() bool {
			v, err := query(ctx)
			if ctx.Err() != nil {
				return false
			}
			select {
			case out <- Result[T]{Value: v, Err: err}:
			case <-ctx.Done():
				return false
			}
			return err == nil
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				if !drain(events) {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()
	return out, nil
}

// drain discards queued events; one reload covers all of them. It reports
// false when the feed has been closed.
func drain(events <-chan Event) bool {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}
