package app

import (
	"context"
	"fmt"

	"tableflip.dev/moodlog/pkg/entry"
)

// Op names a fire-and-forget command.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

const failureBuffer = 16

// CommandError reports a fire-and-forget command that did not apply.
type CommandError struct {
	Op    Op
	Entry *entry.Entry
	Err   error
}

func (e CommandError) Error() string {
	if e.Entry != nil && e.Entry.ID != 0 {
		return fmt.Sprintf("%s mood entry %d: %v", e.Op, e.Entry.ID, e.Err)
	}
	return fmt.Sprintf("%s mood entry: %v", e.Op, e.Err)
}

func (e CommandError) Unwrap() error {
	return e.Err
}

type command struct {
	op    Op
	entry *entry.Entry
}

// AddMoodEntry queues a new entry stamped with the current time and returns
// at once. Success shows up in the projections, failure on Failures.
func (s *Service) AddMoodEntry(moodName string, level int, notes string) {
	s.enqueue(command{op: OpAdd, entry: s.newEntry(moodName, level, notes)})
}

// UpdateMoodEntry queues a full replace of the record with e.ID.
func (s *Service) UpdateMoodEntry(e *entry.Entry) {
	s.enqueue(command{op: OpUpdate, entry: e.Clone()})
}

// DeleteMoodEntry queues removal of the record with e.ID.
func (s *Service) DeleteMoodEntry(e *entry.Entry) {
	s.enqueue(command{op: OpDelete, entry: e.Clone()})
}

// Failures delivers command failures. Only the most recent failures are
// buffered when nobody is reading; every failure is also logged.
func (s *Service) Failures() <-chan CommandError {
	return s.failures
}

// enqueue blocks only while the queue is full.
func (s *Service) enqueue(cmd command) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.fail(cmd, ErrClosed)
		return
	}
	s.queue <- cmd
}

func (s *Service) apply(cmd command) {
	ctx := context.Background()
	var err error
	switch cmd.op {
	case OpAdd:
		err = s.insert(ctx, cmd.entry)
	case OpUpdate:
		err = s.Update(ctx, cmd.entry)
	case OpDelete:
		err = s.Delete(ctx, cmd.entry)
	default:
		err = fmt.Errorf("app: unknown command %q", cmd.op)
	}
	if err != nil {
		s.fail(cmd, err)
		return
	}
	s.log.Debug("command applied", "op", cmd.op, "id", cmd.entry.ID)
}

func (s *Service) fail(cmd command, err error) {
	ce := CommandError{Op: cmd.op, Entry: cmd.entry, Err: err}
	s.log.Error("mood command failed", "op", cmd.op, "err", err)
	for {
		select {
		case s.failures <- ce:
			return
		default:
		}
		// Make room by dropping the oldest unread failure.
		select {
		case <-s.failures:
		default:
		}
	}
}
