// Package mcp provides the Model Context Protocol server integration for moodlog.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/mood/viewmodel"
	"tableflip.dev/moodlog/pkg/timeutil"
)

// Service adapts the coordinator to the shapes the MCP tools return.
type Service struct {
	App *app.Service
	Now func() time.Time
}

// LogMoodOptions captures the parameters used to log a mood.
type LogMoodOptions struct {
	Mood  string
	Level int
	Notes string
}

// UpdateEntryOptions lists the fields to change; nil leaves a field as is.
type UpdateEntryOptions struct {
	ID    string
	Mood  *string
	Level *int
	Notes *string
}

// EntryDTO is a transport-friendly projection of an entry.
type EntryDTO struct {
	ID            int64  `json:"id"`
	Mood          string `json:"mood"`
	MoodLevel     int    `json:"moodLevel"`
	Notes         string `json:"notes,omitempty"`
	Color         string `json:"color"`
	InCatalog     bool   `json:"inCatalog"`
	TimestampISO  string `json:"timestamp"`
	TimestampUnix int64  `json:"timestampUnixMs"`
}

// NewService builds a service wrapper around the coordinator.
func NewService(a *app.Service) *Service {
	return &Service{App: a, Now: time.Now}
}

func (s *Service) ready() error {
	if s == nil || s.App == nil {
		return errors.New("service is not configured")
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) toDTO(e *entry.Entry) *EntryDTO {
	_, known := s.App.FindMood(e.Mood)
	return &EntryDTO{
		ID:            e.ID,
		Mood:          e.Mood,
		MoodLevel:     e.MoodLevel,
		Notes:         e.Notes,
		Color:         s.App.Catalog().ColorFor(e.Mood),
		InCatalog:     known,
		TimestampISO:  entry.FormatTime(e.Timestamp.Time),
		TimestampUnix: e.Timestamp.Millis(),
	}
}

// ParseID converts a tool or resource argument into an entry id.
func ParseID(v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", v)
	}
	return id, nil
}

// LogMood records a new entry. The mood may be a display name, a word such
// as "calm" or a level; Level overrides the catalog level when non-zero.
func (s *Service) LogMood(ctx context.Context, opts LogMoodOptions) (*EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	opt, err := s.App.Catalog().Lookup(opts.Mood)
	if err != nil {
		return nil, err
	}
	level := opt.Level
	if opts.Level != 0 {
		level = opts.Level
	}
	e, err := s.App.Add(ctx, opt.DisplayName, level, strings.TrimSpace(opts.Notes))
	if err != nil {
		return nil, err
	}
	return s.toDTO(e), nil
}

// ListMoods returns entries newest first, optionally limited to a window
// such as "3d" and to a maximum count.
func (s *Service) ListMoods(ctx context.Context, since string, limit int) ([]*EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	all, err := s.App.History(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(since) != "" {
		cutoff, _, err := timeutil.Cutoff(s.now(), since)
		if err != nil {
			return nil, err
		}
		all = entry.Since(all, cutoff)
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]*EntryDTO, 0, len(all))
	for _, e := range all {
		out = append(out, s.toDTO(e))
	}
	return out, nil
}

// EntryByID fetches a single entry. An unknown id is not an error: the
// result is nil.
func (s *Service) EntryByID(ctx context.Context, id string) (*EntryDTO, error) {
	e, err := s.lookup(ctx, id)
	if err != nil || e == nil {
		return nil, err
	}
	return s.toDTO(e), nil
}

func (s *Service) lookup(ctx context.Context, id string) (*entry.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	n, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.App.EntryByID(ctx, n)
}

// UpdateEntry changes mood, level or notes and keeps the timestamp. Updating
// an id that no longer exists does nothing and returns nil.
func (s *Service) UpdateEntry(ctx context.Context, opts UpdateEntryOptions) (*EntryDTO, error) {
	current, err := s.lookup(ctx, opts.ID)
	if err != nil || current == nil {
		return nil, err
	}
	updated := current.Clone()
	if opts.Mood != nil {
		opt, err := s.App.Catalog().Lookup(*opts.Mood)
		if err != nil {
			return nil, err
		}
		updated.Mood = opt.DisplayName
		updated.MoodLevel = opt.Level
	}
	if opts.Level != nil {
		updated.MoodLevel = *opts.Level
	}
	if opts.Notes != nil {
		updated.Notes = strings.TrimSpace(*opts.Notes)
	}
	if err := s.App.Update(ctx, updated); err != nil {
		return nil, err
	}
	return s.toDTO(updated), nil
}

// DeleteEntry removes an entry. Unknown ids report false without error.
func (s *Service) DeleteEntry(ctx context.Context, id string) (bool, error) {
	e, err := s.lookup(ctx, id)
	if err != nil || e == nil {
		return false, err
	}
	if err := s.App.Delete(ctx, e); err != nil {
		return false, err
	}
	return true, nil
}

// Distribution returns per-mood counts as chart bars in catalog order.
func (s *Service) Distribution(ctx context.Context) ([]viewmodel.Bar, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	dist, err := s.App.Distribution(ctx)
	if err != nil {
		return nil, err
	}
	return viewmodel.Bars(dist, s.App.Catalog()), nil
}

// WeeklyTrend returns the average level per day for the last seven days.
func (s *Service) WeeklyTrend(ctx context.Context) ([]viewmodel.TrendPoint, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	all, err := s.App.History(ctx)
	if err != nil {
		return nil, err
	}
	return viewmodel.WeeklyTrend(all, s.now()), nil
}

// Catalog lists the moods that can be logged.
func (s *Service) Catalog() []mood.Option {
	if s == nil || s.App == nil {
		return mood.Default().Options()
	}
	return s.App.AvailableMoods()
}
