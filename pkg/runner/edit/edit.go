package edit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/printers"
)

// ErrNotFound is returned when the entry to edit does not exist.
var ErrNotFound = errors.New("entry not found")

type Edit struct {
	Service *app.Service
	ID      int64

	// Mood replaces the mood and level when set.
	Mood *mood.Option
	// Level overrides the level when non-zero.
	Level int
	// Notes replaces the notes when non-nil.
	Notes *string

	JSON bool
	Out  io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not edit, no service")
	}
	current, err := n.Service.EntryByID(ctx, n.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: %d", ErrNotFound, n.ID)
	}

	updated := current.Clone()
	if n.Mood != nil {
		updated.Mood = n.Mood.DisplayName
		updated.MoodLevel = n.Mood.Level
	}
	if n.Level != 0 {
		updated.MoodLevel = n.Level
	}
	if n.Notes != nil {
		updated.Notes = *n.Notes
	}
	if updated.Equal(current) {
		return n.print(current)
	}
	if err := n.Service.Update(ctx, updated); err != nil {
		return err
	}
	return n.print(updated)
}

func (n *Edit) print(e *entry.Entry) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.JSON {
		return options.PrintJSON(out, e)
	}
	pp := printers.PrettyPrint{Out: out, Catalog: n.Service.Catalog()}
	pp.Detail(e)
	return nil
}
