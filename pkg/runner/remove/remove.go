package remove

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/commands/options"
)

type Remove struct {
	Service *app.Service
	ID      int64
	JSON    bool
	Out     io.Writer
}

// Do deletes the entry. Deleting an id that does not exist succeeds and
// reports that nothing was removed.
func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	e, err := n.Service.EntryByID(ctx, n.ID)
	if err != nil {
		return err
	}
	if e != nil {
		if err := n.Service.Delete(ctx, e); err != nil {
			return err
		}
	}

	if n.JSON {
		return options.PrintJSON(out, map[string]any{"id": n.ID, "deleted": e != nil})
	}
	if e == nil {
		_, _ = color.New(color.Faint, color.Italic).Fprintf(out, "Entry %d not found, nothing deleted\n", n.ID)
		return nil
	}
	_, _ = fmt.Fprintf(out, "Deleted %d: %s\n", e.ID, e)
	return nil
}
