package show

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/printers"
)

type Show struct {
	Service *app.Service
	ID      int64
	JSON    bool
	Width   int
	Out     io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show, no service")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	e, err := n.Service.EntryByID(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.JSON {
		if e == nil {
			return options.PrintJSON(out, map[string]any{"id": n.ID, "found": false})
		}
		return options.PrintJSON(out, e)
	}
	pp := printers.PrettyPrint{Out: out, Width: n.Width, Catalog: n.Service.Catalog()}
	pp.Detail(e)
	return nil
}
