package get

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/printers"
)

type Get struct {
	Service *app.Service

	ShowID bool
	JSON   bool
	// Since drops entries older than this instant when set.
	Since time.Time
	// Watch keeps printing every new history snapshot until ctx is done.
	Watch bool

	Out io.Writer
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}
	if !n.Watch {
		all, err := n.Service.History(ctx)
		if err != nil {
			return err
		}
		return n.print(all)
	}

	o := n.Service.MoodHistory().Observe()
	defer o.Close()
	// The first snapshot may be the placeholder from before the query ran.
	first := true
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-o.C():
			if !ok {
				return nil
			}
			if s.Err != nil {
				return s.Err
			}
			if first && n.Service.MoodHistory().State() != app.StateActive {
				first = false
				continue
			}
			first = false
			if err := n.print(s.Value); err != nil {
				return err
			}
		}
	}
}

func (n *Get) print(all []*entry.Entry) error {
	if !n.Since.IsZero() {
		all = entry.Since(all, n.Since)
	}
	if n.JSON {
		return options.PrintJSON(n.out(), all)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.out(), Catalog: n.Service.Catalog()}
	pp.TitleWithCount("Mood history", len(all))
	pp.History(all...)
	return nil
}

func (n *Get) out() io.Writer {
	if n.Out == nil {
		return color.Output
	}
	return n.Out
}
