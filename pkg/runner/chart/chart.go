package chart

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/mood/viewmodel"
	"tableflip.dev/moodlog/pkg/printers"
)

type Chart struct {
	Service *app.Service
	JSON    bool
	// Now anchors the weekly trend; zero means time.Now.
	Now time.Time
	Out io.Writer
}

// Report is the JSON form of both charts.
type Report struct {
	Distribution []viewmodel.Bar        `json:"distribution"`
	Trend        []viewmodel.TrendPoint `json:"trend"`
}

func (n *Chart) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not chart, no service")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	now := n.Now
	if now.IsZero() {
		now = time.Now()
	}

	dist, err := n.Service.Distribution(ctx)
	if err != nil {
		return err
	}
	history, err := n.Service.History(ctx)
	if err != nil {
		return err
	}
	r := Report{
		Distribution: viewmodel.Bars(dist, n.Service.Catalog()),
		Trend:        viewmodel.WeeklyTrend(history, now),
	}
	if n.JSON {
		return options.PrintJSON(out, r)
	}
	pp := printers.PrettyPrint{Out: out, Catalog: n.Service.Catalog()}
	pp.Distribution(r.Distribution)
	pp.Trend(r.Trend)
	return nil
}
