package moods

import (
	"context"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/printers"
)

type Moods struct {
	Catalog *mood.Catalog
	JSON    bool
	Out     io.Writer
}

func (n *Moods) Do(_ context.Context) error {
	c := n.Catalog
	if c == nil {
		c = mood.Default()
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.JSON {
		return options.PrintJSON(out, c.Options())
	}
	pp := printers.PrettyPrint{Out: out, Catalog: c}
	pp.Moods(c.Options())
	return nil
}
