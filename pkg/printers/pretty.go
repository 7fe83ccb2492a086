package printers

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
)

const (
	defaultWidth = 80
	notesWidth   = 40
)

type PrettyPrint struct {
	ShowID  bool
	Out     io.Writer
	Width   int
	Catalog *mood.Catalog
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return defaultWidth
	}
	return pp.Width
}

func (pp *PrettyPrint) catalog() *mood.Catalog {
	if pp.Catalog == nil {
		return mood.Default()
	}
	return pp.Catalog
}

// tty reports whether output goes to a terminal that can take color.
func (pp *PrettyPrint) tty() bool {
	if color.NoColor {
		return false
	}
	if pp.Out == nil {
		return true
	}
	f, ok := pp.Out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (pp *PrettyPrint) termenv() *termenv.Output {
	profile := termenv.Ascii
	if pp.tty() {
		profile = termenv.EnvColorProfile()
	}
	return termenv.NewOutput(pp.out(), termenv.WithProfile(profile))
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// History prints entries as a table, newest first as given.
func (pp *PrettyPrint) History(entries ...*entry.Entry) {
	if len(entries) == 0 {
		pp.none()
		return
	}

	out := pp.termenv()
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, e := range entries {
		id, when, label, level, notes := e.Row()
		notes = truncate.StringWithTail(strings.ReplaceAll(notes, "\n", " "), notesWidth, "…")
		label = out.String(label).Foreground(out.Color(pp.catalog().ColorFor(e.Mood))).String()
		if pp.ShowID {
			tbl.AddRow(color.New(color.FgHiYellow, color.Faint).Sprint(id), when, label, level, notes)
		} else {
			tbl.AddRow(when, label, level, notes)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Detail prints a single entry with its notes rendered as markdown.
func (pp *PrettyPrint) Detail(e *entry.Entry) {
	if e == nil {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.out(), "Entry not found")
		return
	}
	out := pp.termenv()
	label := out.String(e.Mood).Bold().Foreground(out.Color(pp.catalog().ColorFor(e.Mood))).String()

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(color.New(color.Faint).Sprint("ID"), strconv.FormatInt(e.ID, 10))
	tbl.AddRow(color.New(color.Faint).Sprint("Mood"), label)
	tbl.AddRow(color.New(color.Faint).Sprint("Level"), strconv.Itoa(e.MoodLevel))
	tbl.AddRow(color.New(color.Faint).Sprint("Logged"), e.Timestamp.Local().Format(entry.LayoutDisplay))
	_, _ = fmt.Fprintln(pp.out(), tbl)

	notes := strings.TrimSpace(e.Notes)
	if notes == "" {
		pp.NewLine()
		pp.none()
		return
	}
	_, _ = fmt.Fprint(pp.out(), pp.markdown(notes))
}

func (pp *PrettyPrint) markdown(md string) string {
	style := "notty"
	if pp.tty() {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(pp.width()),
	)
	if err != nil {
		return md + "\n"
	}
	rendered, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return rendered
}

// Moods prints the catalog with levels and colors.
func (pp *PrettyPrint) Moods(options []mood.Option) {
	out := pp.termenv()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(color.New(color.Bold).Sprint("Mood"), color.New(color.Bold).Sprint("Level"), color.New(color.Bold).Sprint("Color"))
	for _, o := range options {
		swatch := out.String("■").Foreground(out.Color(o.Color)).String()
		tbl.AddRow(o.DisplayName, strconv.Itoa(o.Level), swatch+" "+o.Color)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
