package add

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/printers"
)

type Add struct {
	Service *app.Service

	Mood        mood.Option
	HasMood     bool
	Level       int
	Notes       string
	Interactive bool
	JSON        bool

	In  io.Reader
	Out io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	if n.Interactive {
		if err := n.prompt(); err != nil {
			return err
		}
	}
	if !n.HasMood {
		return fmt.Errorf("a mood is required (one of %s)", strings.Join(n.Service.Catalog().Words(), ", "))
	}
	level := n.Level
	if level == 0 {
		level = n.Mood.Level
	}

	e, err := n.Service.Add(ctx, n.Mood.DisplayName, level, n.Notes)
	if err != nil {
		return err
	}
	if n.JSON {
		return options.PrintJSON(n.out(), e)
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.out(), Catalog: n.Service.Catalog()}
	pp.Title("Logged")
	pp.History(e)
	return nil
}

func (n *Add) out() io.Writer {
	if n.Out == nil {
		return color.Output
	}
	return n.Out
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// streams adapts In and Out for promptui; nil keeps its stdin and stdout.
func (n *Add) streams() (io.ReadCloser, io.WriteCloser) {
	var in io.ReadCloser
	var out io.WriteCloser
	if n.In != nil {
		in = io.NopCloser(n.In)
	}
	if n.Out != nil {
		out = nopWriteCloser{n.Out}
	}
	return in, out
}

func (n *Add) prompt() error {
	moods := n.Service.AvailableMoods()
	stdin, stdout := n.streams()
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .DisplayName | bold }} {{ .Level | green }}",
		Inactive: "   {{ .DisplayName }} {{ .Level | cyan }}",
		Selected: "{{ .DisplayName | bold }}",
	}
	searcher := func(input string, index int) bool {
		name := strings.ToLower(moods[index].Word())
		return strings.Contains(name, strings.ToLower(strings.TrimSpace(input)))
	}
	sel := promptui.Select{
		HideHelp:  true,
		Label:     "How are you feeling",
		Items:     moods,
		Templates: templates,
		Size:      len(moods),
		Searcher:  searcher,
		Stdin:     stdin,
		Stdout:    stdout,
	}
	i, _, err := sel.Run()
	if err != nil {
		return fmt.Errorf("mood prompt: %w", err)
	}
	n.Mood = moods[i]
	n.HasMood = true

	if n.Notes != "" {
		return nil
	}
	notes := promptui.Prompt{
		Label:  "Notes",
		Stdin:  stdin,
		Stdout: stdout,
	}
	text, err := notes.Run()
	if err != nil {
		return fmt.Errorf("notes prompt: %w", err)
	}
	n.Notes = strings.TrimSpace(text)
	return nil
}
