package teaui

import (
	"fmt"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
)

// mood item for the selector pane
type moodItem struct{ opt mood.Option }

func (it moodItem) Title() string       { return fmt.Sprintf("%s  %d", it.opt.DisplayName, it.opt.Level) }
func (it moodItem) Description() string { return "" }
func (it moodItem) FilterValue() string { return it.opt.Word() }

// entry item for the history pane
type entryItem struct{ e *entry.Entry }

func (it entryItem) Title() string {
	return fmt.Sprintf("%s  %s", it.e.Timestamp.Local().Format(entry.LayoutDisplay), it.e.Mood)
}
func (it entryItem) Description() string { return it.e.Notes }
func (it entryItem) FilterValue() string { return it.e.Mood + " " + it.e.Notes }
