package options

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/moodlog/pkg/mood"
)

// MoodValue is a pflag.Value accepting anything mood.Catalog.Lookup does:
// "happy", "Happy 😊" or a level such as "5".
type MoodValue struct {
	Catalog *mood.Catalog
	Option  mood.Option
	set     bool
}

var _ pflag.Value = (*MoodValue)(nil)

func (m *MoodValue) catalog() *mood.Catalog {
	if m.Catalog == nil {
		return mood.Default()
	}
	return m.Catalog
}

func (m *MoodValue) String() string {
	if !m.set {
		return ""
	}
	return m.Option.DisplayName
}

func (m *MoodValue) Set(v string) error {
	o, err := m.catalog().Lookup(v)
	if err != nil {
		return err
	}
	m.Option = o
	m.set = true
	return nil
}

func (m *MoodValue) Type() string {
	return "mood"
}

// IsSet reports whether a mood was given.
func (m *MoodValue) IsSet() bool {
	return m.set
}

// EntryOptions carry the editable fields of an entry.
type EntryOptions struct {
	Mood  MoodValue
	Level int
	Notes string
}

func AddMoodArg(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().Var(&o.Mood, "mood", "Mood: "+strings.Join(o.Mood.catalog().Words(), ", ")+" or a level 1-5.")
	_ = cmd.RegisterFlagCompletionFunc("mood", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return o.Mood.catalog().Words(), cobra.ShellCompDirectiveNoFileComp
	})
}

func AddLevelArg(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().IntVar(&o.Level, "level", 0,
		"Override the mood level (defaults to the catalog level).")
}

func AddNotesArg(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().StringVarP(&o.Notes, "notes", "n", "",
		"Free-form notes, markdown allowed.")
}
