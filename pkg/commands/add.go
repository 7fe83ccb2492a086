package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}
	i := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "add [mood]",
		Aliases: []string{"log"},
		Short:   "Log a mood",
		Example: `
moodlog add happy
moodlog add sad --notes "rough day"
moodlog add 4
moodlog add -i
`,
		ValidArgs: mood.Default().Words(),
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := eo.Mood.Set(args[0]); err != nil {
					return oo.HandleError(err)
				}
			}
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			a := add.Add{
				Service:     svc,
				Mood:        eo.Mood.Option,
				HasMood:     eo.Mood.IsSet(),
				Level:       eo.Level,
				Notes:       eo.Notes,
				Interactive: i.Interactive,
				JSON:        oo.JSON,
				In:          cmd.InOrStdin(),
				Out:         cmd.OutOrStdout(),
			}
			return oo.HandleError(a.Do(context.Background()))
		},
	}

	options.AddMoodArg(cmd, eo)
	options.AddLevelArg(cmd, eo)
	options.AddNotesArg(cmd, eo)
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
