package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	eo := &options.EntryOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "edit <entry id>",
		Short: "Change the mood or notes of an entry",
		Long:  "Change the mood or notes of an entry. The time it was logged is kept.",
		Example: `
moodlog edit 12 --notes "updated text"
moodlog edit 12 --mood calm
`,
		Args: func(_ *cobra.Command, args []string) error {
			return io.ParseID(args)
		},
		ValidArgsFunction: entryCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := edit.Edit{
				ID:    io.ID,
				Level: eo.Level,
				JSON:  oo.JSON,
				Out:   cmd.OutOrStdout(),
			}
			if eo.Mood.IsSet() {
				opt := eo.Mood.Option
				e.Mood = &opt
			}
			if cmd.Flags().Changed("notes") {
				notes := eo.Notes
				e.Notes = &notes
			}
			if e.Mood == nil && e.Notes == nil && e.Level == 0 {
				return oo.HandleError(errors.New("nothing to change, set --mood, --level or --notes"))
			}
			var err error
			if e.Service, err = loadService(); err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(e.Do(context.Background()))
		},
	}

	options.AddMoodArg(cmd, eo)
	options.AddLevelArg(cmd, eo)
	options.AddNotesArg(cmd, eo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

