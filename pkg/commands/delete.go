package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "delete <entry id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Example: `
moodlog delete 12
`,
		Args: func(_ *cobra.Command, args []string) error {
			return io.ParseID(args)
		},
		ValidArgsFunction: entryCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			r := remove.Remove{
				Service: svc,
				ID:      io.ID,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
