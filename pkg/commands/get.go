package commands

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	ho := &options.HistoryOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "get",
		Aliases: []string{"history", "ls"},
		Short:   "Show the mood history, newest first",
		Example: `
moodlog get
moodlog get --since 3d -k
moodlog get --watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			since, err := ho.Cutoff(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			g := get.Get{
				Service: svc,
				ShowID:  io.ShowID,
				JSON:    oo.JSON,
				Since:   since,
				Watch:   ho.Watch,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(g.Do(ctx))
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddHistoryArgs(cmd, ho)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
