package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/timeutil"
)

// HistoryOptions filter and follow the history.
type HistoryOptions struct {
	Since string
	Watch bool
}

func AddHistoryArgs(cmd *cobra.Command, o *HistoryOptions) {
	cmd.Flags().StringVar(&o.Since, "since", "",
		`Only show entries inside this window, for example "3d" or "1w".`)
	cmd.Flags().BoolVarP(&o.Watch, "watch", "w", false,
		"Keep running and reprint the history whenever it changes.")
}

// Cutoff returns the oldest time to show, or zero when --since is unset.
func (o *HistoryOptions) Cutoff(now time.Time) (time.Time, error) {
	if o.Since == "" {
		return time.Time{}, nil
	}
	then, _, err := timeutil.Cutoff(now, o.Since)
	return then, err
}
