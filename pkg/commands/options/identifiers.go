package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	ID     int64
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each entry.")
}

// ParseID reads the entry id from the first positional argument.
func (o *IDOptions) ParseID(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one entry id, got %d arguments", len(args))
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid entry id %q", args[0])
	}
	o.ID = id
	return nil
}
