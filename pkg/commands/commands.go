package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/store"
)

var (
	logLevel = "warn"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "moodlog",
		Short: base.Wrap80("Log how you feel and watch the trend."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn or error.")

	AddCommands(cmd)
	return cmd
}

// Execute runs the moodlog command tree and closes the service and store
// afterwards, also when a command fails.
func Execute() error {
	return execute(New())
}

func execute(root *cobra.Command) error {
	defer closeService()
	return root.Execute()
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addGet(topLevel)
	addShow(topLevel)
	addEdit(topLevel)
	addDelete(topLevel)
	addChart(topLevel)
	addMoods(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// setupLogging installs a text logger on stderr so stdout stays clean for
// tables and JSON.
func setupLogging(level string) error {
	l, err := parseLevel(level)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return nil
}

var service *app.Service

// loadService opens the configured database and wraps it in a Service.
func loadService() (*app.Service, error) {
	if service != nil {
		return service, nil
	}
	p, err := store.Default()
	if err != nil {
		return nil, err
	}
	service = app.New(p, app.WithLogger(slog.Default()))
	return service, nil
}

func closeService() {
	if service != nil {
		if err := service.Close(); err != nil {
			slog.Warn("closing service", "err", err)
		}
		service = nil
	}
	if err := store.CloseDefault(); err != nil {
		slog.Warn("closing store", "err", err)
	}
}
