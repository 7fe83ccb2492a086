package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport string
		addr      string
		path      string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "serve the mood log to assistants over the Model Context Protocol",
		Long: `Launch an MCP server that lets assistants log moods, read the history,
and summarize the distribution and weekly trend.`,
		Example: `
moodlog mcp
moodlog mcp --addr 127.0.0.1:0
moodlog mcp --transport stdio
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mcp.ParseTransport(transport)
			if err != nil {
				return err
			}
			svc, err := loadService()
			if err != nil {
				return err
			}
			r := mcp.Runner{
				Service:   svc,
				Version:   version,
				Transport: t,
				Addr:      addr,
				Path:      path,
				Out:       cmd.OutOrStdout(),
			}
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&addr, "addr", mcp.DefaultAddr, "listen address for the http transport (port 0 picks one)")
	cmd.Flags().StringVar(&path, "path", mcp.DefaultPath, "endpoint path for the http transport")
	_ = cmd.RegisterFlagCompletionFunc("transport", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(mcp.TransportHTTP), string(mcp.TransportStdio)}, cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
