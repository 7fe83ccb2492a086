package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the name reported to MCP clients.
const ServerName = "moodlog"

// NewServer builds an MCP server whose tools and resources act on the
// coordinator. The instructions list the moods of the coordinator's catalog.
func (s *Service) NewServer(version string) *server.MCPServer {
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(
		ServerName,
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions(s.instructions()),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	registerResources(srv, s)
	registerTools(srv, s)
	return srv
}

func (s *Service) instructions() string {
	opts := s.Catalog()
	moods := make([]string, 0, len(opts))
	for _, o := range opts {
		moods = append(moods, fmt.Sprintf("%s (level %d)", o.DisplayName, o.Level))
	}
	return "A personal mood log. Log how the user feels with log_mood, read the history " +
		"with list_moods and summarize it with mood_distribution and weekly_trend. " +
		"Moods: " + strings.Join(moods, ", ") + ". A mood argument may be the label, " +
		"its first word or the level. Unknown entry ids are reported as found=false, never as errors."
}
