package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerLogMoodTool(srv, svc)
	registerListMoodsTool(srv, svc)
	registerGetEntryTool(srv, svc)
	registerUpdateEntryTool(srv, svc)
	registerDeleteEntryTool(srv, svc)
	registerDistributionTool(srv, svc)
	registerWeeklyTrendTool(srv, svc)
	registerCatalogTool(srv, svc)
}

func moodEnum(svc *Service) []string {
	opts := svc.Catalog()
	words := make([]string, 0, len(opts))
	for _, o := range opts {
		words = append(words, strings.ToLower(o.Word()))
	}
	return words
}

func registerLogMoodTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"log_mood",
		mcp.WithDescription("Log how the user feels right now."),
		mcp.WithString("mood",
			mcp.Required(),
			mcp.Description("Mood word such as "+strings.Join(moodEnum(svc), ", ")+", the full label, or a level 1-5."),
		),
		mcp.WithString("notes",
			mcp.Description("Optional free-form notes."),
		),
		mcp.WithNumber("level",
			mcp.Description("Optional level overriding the mood's default level."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Mood  string `json:"mood"`
			Notes string `json:"notes"`
			Level int    `json:"level"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.LogMood(ctx, LogMoodOptions{
			Mood:  args.Mood,
			Level: args.Level,
			Notes: args.Notes,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListMoodsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_moods",
		mcp.WithDescription("List logged moods, newest first."),
		mcp.WithString("since",
			mcp.Description(`Optional window such as "3d" or "1w".`),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		since := request.GetString("since", "")
		limit := request.GetInt("limit", 0)
		results, err := svc.ListMoods(ctx, since, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"since":   since,
			"count":   len(results),
			"entries": results,
		})
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch a single entry by identifier. Unknown ids report found=false."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.EntryByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(entryPayload(id, dto))
	})
}

func registerUpdateEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_entry",
		mcp.WithDescription("Change the mood, level or notes of an entry. The logged time is kept; unknown ids report updated=false."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to update."),
		),
		mcp.WithString("mood",
			mcp.Description("New mood word, label or level."),
		),
		mcp.WithNumber("level",
			mcp.Description("New level."),
		),
		mcp.WithString("notes",
			mcp.Description("Replacement notes; an empty string clears them."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var args struct {
			Mood  *string `json:"mood"`
			Level *int    `json:"level"`
			Notes *string `json:"notes"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Mood == nil && args.Level == nil && args.Notes == nil {
			return mcp.NewToolResultError("nothing to update: set mood, level or notes"), nil
		}

		dto, err := svc.UpdateEntry(ctx, UpdateEntryOptions{
			ID:    id,
			Mood:  args.Mood,
			Level: args.Level,
			Notes: args.Notes,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if dto == nil {
			return toJSONResult(map[string]any{"id": id, "updated": false})
		}
		return toJSONResult(map[string]any{"id": id, "updated": true, "entry": dto})
	})
}

func registerDeleteEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_entry",
		mcp.WithDescription("Delete an entry. Deleting an unknown id is not an error."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		deleted, err := svc.DeleteEntry(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"id":      id,
			"deleted": deleted,
		})
	})
}

func registerDistributionTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"mood_distribution",
		mcp.WithDescription("Count of entries per mood."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bars, err := svc.Distribution(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		total := 0
		for _, b := range bars {
			total += b.Count
		}
		return toJSONResult(map[string]any{
			"total": total,
			"moods": bars,
		})
	})
}

func registerWeeklyTrendTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"weekly_trend",
		mcp.WithDescription("Average mood level per day for the last seven days, oldest first."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		points, err := svc.WeeklyTrend(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"days": points,
		})
	})
}

func registerCatalogTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_catalog",
		mcp.WithDescription("The moods that can be logged with their levels and colors."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toJSONResult(map[string]any{
			"moods": svc.Catalog(),
		})
	})
}

// entryPayload reports a lookup; an unknown id is found=false, not an error.
func entryPayload(id string, dto *EntryDTO) map[string]any {
	if dto == nil {
		return map[string]any{"id": id, "found": false}
	}
	return map[string]any{"id": id, "found": true, "entry": dto}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
