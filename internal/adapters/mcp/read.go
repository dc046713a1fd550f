package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sentinel/internal/adapters/render"
	"sentinel/internal/application/commands"
)

// RegisterReadTools adds the read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, d Deps) {
	s.AddTool(checkTool(), checkHandler(d))
	s.AddTool(graphTool(), graphHandler(d))
	s.AddTool(correctionsTool(), correctionsHandler(d))
}

// --- check ---

func checkTool() mcp.Tool {
	return mcp.NewTool("check",
		mcp.WithDescription("Detect energy collisions in the schedule graph. Returns a JSON report of causal chains from draining triggers to activities that need the state they destroy."),
		mcp.WithNumber("min_confidence",
			mcp.Description("Minimum collision confidence between 0 and 1. Omit to use the configured threshold."),
			mcp.Min(0),
			mcp.Max(1),
		),
		mcp.WithBoolean("include_low_confidence",
			mcp.Description("Also return collisions below the threshold"),
		),
		mcp.WithBoolean("include_acknowledged",
			mcp.Description("Also return acknowledged collisions"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func checkHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCheckCommand(d.Store, d.Acks, d.Detector, req.GetFloat("min_confidence", d.MinConfidence))
		cmd.IncludeLowConfidence = req.GetBool("include_low_confidence", false)
		cmd.IncludeAcknowledged = req.GetBool("include_acknowledged", false)

		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		if err := render.WriteJSON(&sb, render.NewReport(res.Result, res.MinConfidence)); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- graph ---

func graphTool() mcp.Tool {
	return mcp.NewTool("graph",
		mcp.WithDescription("Return the schedule graph as JSON, or the neighborhood of one node."),
		mcp.WithString("node",
			mcp.Description("Node name or alias to center on. Omit for the whole graph."),
		),
		mcp.WithNumber("depth",
			mcp.Description(fmt.Sprintf("Neighborhood radius in edges, 1 to %d", commands.MaxGraphDepth)),
			mcp.DefaultNumber(commands.DefaultGraphDepth),
			mcp.Min(1),
			mcp.Max(commands.MaxGraphDepth),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func graphHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewGraphCommand(d.Store, d.Resolver, req.GetString("node", ""), req.GetInt("depth", commands.DefaultGraphDepth))
		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		if res.Warning != "" {
			sb.WriteString(res.Warning)
			sb.WriteString("\n")
		}
		if err := render.WriteGraphJSON(&sb, res.Graph, res.Focus, res.Depth); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- corrections ---

func correctionsTool() mcp.Tool {
	return mcp.NewTool("corrections",
		mcp.WithDescription("List the correction ledger, oldest first."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func correctionsHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := commands.NewListCorrectionsCommand(d.Store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("No corrections."), nil
		}

		var sb strings.Builder
		for _, e := range entries {
			sb.WriteString(render.Correction(e.CorrectionRecord, e.Missing))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
