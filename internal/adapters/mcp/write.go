package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sentinel/internal/application/commands"
)

// RegisterWriteTools adds the tools that change persisted state.
func RegisterWriteTools(s *server.MCPServer, d Deps) {
	s.AddTool(ackTool(), ackHandler(d))
}

// --- ack ---

func ackTool() mcp.Tool {
	return mcp.NewTool("ack",
		mcp.WithDescription("Acknowledge collisions involving a node so check stops reporting them, or remove an acknowledgment."),
		mcp.WithString("label",
			mcp.Description("Name of the trigger or impacted node"),
			mcp.Required(),
		),
		mcp.WithBoolean("remove",
			mcp.Description("Remove the acknowledgment instead of adding it"),
		),
	)
}

func ackHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		label := req.GetString("label", "")
		if label == "" {
			return toolError(fmt.Errorf("label is required"))
		}

		if req.GetBool("remove", false) {
			res, err := commands.NewUnackCommand(d.Acks, d.Store, d.Locker, d.Resolver, label).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText(res.Message), nil
		}

		res, err := commands.NewAckCommand(d.Acks, d.Store, d.Locker, d.Resolver, label).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Message), nil
	}
}
