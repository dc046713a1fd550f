// Package mcp exposes collision checks, graph views, acknowledgments and the
// correction ledger as MCP tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sentinel/internal/collision"
	"sentinel/internal/matching"
	"sentinel/internal/ports"
)

// Deps are the services the tools run against
type Deps struct {
	Store         ports.GraphStore
	Acks          ports.AckStore
	Locker        ports.Locker
	Detector      *collision.Detector
	Resolver      matching.Resolver
	MinConfidence float64 // default for check when the caller gives none
}

// Register adds every sentinel tool to the MCP server
func Register(s *server.MCPServer, d Deps) {
	RegisterReadTools(s, d)
	RegisterWriteTools(s, d)
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
