package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "sentinel/internal/adapters/mcp"
	"sentinel/internal/bootstrap"
	"sentinel/internal/config"
	"sentinel/internal/logging"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("sentinel-mcp: %v", err)
	}
	// stdout carries the protocol, the logger writes to stderr
	logger := logging.FromEnv()
	defer logger.Sync()

	deps, err := bootstrap.New(cfg, logger)
	if err != nil {
		log.Fatalf("sentinel-mcp: %v", err)
	}
	defer deps.Close()

	mcpServer := server.NewMCPServer(
		"sentinel-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.Register(mcpServer, mcpadapter.Deps{
		Store:         deps.Store,
		Acks:          deps.Acks,
		Locker:        deps.Locker,
		Detector:      deps.Detector,
		Resolver:      deps.Resolver,
		MinConfidence: cfg.MinConfidence(),
	})

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server stopped", "error", err)
		deps.Close()
		log.Fatalf("sentinel-mcp: %v", err)
	}
}
