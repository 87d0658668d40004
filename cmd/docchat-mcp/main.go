// Command docchat-mcp exposes the document service as MCP tools over stdio.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/0xcro3dile/docchat-go/internal/app"
	"github.com/0xcro3dile/docchat-go/internal/config"
	"github.com/0xcro3dile/docchat-go/internal/infrastructure/logging"
	"github.com/0xcro3dile/docchat-go/internal/version"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("DOCCHAT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol; keep logging to warnings, and to the file when configured.
	cfg.Logging.Level = "warn"
	cfg.Logging.Output = []string{"file"}
	logger := logging.New(cfg.Logging)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Service.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load documents: %v\n", err)
		os.Exit(1)
	}
	if err := a.StartBackground(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start background refresh: %v\n", err)
		os.Exit(1)
	}

	mcpServer := server.NewMCPServer(
		"docchat",
		version.Version,
		server.WithToolCapabilities(true),
	)
	registerTools(mcpServer, a.Service, logger)

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error().Err(err).Msg("MCP server failed")
		os.Exit(1)
	}
}
