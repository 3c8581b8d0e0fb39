package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/abacus/pkg/adapters/mcp"
)

// MCPOptions contains the configuration for the MCP command.
type MCPOptions struct {
	Options
	// Transport and Port override the mcp section of the configuration when set.
	Transport string
	Port      int
}

// NewMCPServer builds the MCP adapter over an in-memory session manager.
func (a *App) NewMCPServer() *mcp.Server {
	return mcp.NewServer(a.NewManager(nil),
		mcp.WithAngleMode(a.Config.Mode()),
		mcp.WithLogger(a.Logger),
	)
}

// RunMCP serves the Model Context Protocol until ctx is cancelled or stdin closes.
func RunMCP(ctx context.Context, opts MCPOptions) error {
	app, err := NewApp(opts.Options, false)
	if err != nil {
		return err
	}
	transport := app.Config.MCP.Transport
	if opts.Transport != "" {
		transport = opts.Transport
	}
	port := app.Config.MCP.Port
	if opts.Port > 0 {
		port = opts.Port
	}

	srv := app.NewMCPServer()
	switch strings.ToLower(transport) {
	case "stdio":
		app.Logger.Info("Starting Abacus MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		app.Logger.Info("Starting Abacus MCP Server (SSE)", "port", port)
		return srv.ServeSSE(ctx, port)
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}
}
