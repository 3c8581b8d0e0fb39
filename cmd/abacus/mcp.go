package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts abacus as an MCP Server.
This allows AI agents to evaluate expressions and drive calculator sessions as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.RunMCP(ctx, cli.MCPOptions{
			Options:   globalOptions(cmd),
			Transport: transport,
			Port:      port,
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "", "Transport protocol to use: 'stdio' or 'sse' (default mcp.transport)")
	mcpCmd.Flags().Int("port", 0, "Port to listen on, only for SSE (default mcp.port)")
}
