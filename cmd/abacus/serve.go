package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the calculator HTTP API. Sessions live in memory; the API is described
at /openapi.yaml, browsable at /swagger and instrumented at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.Serve(ctx, cli.ServeOptions{Options: globalOptions(cmd), Port: port})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default http.port, 8080)")
}
