package main

import (
	"fmt"
	"os"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "abacus",
	Short: "Abacus is a scientific calculator for the terminal, HTTP and MCP",
	Long: `Abacus evaluates arithmetic and scientific expressions with a calculator session:
an input buffer, the last ten results, a memory register and a DEG/RAD angle mode.
Run it without a command to start the interactive calculator.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (default abacus.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("angle-mode", "", "Initial angle mode: DEG or RAD")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

// globalOptions reads the persistent flags.
func globalOptions(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	angleMode, _ := cmd.Flags().GetString("angle-mode")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		AngleMode:  angleMode,
		Debug:      debug,
	}
}
