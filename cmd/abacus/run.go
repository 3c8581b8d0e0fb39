package main

import (
	"os"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive calculator",
	Long: `Starts a calculator session on the terminal. Type keys or whole expressions,
'=' to evaluate, 'help' for the keypad and 'quit' to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		headless, _ := cmd.Flags().GetBool("headless")

		opts := cli.RunOptions{
			Options:  globalOptions(cmd),
			JSON:     jsonMode,
			Headless: headless,
		}
		return cli.RunSession(cmd.Context(), opts, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, no markdown rendering)")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")

	// 'run' is the default if no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
