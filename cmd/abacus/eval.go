package main

import (
	"strings"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate one expression and print the result",
	Example: `  abacus eval "2*sin(30)+1"
  abacus eval --rad "cos(pi)"
  abacus eval --tree "2*(3+4)"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.EvalOptions{Options: globalOptions(cmd)}
		opts.Tree, _ = cmd.Flags().GetBool("tree")
		if rad, _ := cmd.Flags().GetBool("rad"); rad {
			opts.AngleMode = "RAD"
		}
		return cli.Eval(opts, strings.Join(args, " "), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().Bool("rad", false, "Interpret trigonometric operands as radians")
	evalCmd.Flags().Bool("tree", false, "Print the evaluated expression tree as a Mermaid flowchart")
}
