package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/minipy-lang/minipy/internal/source"
)

// newRootCmd builds the cobra.Command tree (spec §6): a bare `minipy
// <file>` evaluates, and lc/apos/tokenize/parse expose the earlier
// pipeline stages for debugging, mirroring original_source's own
// char_stream/tokenizer/parser having independently runnable entry
// points.
func newRootCmd() *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:           "minipy <file>",
		Short:         "Run a MiniPy program",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				source.SetColor(false)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0])
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colorized diagnostics")

	root.AddCommand(newLCCmd(), newAposCmd(), newTokenizeCmd(), newParseCmd())
	return root
}

func reportDiagnostic(err error) error {
	source.Render(os.Stderr, err)
	return err
}
