package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minipy-lang/minipy/internal/source"
)

// newLCCmd counts the lines in file, grounded on original_source's
// char_stream.rs `lc` method.
func newLCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lc <file>",
		Short: "Count the lines in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := source.NewCharStream(args[0])
			if err != nil {
				return err
			}
			cs.Advance()
			lines := 0
			for {
				if _, ok := cs.Current(); !ok {
					break
				}
				lines = cs.Line()
				cs.Advance()
			}
			fmt.Println(lines)
			return nil
		},
	}
}

// newAposCmd prints "line <n>, col <c>" for every occurrence of the byte
// 'a', grounded on original_source's char_stream.rs `apos` method.
func newAposCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apos <file>",
		Short: "Print the position of every 'a' in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := source.NewCharStream(args[0])
			if err != nil {
				return err
			}
			cs.Advance()
			for {
				b, ok := cs.Current()
				if !ok {
					break
				}
				if b == 'a' {
					fmt.Printf("line %d, col %d\n", cs.Line(), cs.Col())
				}
				cs.Advance()
			}
			return nil
		},
	}
}
