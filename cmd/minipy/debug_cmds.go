package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minipy-lang/minipy/internal/ast"
	"github.com/minipy-lang/minipy/internal/lexer"
	"github.com/minipy-lang/minipy/internal/parser"
	"github.com/minipy-lang/minipy/internal/token"
)

// newTokenizeCmd prints every token the tokenizer produces for file, one
// per line, ending with EOF.
func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Print the token stream for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tz, err := lexer.New(args[0])
			if err != nil {
				return err
			}
			for {
				tok, err := tz.Current()
				if err != nil {
					return reportDiagnostic(err)
				}
				fmt.Println(tok.String())
				if tok.Kind == token.EOF {
					return nil
				}
				if err := tz.Advance(); err != nil {
					return reportDiagnostic(err)
				}
			}
		},
	}
}

// newParseCmd prints file's AST via ast.PrettyPrint.
func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed AST for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parser.New(args[0])
			if err != nil {
				return err
			}
			mod, err := p.Parse()
			if err != nil {
				return reportDiagnostic(err)
			}
			fmt.Println(ast.PrettyPrint(mod))
			return nil
		},
	}
}
