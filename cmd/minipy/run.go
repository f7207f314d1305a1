package main

import (
	"os"
	"strings"

	"github.com/minipy-lang/minipy/internal/eval"
	"github.com/minipy-lang/minipy/internal/parser"
	"github.com/minipy-lang/minipy/internal/preamble"
	"github.com/minipy-lang/minipy/internal/sema"
	"github.com/minipy-lang/minipy/internal/source"
)

// runFile parses, statically checks, and evaluates file against an
// evaluator that already ran the preamble (spec §6 "evaluate").
func runFile(file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	lines := strings.Split(string(src), "\n")

	p, err := parser.New(file)
	if err != nil {
		return err
	}
	mod, err := p.Parse()
	if err != nil {
		return reportDiagnostic(err)
	}

	if errs := sema.NewChecker(file, lines).Check(mod); len(errs) > 0 {
		for _, e := range errs {
			source.Render(os.Stderr, e)
		}
		return errs[0]
	}

	ev := eval.New(file, lines)
	if err := preamble.Load(ev); err != nil {
		return reportDiagnostic(err)
	}
	if err := ev.Run(mod); err != nil {
		return reportDiagnostic(err)
	}
	return nil
}
