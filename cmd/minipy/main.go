// Command minipy is the CLI entry point: evaluating a .mpy file and the
// CharStream/tokenizer/parser debug subcommands (spec §6).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
