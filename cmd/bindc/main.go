// Command bindc is a harness for driving the binder: it is not a compiler
// front end (lexing, parsing, and flag-driven project loading are out of
// scope, per spec.md's Non-goals), but a small CLI that loads a YAML
// program-graph fixture and runs Bind over it, printing whatever
// diagnostics come out.
package main

import (
	"os"

	"github.com/cwbudde/go-binder/cmd/bindc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
