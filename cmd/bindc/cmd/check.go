package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-binder/internal/binder"
	"github.com/cwbudde/go-binder/internal/fixture"
	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
	"github.com/spf13/cobra"
)

var graphPath string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Bind a YAML program-graph fixture and print diagnostics",
	Long: `check loads a YAML program-graph fixture with --graph, builds a
Program Graph from it, runs the type-binding engine's fixpoint over every
declared function, and prints every Diagnostic produced.

This is a harness for exercising the binder, not a compiler front end:
real front ends construct *graph.Graph themselves and call binder.Bind
directly.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&graphPath, "graph", "", "path to a YAML program-graph fixture (required)")
	_ = checkCmd.MarkFlagRequired("graph")
}

func runCheck(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(graphPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", graphPath, err)
	}

	g := graph.New()
	store := types.NewStore()
	fns, err := fixture.Load(g, data, graphPath)
	if err != nil {
		return err
	}

	engine := binder.NewEngine(g, store)
	for _, fn := range fns {
		// engine.Bind seeds "main" itself (with a nil parameter-type key),
		// so it is left to Bind. A main declared with parameters would
		// otherwise get a second Signature here, keyed by its all-nil tuple.
		if fn.Name == "main" {
			continue
		}
		sig := engine.Sigs.Create(fn, make([]*types.Datatype, fn.NumParams))
		engine.QueueSignature(sig)
	}

	diags := engine.Bind(g.Root)
	if len(diags) == 0 {
		fmt.Println("bind: no diagnostics")
		return nil
	}
	for _, d := range diags {
		fmt.Println(d.Error())
	}
	return fmt.Errorf("bind: %d diagnostic(s)", len(diags))
}
