package binder

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// TestDiagnosticRendering snapshot-tests the Diagnostic Reporter's rendered
// output for a handful of representative error scenarios, the way the
// teacher's fixture suite snapshots interpreter output.
func TestDiagnosticRendering(t *testing.T) {
	cases := []struct {
		name  string
		build func() []*Diagnostic
	}{
		{
			name: "undefined_identifier",
			build: func() []*Diagnostic {
				g := graph.New()
				store := types.NewStore()
				fn := g.NewFunction("f", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
				missing := g.NewIdentExpr("doesNotExist", fn.Block, graph.Pos{})
				g.NewStatement(fn.Block, graph.StmtReturn, missing, graph.Pos{})
				g.NewIdent(g.Root, "f").BindToFunction(fn)

				e := NewEngine(g, store)
				e.QueueSignature(e.Sigs.Create(fn, nil))
				e.run()
				return e.Diags.Diagnostics()
			},
		},
		{
			name: "secret_exponent_base",
			build: func() []*Diagnostic {
				g := graph.New()
				store := types.NewStore()
				fn := g.NewFunction("f", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
				g.NewIdent(g.Root, "f").BindToFunction(fn)

				secretBase := g.NewRandUintLiteral(32, graph.Pos{})
				exp := g.NewIntLiteral(2, 32, false, graph.Pos{})
				bin := g.NewBinary(graph.ExprExponent, secretBase, exp, graph.Pos{})
				g.NewStatement(fn.Block, graph.StmtReturn, bin, graph.Pos{})

				e := NewEngine(g, store)
				e.QueueSignature(e.Sigs.Create(fn, nil))
				e.run()
				return e.Diags.Diagnostics()
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			diags := c.build()
			var rendered string
			for _, d := range diags {
				rendered += fmt.Sprintf("%s\n", d.Error())
			}
			snaps.MatchSnapshot(t, rendered)
		})
	}
}
