package binder

import "github.com/cwbudde/go-binder/internal/graph"

// BindingKind enumerates what a Binding is pinned to binding (spec §3).
type BindingKind int

const (
	// BindingStatement binds a Statement's root expression (and the
	// statements of its Sub-block, enqueued as post-processing unfolds).
	BindingStatement BindingKind = iota
	// BindingDefaultValue binds a parameter's default-value expression.
	BindingDefaultValue
	// BindingVarConstraint binds a variable's type-constraint expression
	// (the "T" in "x: T = v").
	BindingVarConstraint
	// BindingFuncConstraint binds a function's return-type constraint
	// expression.
	BindingFuncConstraint
)

// Binding is a unit of in-flight work for one expression tree, pinned to a
// Signature (spec §3). It owns an ordered queue of Expressions pending
// binding and tracks the one currently being worked. Modeling it as a small
// state machine (queue, position) rather than a coroutine is the approach
// spec §9 recommends for implementers without coroutines.
type Binding struct {
	Kind      BindingKind
	Signature *Signature

	// Statement is set for BindingStatement: the Statement whose Root is
	// being bound (and, on completion, post-processed by §4.6).
	Statement *Statement

	// Variable/Function is set for the other three kinds: whose
	// initializer/constraint expression is being bound.
	Variable *graph.Variable
	Function *graph.Function
	Param    int // which parameter, for BindingDefaultValue

	queue []graph.Expression
	pos   int

	Instantiating bool

	destroyed bool
}

// Statement wraps a graph.Statement with the binder-owned fields the
// post-processor needs (spec §4.6): which Signature it is bound under, and
// whether its sub-block is currently instantiating.
type Statement struct {
	Node          *graph.Statement
	Block         *graph.Block // the block Node lives in (may differ from Node.Block after a copy)
	Instantiating bool
}

func newBinding(kind BindingKind, sig *Signature) *Binding {
	b := &Binding{Kind: kind, Signature: sig}
	sig.bindings = append(sig.bindings, b)
	return b
}

// Current returns the expression at the front of the queue, or nil if the
// queue is empty.
func (b *Binding) Current() graph.Expression {
	if b.pos >= len(b.queue) {
		return nil
	}
	return b.queue[b.pos]
}

// Done reports whether every expression in the queue has been bound.
func (b *Binding) Done() bool { return b.pos >= len(b.queue) }

// advance drops the front expression (OK outcome).
func (b *Binding) advance() { b.pos++ }

// rebuildFrom replaces the remaining queue with the bottom-up walk of root
// (the REBIND outcome: the Expression Binder mutated the tree under the
// current expression and the queue must be recomputed).
func (b *Binding) rebuildFrom(root graph.Expression) {
	b.queue = b.queue[:b.pos]
	b.queue = append(b.queue, flattenPostOrder(root)...)
}

// enqueue appends expressions (in post-order, bottom-up) to the back of the
// queue — used to seed a Binding and by the Statement Post-processor to
// enqueue a Typeswitch case's statements.
func (b *Binding) enqueue(exprs ...graph.Expression) {
	b.queue = append(b.queue, exprs...)
}

// flattenPostOrder walks e's children before e itself (spec §4.5: "children
// are queued before their parent"), skipping the special-ordering forms
// which the Expression Binder re-queues explicitly when it visits the
// parent (Dot's right Ident, NamedParam's name, Assign's LHS root).
func flattenPostOrder(e graph.Expression) []graph.Expression {
	if e == nil {
		return nil
	}
	var out []graph.Expression

	switch n := e.(type) {
	case *graph.DotExpr:
		out = append(out, flattenPostOrder(n.Left)...)
		// n.Right is bound only once n.Left's datatype is known (special
		// ordering, spec §4.5); it is queued by the Expression Binder itself.
	case *graph.NamedParamExpr:
		out = append(out, flattenPostOrder(n.Value)...)
	case *graph.AssignExpr:
		out = append(out, flattenPostOrder(n.Value)...)
		// n.Target's root Ident is resolved by the assignment handler, not
		// queued bottom-up (spec §4.5 "Assignment").
	case *graph.ModintExpr:
		out = append(out, flattenPostOrder(n.Modulus)...)
		// n.Value is bound after the modular environment is established by
		// the Expression Binder when it visits the Modint node itself.
	default:
		for _, c := range e.Children() {
			out = append(out, flattenPostOrder(c)...)
		}
	}

	out = append(out, e)
	return out
}
