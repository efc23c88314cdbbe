// Package binder implements the type-binding engine (spec §2-§9): the
// event-driven fixpoint that walks a Program Graph to completion, assigning
// every expression a Datatype, every call site a Signature, and every
// template instantiation a Class.
package binder

import (
	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// ValueEvaluator is the external collaborator the Transformer Executor uses
// to evaluate a transformer's compile-time parameter expressions (spec §6
// "Value evaluator"): a pure function from (block, expression, optional
// modulus) to a Value.
type ValueEvaluator interface {
	Evaluate(block *graph.Block, expr graph.Expression, modulus graph.Expression) (Value, error)
}

// Value is the result of compile-time evaluation: exactly one of the
// fields below is meaningful, selected by Kind.
type Value struct {
	Kind   ValueKind
	Int    int64
	Float  float64
	Bool   bool
	String string
	Class  *graph.Class
	Func   *graph.Function
}

// ValueKind discriminates the Value union.
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueFloat
	ValueBool
	ValueString
	ValueClass
	ValueFunc
)

// BuiltinCallBinder resolves a call to a built-in Function (spec §6 "Built-
// in call binder"): given the scope, the callee Function, the bound
// parameter Datatypes, and the call expression itself, it returns the
// call's result Datatype.
type BuiltinCallBinder interface {
	BindCall(scope *graph.Block, fn *graph.Function, paramTypes []*types.Datatype, call *graph.CallExpr) (*types.Datatype, error)
}

// DiagnosticSink is the line-indexed external error surface (spec §6
// "Diagnostic sink"): a format-string reporter that may abort the process
// on fatal errors.
type DiagnosticSink interface {
	Error(pos graph.Pos, format string, args ...any)
}
