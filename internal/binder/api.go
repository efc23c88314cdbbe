package binder

import (
	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// Bind runs the fixpoint over root (spec §6 "bind(root)"). Callers (the HIR
// builder) are expected to have already seeded the queue for every entry
// point they care about via QueueSignature; Bind additionally seeds the
// conventional "main" Function in root, if one is declared, before draining.
// It returns every Diagnostic recorded during the run; an empty slice means
// success.
func (e *Engine) Bind(root *graph.Block) []*Diagnostic {
	if mainIdent, ok := graph.FindInBlock(root, "main"); ok && mainIdent.Target == graph.IdentFunction {
		fn := mainIdent.Function
		if _, ok := e.Sigs.Lookup(fn, nil); !ok {
			sig := e.Sigs.Create(fn, nil)
			e.QueueSignature(sig)
		}
	}
	e.run()
	return e.Diags.Diagnostics()
}

// BindRPCs implements spec §6 "bind_rpcs(root)": after the main fixpoint,
// create fully-specified Signatures for every extern RPC function and
// re-run the fixpoint. A function qualifies only if every one of its
// parameters already carries a concrete type-constraint datatype — an RPC
// boundary function's parameters are never inferred from a call site, by
// construction, so any that are not yet concrete are skipped with a
// diagnostic rather than guessed at.
func (e *Engine) BindRPCs(root *graph.Block) []*Diagnostic {
	for _, fn := range e.Graph.AllFunctions() {
		if fn.Linkage != graph.LinkageExternRpc && fn.Linkage != graph.LinkageRpc {
			continue
		}
		paramTypes := make([]*types.Datatype, fn.NumParams)
		ready := true
		for i := 0; i < fn.NumParams && i < len(fn.Block.Variables); i++ {
			v := fn.Block.Variables[i]
			if v.TypeConstraint == nil || v.TypeConstraint.Datatype() == nil || !v.TypeConstraint.Datatype().Concrete() {
				ready = false
				break
			}
			paramTypes[i] = v.TypeConstraint.Datatype()
		}
		if !ready {
			e.Diags.Report(TemplateMisuse, fn.Pos, "rpc function %s has an unresolved parameter type", fn.Name)
			continue
		}
		if _, ok := e.Sigs.Lookup(fn, paramTypes); !ok {
			sig := e.Sigs.Create(fn, paramTypes)
			e.QueueSignature(sig)
		}
	}
	e.run()
	return e.Diags.Diagnostics()
}

// RefineAccess implements spec §6 "refine_access(block, target, value_type)":
// used by post-binding passes to propagate a later-discovered Class type
// into nullable placeholders reachable from target (a Variable, or a Tuple/
// Array slot reachable through it). The Open Question resolution (spec §9)
// this module adopts is "refine-if-compatible": the refinement is only
// applied when value_type unifies with the existing datatype; it never
// silently overwrites an incompatible one.
func (e *Engine) RefineAccess(block *graph.Block, target *graph.Variable, valueType *types.Datatype) error {
	if target.Datatype == nil {
		target.Datatype = valueType
		if valueType.Concrete() {
			target.Instantiated = true
			e.fireVariableEvent(target)
		}
		return nil
	}

	refined, err := e.Types.Unify(target.Datatype, valueType)
	if err != nil {
		return err
	}
	wasConcrete := target.Datatype.Concrete()
	target.Datatype = refined
	if !wasConcrete && refined.Concrete() {
		target.Instantiated = true
		e.fireVariableEvent(target)
	}
	return nil
}
