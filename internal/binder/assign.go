package binder

import (
	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// bindAssign implements spec "Assignment semantics": the LHS root (an Ident,
// or a Dot's final Ident) is removed from the standard bottom-up queue and
// resolved here, since it may need to *create* a Variable or class data
// member rather than merely read one.
func (e *Engine) bindAssign(b *Binding, n *graph.AssignExpr) Outcome {
	if n.Value.Datatype() == nil {
		outcome := e.bindOne(b, n.Value)
		if outcome != OK {
			return outcome
		}
	}
	rhsDT := n.Value.Datatype()

	v, scopeOutcome := e.resolveAssignTarget(b, n.Target)
	if scopeOutcome != OK {
		return scopeOutcome
	}
	if v == nil {
		return Failed
	}

	if v.Const && v.Datatype != nil {
		e.Diags.Report(ConstWrite, n.Pos(), "assignment to const variable %s", v.Name)
		return Failed
	}

	var newDT *types.Datatype
	if v.Datatype == nil {
		newDT = rhsDT
	} else {
		unified, err := e.Types.Unify(v.Datatype, rhsDT)
		if err != nil {
			e.Diags.Report(TypeMismatch, n.Pos(), "assignment to %s: %v", v.Name, err)
			return Failed
		}
		newDT = unified
	}

	wasConcrete := v.Datatype != nil && v.Datatype.Concrete()
	v.Datatype = newDT
	if !wasConcrete && newDT.Concrete() {
		v.Instantiated = true
		e.fireVariableEvent(v)
	}

	n.SetDatatype(newDT)
	n.Target.SetDatatype(newDT)
	return OK
}

// resolveAssignTarget finds or creates the Variable the assignment target
// names: an Ident directly, or a Dot's final Ident targeting a class field
// (constructor's `self.x`).
func (e *Engine) resolveAssignTarget(b *Binding, target graph.Expression) (*graph.Variable, Outcome) {
	switch t := target.(type) {
	case *graph.IdentExpr:
		return e.findOrCreateVariable(b, t)
	case *graph.DotExpr:
		if t.Left.Datatype() == nil {
			outcome := e.bindOne(b, t.Left)
			if outcome != OK {
				return nil, outcome
			}
		}
		scope, _ := e.scopeBlockOf(t.Left.Datatype())
		if scope == nil {
			e.Diags.Report(TypeMismatch, t.Pos(), "assignment target has no member scope")
			return nil, Failed
		}
		t.Right.Scope = scope
		return e.findOrCreateVariable(b, t.Right)
	default:
		e.Diags.Report(Internal, target.Pos(), "unsupported assignment target")
		return nil, Failed
	}
}

// findOrCreateVariable resolves ident in its Scope, creating a fresh local
// Variable if undefined (spec "Assignment semantics": "find-or-create a
// Variable in the current scope").
func (e *Engine) findOrCreateVariable(b *Binding, ident *graph.IdentExpr) (*graph.Variable, Outcome) {
	scope := ident.Scope
	if scope == nil {
		scope = b.currentScope()
	}

	id, ok := graph.FindInBlock(scope, ident.Name)
	if ok && id.Target == graph.IdentVariable {
		ident.Ident = id
		return id.Variable, OK
	}
	if ok && id.Target != graph.IdentUndefined {
		e.Diags.Report(TypeMismatch, ident.Pos(), "cannot assign to %s: not a variable", ident.Name)
		return nil, Failed
	}

	v := e.Graph.NewVariable(scope, ident.Name, graph.VarLocal, ident.Pos())
	if ok {
		id.BindToVariable(v) // reuse the existing Undefined ident record
		ident.Ident = id
	} else {
		newIdent := e.Graph.NewIdent(scope, ident.Name)
		newIdent.BindToVariable(v)
		ident.Ident = newIdent
	}
	e.fireUndefinedIdent(scope, ident.Name)
	return v, OK
}
