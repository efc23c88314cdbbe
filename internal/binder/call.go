package binder

import (
	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// bindCall implements spec rule 17 and the "Argument binding for Calls"
// rules: identify the callee, collect parameter datatypes, look up or
// create a Signature, and either resolve a built-in call directly or park
// on the Signature's Return Event.
func (e *Engine) bindCall(b *Binding, n *graph.CallExpr) Outcome {
	calleeDT := n.Callee.Datatype()
	if calleeDT == nil {
		e.Diags.Report(Internal, n.Pos(), "call: callee not yet bound")
		return Failed
	}

	argTypes, ok := e.collectArgTypes(n)
	if !ok {
		return Failed
	}

	switch calleeDT.Kind() {
	case types.KindFuncptr:
		if len(argTypes) != len(calleeDT.Fields()) {
			e.Diags.Report(TypeMismatch, n.Pos(), "funcptr call: argument count mismatch")
			return Failed
		}
		for i, want := range calleeDT.Fields() {
			if _, err := e.Types.Unify(want, argTypes[i]); err != nil {
				e.Diags.Report(TypeMismatch, n.Pos(), "funcptr argument %d: %v", i, err)
				return Failed
			}
		}
		n.SetDatatype(calleeDT.Ret())
		return OK

	case types.KindFunction, types.KindTemplate:
		fn := e.calleeFunction(calleeDT)
		if fn.Linkage == graph.LinkageBuiltin {
			if e.BuiltinBinder == nil {
				e.Diags.Report(Internal, n.Pos(), "builtin call binder not configured for %s", fn.Name)
				return Failed
			}
			scope := b.currentScope()
			dt, err := e.BuiltinBinder.BindCall(scope, fn, argTypes, n)
			if err != nil {
				e.Diags.Report(OverloadResolutionFailure, n.Pos(), "%v", err)
				return Failed
			}
			n.SetDatatype(dt)
			return OK
		}

		if fn.Kind == graph.FuncConstructor {
			return e.bindConstructorCall(b, n, fn, argTypes)
		}

		sig, ok := e.Sigs.Lookup(fn, argTypes)
		if !ok {
			sig = e.Sigs.Create(fn, argTypes)
			e.QueueSignature(sig)
		}
		n.CallSignature = sig
		if !sig.Bound && (sig.Return == nil || !sig.Return.Concrete()) {
			e.parkOn(sig.ReturnEvent, b)
			return Blocked
		}
		n.SetDatatype(sig.Return)
		return OK
	}

	e.Diags.Report(TypeMismatch, n.Pos(), "cannot call value of type %s", calleeDT)
	return Failed
}

// calleeFunction resolves the callee Function from a Function or Template
// datatype (a Template call targets its Constructor, spec rule 17).
func (e *Engine) calleeFunction(dt *types.Datatype) *graph.Function {
	switch v := dt.Owner().(type) {
	case *graph.Function:
		return v
	case *graph.Template:
		return v.Constructor
	}
	return nil
}

// bindConstructorCall implements spec §4.3/§4.5.I: the self parameter's
// datatype is a placeholder until the constructor body finishes binding, at
// which point the engine creates/links a Class and fixes self's type.
func (e *Engine) bindConstructorCall(b *Binding, n *graph.CallExpr, ctor *graph.Function, argTypes []*types.Datatype) Outcome {
	tmpl := ctor.Template
	if tmpl == nil {
		e.Diags.Report(Internal, n.Pos(), "constructor %s has no Template", ctor.Name)
		return Failed
	}

	classKeyTypes := argTypes
	if tmpl.NumTemplateParams > 0 && tmpl.NumTemplateParams <= len(argTypes) {
		classKeyTypes = argTypes[:tmpl.NumTemplateParams]
	}

	sig, ok := e.Sigs.Lookup(ctor, classKeyTypes)
	if !ok {
		sig = e.Sigs.Create(ctor, classKeyTypes)
		e.QueueSignature(sig)
	}
	n.CallSignature = sig

	if sig.ResolvedClass == nil {
		e.parkOn(sig.ReturnEvent, b)
		return Blocked
	}

	classDT, err := e.Types.Class(sig.ResolvedClass, tmpl.RefWidth, false)
	if err != nil {
		e.Diags.Report(Internal, n.Pos(), "%v", err)
		return Failed
	}
	n.SetDatatype(classDT)
	return OK
}

// collectArgTypes implements "Argument binding for Calls": positional
// arguments are matched until a NamedParam is seen, after which every
// argument must be named. Missing arguments with default initializers
// receive a nil slot, filled in later by the DefaultValue Binding.
func (e *Engine) collectArgTypes(n *graph.CallExpr) ([]*types.Datatype, bool) {
	out := make([]*types.Datatype, 0, len(n.Args))
	seenNamed := false
	for _, a := range n.Args {
		if np, ok := a.(*graph.NamedParamExpr); ok {
			seenNamed = true
			out = append(out, np.Value.Datatype())
			continue
		}
		if seenNamed {
			e.Diags.Report(SyntaxAtBindTime, n.Pos(), "positional argument follows named argument")
			return nil, false
		}
		out = append(out, a.Datatype())
	}
	return out, true
}
