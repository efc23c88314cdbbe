package binder

import (
	"github.com/cwbudde/go-binder/internal/graph"
)

// run drains the runnable FIFO (spec §4.4 "Worklist semantics") until
// empty, then performs drain-time template garbage collection and reports
// any Events whose waiter list is still non-empty.
func (e *Engine) run() {
	for len(e.runnable) > 0 {
		b := e.runnable[0]
		e.runnable = e.runnable[1:]
		if b.destroyed {
			continue
		}
		e.runBinding(b)
	}
	e.collectGarbage()
	e.reportUnresolvedEvents()
}

// runBinding drives one Binding's expression queue front-to-back until it
// empties, blocks, or fails.
func (e *Engine) runBinding(b *Binding) {
	for !b.Done() {
		expr := b.Current()
		switch e.bindOne(b, expr) {
		case OK:
			b.advance()
		case Blocked:
			return
		case Rebind:
			b.rebuildFrom(expr)
		case Failed:
			e.destroyBinding(b)
			return
		}
	}
	e.finishBinding(b)
}

// finishBinding runs the Statement Post-processor (§4.6) when a
// BindingStatement's queue empties, then checks whether the owning
// Signature is now fully bound.
func (e *Engine) finishBinding(b *Binding) {
	switch b.Kind {
	case BindingStatement:
		e.postProcessStatement(b)
	case BindingFuncConstraint:
		e.checkFuncConstraint(b)
	case BindingVarConstraint:
		e.checkVarConstraint(b)
	case BindingDefaultValue:
		e.finishDefaultValue(b)
	}
	e.maybeFinalizeSignature(b.Signature)
}

func (e *Engine) finishDefaultValue(b *Binding) {
	v := b.Variable
	dt := v.Initializer.Datatype()
	ps := b.Signature.Paramspecs[b.Param]
	ps.Datatype = dt
	if v.Datatype == nil {
		v.Datatype = dt
		if dt.Concrete() {
			v.Instantiated = true
			e.fireVariableEvent(v)
		}
	}
}

func (e *Engine) checkFuncConstraint(b *Binding) {
	// Nothing further to check here beyond the expression having bound
	// successfully; the constraint's datatype is consulted by
	// maybeFinalizeSignature when fixing the return type.
}

func (e *Engine) checkVarConstraint(b *Binding) {
	v := b.Variable
	constraintDT := v.TypeConstraint.Datatype()
	if v.Datatype == nil {
		return
	}
	if _, err := e.Types.Unify(constraintDT, v.Datatype); err != nil {
		e.Diags.Report(ConstraintViolation, v.Pos, "variable %s: %v", v.Name, err)
	}
}

// maybeFinalizeSignature finalizes sig once every Binding created against
// it has completed (spec §4.4 "When all Bindings of a Signature have
// completed"): Paramspec flags are copied from their Variables, the return
// type is fixed (defaulting to None), and the Return Event fires.
func (e *Engine) maybeFinalizeSignature(sig *Signature) {
	if sig.Bound {
		return
	}
	for _, bd := range sig.bindings {
		if !bd.destroyed && !bd.Done() {
			return
		}
	}

	fn := sig.Function
	for i, ps := range sig.Paramspecs {
		if i < len(fn.Block.Variables) {
			v := fn.Block.Variables[i]
			ps.IsType = v.IsType
			ps.Instantiated = ps.Instantiated || v.Instantiated
			if ps.Datatype == nil {
				ps.Datatype = v.Datatype
			}
		}
	}

	if sig.Return == nil {
		sig.Return = e.Types.None()
	}
	if fn.ReturnConstraint != nil && fn.ReturnConstraint.Datatype() != nil {
		if _, err := e.Types.Unify(fn.ReturnConstraint.Datatype(), sig.Return); err != nil {
			e.Diags.Report(ConstraintViolation, fn.Pos, "return type of %s: %v", fn.Name, err)
		}
	}

	sig.Bound = true
	e.fire(sig.ReturnEvent)

	if fn.Kind == graph.FuncConstructor && sig.ResolvedClass == nil {
		e.instantiateClass(sig)
	}
}

// instantiateClass implements spec §4.3/§4.5.I: on successful binding of
// the constructor body, create/link a Class for the template with this
// Signature, fixing self's type to the Class's datatype.
func (e *Engine) instantiateClass(sig *Signature) {
	fn := sig.Function
	tmpl := fn.Template
	if tmpl == nil {
		return
	}
	class := e.Graph.NewClass(tmpl, sig)
	sig.ResolvedClass = class
	classDT, err := e.Types.Class(class, tmpl.RefWidth, false)
	if err != nil {
		e.Diags.Report(Internal, graph.Pos{}, "%v", err)
		return
	}
	sig.Return = classDT
	e.fire(sig.ReturnEvent)
}

// destroyBinding abandons b (spec §7 "Propagation": "binding-time errors
// destroy the current Binding and continue").
func (e *Engine) destroyBinding(b *Binding) {
	b.destroyed = true
}

// collectGarbage destroys Templates with no instantiated Class (spec §4.4
// "Termination"). Relations hang off Classes, and a Template destroyed here
// has none, so this sweep never cascades through a Relation.
func (e *Engine) collectGarbage() {
	for _, tmpl := range e.Graph.AllTemplates() {
		if len(tmpl.Classes) == 0 {
			e.Graph.DestroyTemplate(tmpl)
		}
	}
}

// reportUnresolvedEvents reports every Event still carrying waiters, in the
// prescribed order: UndefinedIdent first (root causes), Variable second,
// Signature last (spec §4.4 "Termination").
func (e *Engine) reportUnresolvedEvents() {
	var undefined, variable []*Event
	for _, ev := range e.eventsByKey {
		if len(ev.Waiters) == 0 {
			continue
		}
		switch ev.Kind {
		case EventUndefinedIdent:
			undefined = append(undefined, ev)
		case EventVariable:
			variable = append(variable, ev)
		}
	}

	for _, ev := range undefined {
		key := ev.Key.(identKey)
		e.Diags.Report(UndefinedIdentifier, graph.Pos{}, "undefined identifier %q", key.name)
	}
	for _, ev := range variable {
		v := ev.Key.(*graph.Variable)
		e.Diags.Report(UndeterminedType, v.Pos, "variable %s never acquired a concrete type", v.Name)
	}

	// Signature Return Events are owned by their Signature, not registered
	// in eventsByKey (a Signature's identity already pins it); sweep the
	// Signature Table directly for any left unbound with pending waiters.
	for _, sig := range e.Sigs.All() {
		if !sig.Bound && len(sig.ReturnEvent.Waiters) > 0 {
			e.Diags.Report(UndeterminedReturn, graph.Pos{}, "signature %s never acquired a return type", sig)
		}
	}
}
