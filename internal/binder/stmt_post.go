package binder

import (
	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// postProcessStatement implements spec §4.6, run once a BindingStatement's
// expression queue empties.
func (e *Engine) postProcessStatement(b *Binding) {
	stmt := b.Statement.Node
	switch stmt.Kind {
	case graph.StmtReturn, graph.StmtYield:
		e.postProcessReturn(b, stmt)
	case graph.StmtTypeswitch:
		e.postProcessTypeswitch(b, stmt)
	case graph.StmtIf:
		e.postProcessIf(stmt)
	case graph.StmtSwitch:
		e.postProcessSwitch(stmt)
	case graph.StmtRaise:
		e.postProcessRaise(stmt)
	case graph.StmtForeach:
		e.postProcessForeach(b, stmt)
	case graph.StmtPrint, graph.StmtPrintln, graph.StmtAssert, graph.StmtPanic:
		e.postProcessPrint(b, stmt)
	case graph.StmtRelation, graph.StmtTransform:
		e.executeTransformer(b, stmt)
	}
}

// postProcessReturn implements "Return / Yield": unify the signature's
// return datatype with the expression's (or None), firing the Signature
// Return Event on first concreteness.
func (e *Engine) postProcessReturn(b *Binding, stmt *graph.Statement) {
	sig := b.Signature
	var dt *types.Datatype
	if stmt.Root != nil {
		dt = stmt.Root.Datatype()
	} else {
		dt = e.Types.None()
	}

	if sig.Return == nil {
		sig.Return = dt
	} else {
		unified, err := e.Types.Unify(sig.Return, dt)
		if err != nil {
			e.Diags.Report(TypeMismatch, stmt.Pos, "return type mismatch: %v", err)
			return
		}
		sig.Return = unified
	}

	if sig.Return.Concrete() && !sig.Bound {
		// An early Return concludes the return type before the rest of the
		// function's Bindings necessarily have; fire now so waiters on
		// mutually-recursive calls can proceed (spec scenario 5), final
		// bookkeeping still happens once every Binding of sig completes.
		e.fire(sig.ReturnEvent)
		sig.ReturnEvent = newEvent(EventSignature, sig)
	}
}

// postProcessTypeswitch implements "Typeswitch": scan case-statements
// linearly; the first whose type list contains a datatype-matching entry is
// marked instantiated and its sub-block is enqueued under the current
// Signature.
func (e *Engine) postProcessTypeswitch(b *Binding, stmt *graph.Statement) {
	switchDT := stmt.Root.Datatype()
	for _, c := range stmt.Cases {
		if c.Kind != graph.StmtCase && c.Kind != graph.StmtDefault {
			continue
		}
		matched := c.Kind == graph.StmtDefault
		for _, ct := range c.CaseTypes {
			if ct.Datatype() == switchDT {
				matched = true
				break
			}
		}
		if matched {
			c.Matched = true
			if c.Sub != nil {
				for _, s := range c.Sub.Statements {
					e.QueueStatement(b.Signature, s, b.Instantiating)
				}
			}
			return
		}
	}
	e.Diags.Report(TemplateMisuse, stmt.Pos, "typeswitch: no case matches %s and no default", switchDT)
}

// postProcessIf implements "If": condition must be Bool.
func (e *Engine) postProcessIf(stmt *graph.Statement) {
	if stmt.Root == nil {
		return
	}
	if stmt.Root.Datatype().Kind() != types.KindBool {
		e.Diags.Report(TypeMismatch, stmt.Pos, "if condition must be Bool")
	}
}

// postProcessSwitch implements "Switch": every case expression's datatype
// must equal the switch expression's datatype.
func (e *Engine) postProcessSwitch(stmt *graph.Statement) {
	switchDT := stmt.Root.Datatype()
	for _, c := range stmt.Cases {
		if c.Kind != graph.StmtCase || c.Root == nil {
			continue
		}
		if c.Root.Datatype() != switchDT {
			e.Diags.Report(TypeMismatch, c.Pos, "switch case type must equal %s", switchDT)
		}
	}
}

// postProcessRaise implements "Raise": first argument must be an Enum value.
func (e *Engine) postProcessRaise(stmt *graph.Statement) {
	if stmt.Root == nil || stmt.Root.Datatype().Kind() != types.KindEnum {
		e.Diags.Report(TypeMismatch, stmt.Pos, "raise argument must be an Enum value")
	}
}

// postProcessForeach implements "Foreach": if the iterand is not an
// Iterator function, rewrite to append `.values()` and return REBIND (here
// modeled by directly rewriting and re-enqueuing rather than a literal
// Outcome, since post-processing happens after the Binding's queue already
// emptied).
func (e *Engine) postProcessForeach(b *Binding, stmt *graph.Statement) {
	iterand := stmt.Root
	if iterand == nil {
		return
	}
	dt := iterand.Datatype()
	if dt.Kind() == types.KindFunction {
		if fn, ok := dt.Owner().(*graph.Function); ok && fn.Kind == graph.FuncIterator {
			return
		}
	}

	scope := b.currentScope()
	valuesIdent := e.Graph.NewIdentExpr("values", scope, iterand.Pos())
	dot := e.Graph.NewDot(iterand, valuesIdent, iterand.Pos())
	call := e.Graph.NewCall(dot, nil, iterand.Pos())
	stmt.Root = call
	b.rebuildFrom(call)
	e.runBinding(b)
}

// postProcessPrint implements "Post-print hook" and "Printf-format
// verification".
func (e *Engine) postProcessPrint(b *Binding, stmt *graph.Statement) {
	if stmt.Root == nil {
		return
	}

	if call, ok := stmt.Root.(*graph.CallExpr); ok {
		rewrote := false
		for i, arg := range call.Args {
			dt := arg.Datatype()
			if dt == nil {
				continue
			}
			if dt.Secret() {
				e.Diags.Report(BadSecrecy, arg.Pos(), "cannot print a secret value")
				continue
			}
			if dt.Kind() == types.KindClass {
				scope, _ := e.scopeBlockOf(dt)
				if scope == nil {
					continue
				}
				toStringIdent, ok := graph.FindInBlock(scope, "toString")
				if !ok || toStringIdent.Target != graph.IdentFunction {
					continue
				}
				fn := toStringIdent.Function
				sig, ok := e.Sigs.Lookup(fn, []*types.Datatype{dt})
				if !ok {
					sig = e.Sigs.Create(fn, []*types.Datatype{dt})
					e.QueueSignature(sig)
				}
				nameIdent := e.Graph.NewIdentExpr("toString", scope, arg.Pos())
				nameIdent.Ident = toStringIdent
				nameIdent.SetDatatype(e.Types.Function(fn))
				dotCall := e.Graph.NewDot(arg, nameIdent, arg.Pos())
				rewritten := e.Graph.NewCall(dotCall, nil, arg.Pos())
				rewritten.CallSignature = sig
				if sig.Bound {
					rewritten.SetDatatype(sig.Return)
				}
				call.Args[i] = rewritten
				rewrote = true
			}
		}
		if rewrote {
			b.enqueue(flattenPostOrder(call)...)
			e.runBinding(b)
			return
		}
	}

	e.checkPrintfFormat(stmt)
}

// checkPrintfFormat implements "Printf-format verification": a `%` operator
// whose LHS is a constant String checks format verbs against the tuple on
// the RHS and stores a rewritten, width-annotated format string on the
// owning Statement for the backend.
func (e *Engine) checkPrintfFormat(stmt *graph.Statement) {
	bin, ok := stmt.Root.(*graph.BinaryExpr)
	if !ok {
		return
	}
	lit, ok := bin.Left.(*graph.LiteralExpr)
	if !ok || lit.Kind() != graph.ExprStringLiteral {
		return
	}

	var argTypes []*types.Datatype
	rdt := bin.Right.Datatype()
	if rdt != nil && rdt.Kind() == types.KindTuple {
		argTypes = rdt.Fields()
	} else if rdt != nil {
		argTypes = []*types.Datatype{rdt}
	}

	rewritten, err := verifyFormatString(lit.StringVal, argTypes)
	if err != nil {
		e.Diags.Report(SyntaxAtBindTime, bin.Pos(), "%v", err)
		return
	}
	stmt.PrintfRewritten = rewritten
}
