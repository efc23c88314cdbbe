package binder

import (
	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// Engine owns every piece of binder-run state: the Program Graph and
// Datatype Store it binds over, the Signature Table, the runnable FIFO and
// parked-event sets of the Binding Queue & Scheduler, and the Diagnostic
// Reporter (spec §4.4). It is the binder's one long-lived object per run.
type Engine struct {
	Graph *graph.Graph
	Types *types.Store
	Sigs  *Table
	Diags *Reporter

	ValueEval     ValueEvaluator
	BuiltinBinder BuiltinCallBinder
	Sink          DiagnosticSink

	runnable []*Binding

	// eventsByKey lets fire() find the Event for a given Key without the
	// caller having to thread the *Event through every call site; callers
	// that already hold the Event (e.g. a Signature's own ReturnEvent
	// field) fire it directly instead.
	eventsByKey map[any]*Event

	destroyedSignatures map[*Signature]bool
}

// NewEngine creates an Engine ready to bind g.
func NewEngine(g *graph.Graph, store *types.Store) *Engine {
	return &Engine{
		Graph:               g,
		Types:               store,
		Sigs:                NewTable(),
		Diags:               NewReporter(),
		eventsByKey:         make(map[any]*Event),
		destroyedSignatures: make(map[*Signature]bool),
	}
}

// QueueSignature enqueues every Binding a freshly-created Signature needs:
// one BindingStatement per statement of its Function's body, plus a
// BindingFuncConstraint if a return-type constraint expression is present
// (spec §6 "queue_signature").
func (e *Engine) QueueSignature(sig *Signature) {
	fn := sig.Function

	// Seed every parameter Variable's Datatype from the Signature's key
	// tuple before any statement is queued, so the first IdentExpr naming
	// a parameter resolves instead of blocking forever on a Variable Event
	// nothing would ever fire (spec §4.3: the parameter vector IS the
	// Signature's identity, already known at creation time).
	for i, ps := range sig.Paramspecs {
		if i >= len(fn.Block.Variables) {
			break
		}
		v := fn.Block.Variables[i]
		if ps.Datatype != nil && v.Datatype == nil {
			v.Datatype = ps.Datatype
			if ps.Datatype.Concrete() {
				v.Instantiated = true
				e.fireVariableEvent(v)
			}
		}
	}

	e.queueBlockStatements(sig, fn.Block, false)
	if fn.ReturnConstraint != nil {
		b := newBinding(BindingFuncConstraint, sig)
		b.Function = fn
		b.enqueue(flattenPostOrder(fn.ReturnConstraint)...)
		e.runnable = append(e.runnable, b)
	}
	for i, ps := range sig.Paramspecs {
		if ps.Datatype == nil && i < len(fn.Block.Variables) {
			v := fn.Block.Variables[i]
			if v.Initializer != nil {
				b := newBinding(BindingDefaultValue, sig)
				b.Variable = v
				b.Param = i
				b.enqueue(flattenPostOrder(v.Initializer)...)
				e.runnable = append(e.runnable, b)
			}
		}
	}
}

// QueueStatement enqueues stmt and, recursively, every statement reachable
// through its Sub-block and Cases, for binding under sig (spec §6
// "queue_statement") — used by the Transformer Executor to bind newly-
// injected code and by the Statement Post-processor to enqueue a
// Typeswitch case's body.
func (e *Engine) QueueStatement(sig *Signature, stmt *graph.Statement, instantiating bool) {
	e.queueStatementTree(sig, stmt, instantiating)
}

// queueBlockStatements enqueues every top-level Statement of block (spec
// §4.1 "a Block owns Statements"): the Function's own body on Signature
// creation, or a freshly copied/injected Sub-block.
func (e *Engine) queueBlockStatements(sig *Signature, block *graph.Block, instantiating bool) {
	for _, stmt := range block.Statements {
		e.queueStatementTree(sig, stmt, instantiating)
	}
}

// queueStatementTree enqueues stmt itself, then recurses into its Sub-block
// and Cases — except for a Typeswitch, whose Cases are type-directed
// alternatives the Statement Post-processor selects among at bind time
// (spec §4.6 "Typeswitch"), not statements that are all unconditionally
// bound up front the way an If/Switch/Try/Foreach body is.
func (e *Engine) queueStatementTree(sig *Signature, stmt *graph.Statement, instantiating bool) {
	b := newBinding(BindingStatement, sig)
	b.Statement = &Statement{Node: stmt, Block: stmt.Block, Instantiating: instantiating}
	b.Instantiating = instantiating
	b.enqueue(flattenPostOrder(stmt.Root)...)
	e.runnable = append(e.runnable, b)

	if stmt.Kind == graph.StmtTypeswitch {
		return
	}
	if stmt.Sub != nil {
		e.queueBlockStatements(sig, stmt.Sub, instantiating)
	}
	for _, c := range stmt.Cases {
		e.queueStatementTree(sig, c, instantiating)
	}
}

// QueueExpression appends expr (and its post-order subtree) to binding's
// queue (spec §6 "queue_expression") — used by the HIR builder and the
// Transformer Executor to seed work onto an existing Binding rather than
// creating a new one.
func (e *Engine) QueueExpression(binding *Binding, expr graph.Expression, instantiating bool, isLhs bool) {
	expr.SetIsLhs(isLhs)
	binding.Instantiating = instantiating
	binding.enqueue(flattenPostOrder(expr)...)
}

func (e *Engine) parkOn(ev *Event, b *Binding) {
	ev.Waiters = append(ev.Waiters, b)
}

// fire moves every waiter of ev to the runnable FIFO in parked order and
// destroys the Event record (spec §4.4 "Firing an event").
func (e *Engine) fire(ev *Event) {
	waiters := ev.Waiters
	ev.Waiters = nil
	if ev.Key != nil {
		delete(e.eventsByKey, ev.Key)
	}
	e.runnable = append(e.runnable, waiters...)
}

// variableEvent returns (creating if absent) the Variable Event for v.
func (e *Engine) variableEvent(v *graph.Variable) *Event {
	ev, ok := e.eventsByKey[v]
	if !ok {
		ev = newEvent(EventVariable, v)
		e.eventsByKey[v] = ev
	}
	return ev
}

// undefinedIdentEvent returns (creating if absent) the UndefinedIdent Event
// for name inside block.
func (e *Engine) undefinedIdentEvent(block *graph.Block, name string) *Event {
	key := identKey{block: block, name: name}
	ev, ok := e.eventsByKey[key]
	if !ok {
		ev = newEvent(EventUndefinedIdent, key)
		e.eventsByKey[key] = ev
	}
	return ev
}

// fireVariableEvent fires v's Variable Event if one is parked (spec rule 2,
// "Assignment semantics" firing rule: only on the non-concrete -> concrete
// transition).
func (e *Engine) fireVariableEvent(v *graph.Variable) {
	if ev, ok := e.eventsByKey[v]; ok {
		e.fire(ev)
	}
}

// fireUndefinedIdent fires the UndefinedIdent Event for name in block, if
// one is parked (an Ident in that block just became defined).
func (e *Engine) fireUndefinedIdent(block *graph.Block, name string) {
	key := identKey{block: block, name: name}
	if ev, ok := e.eventsByKey[key]; ok {
		e.fire(ev)
	}
}
