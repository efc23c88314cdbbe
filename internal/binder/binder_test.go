package binder

import (
	"testing"

	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

func newTestEngine() (*Engine, *graph.Graph) {
	g := graph.New()
	store := types.NewStore()
	return NewEngine(g, store), g
}

// TestSignatureTableCreateLookup exercises spec §4.3's canonical-key
// identity: the same (Function, parameter-type tuple) must always resolve
// to the same Signature, and a different tuple must not collide with it.
func TestSignatureTableCreateLookup(t *testing.T) {
	e, g := newTestEngine()
	fn := g.NewFunction("f", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
	u32, _ := e.Types.Uint(32, false)
	u64, _ := e.Types.Uint(64, false)

	sig := e.Sigs.Create(fn, []*types.Datatype{u32})
	if found, ok := e.Sigs.Lookup(fn, []*types.Datatype{u32}); !ok || found != sig {
		t.Fatalf("Lookup(u32) did not return the Signature just Created")
	}
	if _, ok := e.Sigs.Lookup(fn, []*types.Datatype{u64}); ok {
		t.Fatalf("Lookup(u64) unexpectedly found a Signature before one was created for it")
	}
	sig2 := e.Sigs.Create(fn, []*types.Datatype{u64})
	if sig2 == sig {
		t.Fatalf("Create(u64) returned the u32 Signature")
	}
}

// TestEventFiresWaitersInOrder exercises spec §4.4's FIFO waiter-list
// firing order.
func TestEventFiresWaitersInOrder(t *testing.T) {
	e, g := newTestEngine()
	fn := g.NewFunction("f", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
	sig := e.Sigs.Create(fn, nil)

	var parked []*Binding
	ev := newEvent(EventSignature, "test-key")
	for i := 0; i < 3; i++ {
		b := newBinding(BindingStatement, sig)
		e.parkOn(ev, b)
		parked = append(parked, b)
	}
	e.fire(ev)
	if len(e.runnable) != 3 {
		t.Fatalf("expected 3 waiters moved to runnable, got %d", len(e.runnable))
	}
	for i, b := range e.runnable {
		if b != parked[i] {
			t.Fatalf("runnable[%d] is not the waiter parked at position %d", i, i)
		}
	}
	if len(ev.Waiters) != 0 {
		t.Fatalf("firing an event must clear its waiter list")
	}
}

// buildAdder constructs `f(x) { return x + 1u32 }` in g's root block and
// returns the Function.
func buildAdder(g *graph.Graph, name string) *graph.Function {
	fn := g.NewFunction(name, graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
	x := g.NewVariable(fn.Block, "x", graph.VarParameter, graph.Pos{})
	g.NewIdent(fn.Block, "x").BindToVariable(x)
	fn.NumParams = 1

	xExpr := g.NewIdentExpr("x", fn.Block, graph.Pos{})
	one := g.NewIntLiteral(1, 32, false, graph.Pos{})
	sum := g.NewBinary(graph.ExprAdd, xExpr, one, graph.Pos{})
	g.NewStatement(fn.Block, graph.StmtReturn, sum, graph.Pos{})

	ident := g.NewIdent(g.Root, name)
	ident.BindToFunction(fn)
	return fn
}

// TestBindSimpleFunctionCall implements the first spec §8 scenario:
// `f = func(x) { return x + 1u32 }; f(2u32)` must resolve f's Signature to
// Uint32 -> Uint32 with no diagnostics.
func TestBindSimpleFunctionCall(t *testing.T) {
	g := graph.New()
	store := types.NewStore()
	f := buildAdder(g, "f")

	caller := g.NewFunction("main", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
	callee := g.NewIdentExpr("f", caller.Block, graph.Pos{})
	arg := g.NewIntLiteral(2, 32, false, graph.Pos{})
	call := g.NewCall(callee, []graph.Expression{arg}, graph.Pos{})
	g.NewStatement(caller.Block, graph.StmtReturn, call, graph.Pos{})
	mainIdent := g.NewIdent(g.Root, "main")
	mainIdent.BindToFunction(caller)

	engine := NewEngine(g, store)
	diags := engine.Bind(g.Root)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	u32, _ := store.Uint(32, false)
	sigs := engine.Sigs.All()
	var fSig *Signature
	for _, s := range sigs {
		if s.Function == f {
			fSig = s
		}
	}
	if fSig == nil {
		t.Fatal("no Signature was created for f")
	}
	if !fSig.Bound {
		t.Fatal("f's Signature never finished binding")
	}
	if fSig.Return == nil || fSig.Return.Kind() != types.KindUint || fSig.Return.Width() != 32 {
		t.Fatalf("f's Return = %v, want Uint32", fSig.Return)
	}
	if len(fSig.ParamTypes) != 1 || fSig.ParamTypes[0].Kind() != types.KindUint {
		t.Fatalf("f's ParamTypes = %v, want [Uint32]", fSig.ParamTypes)
	}
	_ = u32
}

// TestBindUndefinedIdentifierReported checks that a name that never
// resolves is reported in the UndefinedIdentifier bucket once the fixpoint
// drains (spec §4.4 "Termination").
func TestBindUndefinedIdentifierReported(t *testing.T) {
	g := graph.New()
	store := types.NewStore()
	fn := g.NewFunction("f", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
	missing := g.NewIdentExpr("doesNotExist", fn.Block, graph.Pos{})
	g.NewStatement(fn.Block, graph.StmtReturn, missing, graph.Pos{})
	ident := g.NewIdent(g.Root, "f")
	ident.BindToFunction(fn)

	engine := NewEngine(g, store)
	engine.QueueSignature(engine.Sigs.Create(fn, nil))
	engine.run()

	diags := engine.Diags.Diagnostics()
	found := false
	for _, d := range diags {
		if d.Kind == UndefinedIdentifier {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UndefinedIdentifier diagnostic, got %v", diags)
	}
}

// TestBindMutualRecursionReturnType implements spec §8 scenario 5: two
// functions that call each other must still resolve a concrete return
// type, using the early-Return-fires-before-Bound behavior in
// postProcessReturn: a's base-case return concludes a's return type, so
// b's pending call to a proceeds before a's Signature is fully finalized,
// which in turn unblocks a's own call to b.
func TestBindMutualRecursionReturnType(t *testing.T) {
	g := graph.New()
	store := types.NewStore()

	// a(flag) { if flag { return flag }; return b(flag) }
	a := g.NewFunction("a", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
	aFlag := g.NewVariable(a.Block, "flag", graph.VarParameter, graph.Pos{})
	g.NewIdent(a.Block, "flag").BindToVariable(aFlag)
	a.NumParams = 1
	aCond := g.NewIdentExpr("flag", a.Block, graph.Pos{})
	ifStmt := g.NewStatement(a.Block, graph.StmtIf, aCond, graph.Pos{})
	ifStmt.Sub = g.NewBlock(graph.BlockOwnerFunction, a.Block)
	aFlagExpr := g.NewIdentExpr("flag", ifStmt.Sub, graph.Pos{})
	g.NewStatement(ifStmt.Sub, graph.StmtReturn, aFlagExpr, graph.Pos{})
	bCallee := g.NewIdentExpr("b", a.Block, graph.Pos{})
	aArg := g.NewIdentExpr("flag", a.Block, graph.Pos{})
	g.NewStatement(a.Block, graph.StmtReturn, g.NewCall(bCallee, []graph.Expression{aArg}, graph.Pos{}), graph.Pos{})
	g.NewIdent(g.Root, "a").BindToFunction(a)

	// b(flag) { return a(flag) }
	b := g.NewFunction("b", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
	bFlag := g.NewVariable(b.Block, "flag", graph.VarParameter, graph.Pos{})
	g.NewIdent(b.Block, "flag").BindToVariable(bFlag)
	b.NumParams = 1
	aCallee := g.NewIdentExpr("a", b.Block, graph.Pos{})
	bFlagExpr := g.NewIdentExpr("flag", b.Block, graph.Pos{})
	call := g.NewCall(aCallee, []graph.Expression{bFlagExpr}, graph.Pos{})
	g.NewStatement(b.Block, graph.StmtReturn, call, graph.Pos{})
	g.NewIdent(g.Root, "b").BindToFunction(b)

	engine := NewEngine(g, store)
	boolT := store.Bool(false)
	engine.QueueSignature(engine.Sigs.Create(a, []*types.Datatype{boolT}))
	engine.QueueSignature(engine.Sigs.Create(b, []*types.Datatype{boolT}))
	engine.run()

	if engine.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", engine.Diags.Diagnostics())
	}
	bSig, ok := engine.Sigs.Lookup(b, []*types.Datatype{boolT})
	if !ok || !bSig.Bound {
		t.Fatalf("b's Signature never finished binding")
	}
	if bSig.Return == nil || bSig.Return.Kind() != types.KindBool {
		t.Fatalf("b's Return = %v, want Bool", bSig.Return)
	}
	aSig, ok := engine.Sigs.Lookup(a, []*types.Datatype{boolT})
	if !ok || !aSig.Bound {
		t.Fatalf("a's Signature never finished binding")
	}
	if aSig.Return == nil || aSig.Return.Kind() != types.KindBool {
		t.Fatalf("a's Return = %v, want Bool", aSig.Return)
	}
}

// TestRefineAccessRejectsIncompatible implements the "refine-if-compatible"
// Open Question resolution: RefineAccess must leave an incompatible
// existing datatype untouched and report an error rather than overwrite it.
func TestRefineAccessRejectsIncompatible(t *testing.T) {
	e, g := newTestEngine()
	fn := g.NewFunction("f", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
	v := g.NewVariable(fn.Block, "v", graph.VarLocal, graph.Pos{})
	u32, _ := e.Types.Uint(32, false)
	v.Datatype = u32

	boolT := e.Types.Bool(false)
	if err := e.RefineAccess(fn.Block, v, boolT); err == nil {
		t.Fatal("expected RefineAccess to reject an incompatible refinement")
	}
	if v.Datatype != u32 {
		t.Fatal("RefineAccess must not overwrite an incompatible existing datatype")
	}
}

// TestPrintfFormatVerification covers spec §8 scenario 6: a format string's
// verbs must line up with the printed tuple's datatypes, with an inserted
// width on a verb that had none.
func TestPrintfFormatVerification(t *testing.T) {
	store := types.NewStore()
	u32, _ := store.Uint(32, false)
	str := store.String(false)

	rewritten, err := verifyFormatString(`%s = %u`, []*types.Datatype{str, u32})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rewritten != `%s = %u32` {
		t.Fatalf("rewritten = %q, want %q", rewritten, `%s = %u32`)
	}

	if _, err := verifyFormatString(`%f`, []*types.Datatype{u32}); err == nil {
		t.Fatal("expected a type mismatch error for %f against a Uint argument")
	}

	if _, err := verifyFormatString(`%s %s`, []*types.Datatype{str}); err == nil {
		t.Fatal("expected an error when there are more specifiers than arguments")
	}
}

// TestExponentRejectsSecretBase covers the exponent Open Question
// resolution: a secret base is rejected even when the exponent itself is
// not secret.
func TestExponentRejectsSecretBase(t *testing.T) {
	e, g := newTestEngine()
	fn := g.NewFunction("f", graph.FuncPlain, graph.LinkageModule, g.Root, graph.Pos{})
	g.NewIdent(g.Root, "f").BindToFunction(fn)

	secretBase := g.NewRandUintLiteral(32, graph.Pos{})
	exp := g.NewIntLiteral(2, 32, false, graph.Pos{})
	bin := g.NewBinary(graph.ExprExponent, secretBase, exp, graph.Pos{})
	g.NewStatement(fn.Block, graph.StmtReturn, bin, graph.Pos{})

	sig := e.Sigs.Create(fn, nil)
	e.QueueSignature(sig)
	e.run()

	found := false
	for _, d := range e.Diags.Diagnostics() {
		if d.Kind == BadSecrecy {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a BadSecrecy diagnostic for a secret exponent base, got %v", e.Diags.Diagnostics())
	}
}
