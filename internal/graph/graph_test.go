package graph

import "testing"

func TestNewGraphHasRoot(t *testing.T) {
	g := New()
	if g.Root == nil {
		t.Fatal("expected Root block")
	}
	if g.Root.OwnerKind != BlockOwnerRoot {
		t.Fatalf("Root.OwnerKind = %v, want BlockOwnerRoot", g.Root.OwnerKind)
	}
	if g.Root.Parent != nil {
		t.Fatal("Root.Parent must be nil")
	}
}

func TestNodeIDsAreUnique(t *testing.T) {
	g := New()
	seen := map[NodeID]bool{g.Root.ID: true}
	for i := 0; i < 100; i++ {
		b := g.NewBlock(BlockOwnerFunction, g.Root)
		if seen[b.ID] {
			t.Fatalf("duplicate NodeID %d", b.ID)
		}
		seen[b.ID] = true
	}
}

func TestNewFunctionWiresBodyBlock(t *testing.T) {
	g := New()
	f := g.NewFunction("foo", FuncPlain, LinkageModule, g.Root, Pos{})
	if f.Block == nil {
		t.Fatal("expected body block")
	}
	if f.Block.OwnerFunction != f {
		t.Fatal("body block must back-reference its Function")
	}
	if f.Block.Parent != g.Root {
		t.Fatal("body block must be parented on the declaring scope")
	}
}

func TestNewVariableAppendsToBlock(t *testing.T) {
	g := New()
	f := g.NewFunction("foo", FuncPlain, LinkageModule, g.Root, Pos{})
	v1 := g.NewVariable(f.Block, "a", VarParameter, Pos{})
	v2 := g.NewVariable(f.Block, "b", VarLocal, Pos{})
	if len(f.Block.Variables) != 2 {
		t.Fatalf("len(Variables) = %d, want 2", len(f.Block.Variables))
	}
	if f.Block.Variables[0] != v1 || f.Block.Variables[1] != v2 {
		t.Fatal("variables must append in declaration order")
	}
}

func TestIdentBindingAndRename(t *testing.T) {
	g := New()
	f := g.NewFunction("foo", FuncPlain, LinkageModule, g.Root, Pos{})
	v := g.NewVariable(f.Block, "a", VarLocal, Pos{})
	id := g.NewIdent(f.Block, "a")
	if id.Target != IdentUndefined {
		t.Fatal("fresh Ident must start Undefined")
	}
	id.BindToVariable(v)
	if id.Target != IdentVariable || id.Variable != v {
		t.Fatal("BindToVariable did not take effect")
	}

	g.RenameIdent(id, "a2")
	if _, ok := f.Block.Idents["a"]; ok {
		t.Fatal("old name must be removed")
	}
	if f.Block.Idents["a2"] != id {
		t.Fatal("new name must map to the same Ident")
	}
}

func TestStatementInsertAndRemove(t *testing.T) {
	g := New()
	f := g.NewFunction("foo", FuncPlain, LinkageModule, g.Root, Pos{})
	s1 := g.NewStatement(f.Block, StmtCall, nil, Pos{})
	s2 := g.NewStatement(f.Block, StmtCall, nil, Pos{})
	s3 := &Statement{ID: 9999, Kind: StmtReturn}
	g.InsertStatement(f.Block, s3, 1)

	want := []*Statement{s1, s3, s2}
	if len(f.Block.Statements) != len(want) {
		t.Fatalf("len = %d, want %d", len(f.Block.Statements), len(want))
	}
	for i, s := range want {
		if f.Block.Statements[i] != s {
			t.Fatalf("Statements[%d] = %v, want %v", i, f.Block.Statements[i], s)
		}
	}

	g.RemoveStatement(s3)
	if len(f.Block.Statements) != 2 {
		t.Fatalf("after remove, len = %d, want 2", len(f.Block.Statements))
	}
	for _, s := range f.Block.Statements {
		if s == s3 {
			t.Fatal("s3 should have been removed")
		}
	}
}

func TestFindWalksLexicalAncestors(t *testing.T) {
	g := New()
	outer := g.NewIdent(g.Root, "outer")
	f := g.NewFunction("foo", FuncPlain, LinkageModule, g.Root, Pos{})
	inner := g.NewIdent(f.Block, "inner")

	if got, ok := Find(f.Block, "outer"); !ok || got != outer {
		t.Fatal("Find must walk up to Root")
	}
	if got, ok := Find(f.Block, "inner"); !ok || got != inner {
		t.Fatal("Find must find locally bound idents")
	}
	if _, ok := Find(g.Root, "inner"); ok {
		t.Fatal("Find must not walk down into child scopes")
	}
}

func TestFindInBlockClassMethodInheritance(t *testing.T) {
	g := New()
	ctor := g.NewFunction("Point", FuncConstructor, LinkageModule, g.Root, Pos{})
	tmpl := g.NewTemplate(ctor, 32, 0)

	method := g.NewFunction("dist", FuncPlain, LinkageModule, ctor.Block, Pos{})
	methodIdent := g.NewIdent(ctor.Block, "dist")
	methodIdent.BindToFunction(method)

	class := g.NewClass(tmpl, nil)

	got, ok := FindInBlock(class.Block, "dist")
	if !ok {
		t.Fatal("expected method inheritance lookup to succeed")
	}
	if got.Target != IdentFunction || got.Function != method {
		t.Fatal("expected to resolve the constructor block's method ident")
	}
}

func TestCopyBlockDuplicatesVariablesAndIdents(t *testing.T) {
	g := New()
	ctor := g.NewFunction("Point", FuncConstructor, LinkageModule, g.Root, Pos{})
	x := g.NewVariable(ctor.Block, "x", VarLocal, Pos{})
	xIdent := g.NewIdent(ctor.Block, "x")
	xIdent.BindToVariable(x)
	xUse := g.NewIdentExpr("x", ctor.Block, Pos{})
	xUse.Ident = x.Block.Idents["x"]
	g.NewStatement(ctor.Block, StmtCall, xUse, Pos{})

	tmpl := g.NewTemplate(ctor, 32, 0)
	class := g.NewClass(tmpl, nil)

	if class.Block == ctor.Block {
		t.Fatal("CopyBlock must produce a distinct Block")
	}
	if len(class.Block.Variables) != 1 {
		t.Fatalf("len(Variables) = %d, want 1", len(class.Block.Variables))
	}
	cv := class.Block.Variables[0]
	if cv == x {
		t.Fatal("copied Variable must be a fresh identity")
	}
	if cv.Name != "x" {
		t.Fatalf("copied Variable.Name = %q, want x", cv.Name)
	}

	cid, ok := class.Block.Idents["x"]
	if !ok {
		t.Fatal("copied block must carry an Ident named x")
	}
	if cid == xIdent {
		t.Fatal("copied Ident must be a fresh identity")
	}
	if cid.Variable != cv {
		t.Fatal("copied Ident must point at the copied Variable, not the original")
	}

	if len(class.Block.Statements) != 1 {
		t.Fatalf("len(Statements) = %d, want 1", len(class.Block.Statements))
	}
	copiedUse, ok := class.Block.Statements[0].Root.(*IdentExpr)
	if !ok {
		t.Fatal("copied statement root must be an IdentExpr")
	}
	if copiedUse == xUse {
		t.Fatal("copied expression must be a fresh identity")
	}
}

func TestDestroyTemplateRemovesClasses(t *testing.T) {
	g := New()
	ctor := g.NewFunction("Box", FuncConstructor, LinkageModule, g.Root, Pos{})
	tmpl := g.NewTemplate(ctor, 16, 0)
	class := g.NewClass(tmpl, nil)

	g.DestroyTemplate(tmpl)
	if len(tmpl.Classes) != 0 {
		t.Fatal("DestroyTemplate must clear Classes")
	}
	if _, ok := g.classes[class.ID]; ok {
		t.Fatal("destroyed Class must be removed from the arena")
	}
}
