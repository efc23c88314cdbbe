package fixture

import (
	"os"
	"testing"

	"github.com/cwbudde/go-binder/internal/graph"
)

func TestLoadSimpleFunction(t *testing.T) {
	data, err := os.ReadFile("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("reading testdata: %v", err)
	}

	g := graph.New()
	fns, err := Load(g, data, "testdata/simple.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(fns) != 1 {
		t.Fatalf("expected 1 function, got %d", len(fns))
	}

	fn := fns[0]
	if fn.Name != "f" {
		t.Errorf("Name = %q, want %q", fn.Name, "f")
	}
	if fn.NumParams != 1 {
		t.Errorf("NumParams = %d, want 1", fn.NumParams)
	}
	if len(fn.Block.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Block.Statements))
	}
	if fn.Block.Statements[0].Kind != graph.StmtReturn {
		t.Errorf("statement kind = %v, want StmtReturn", fn.Block.Statements[0].Kind)
	}
	ret, ok := fn.Block.Statements[0].Root.(*graph.BinaryExpr)
	if !ok {
		t.Fatalf("return root is %T, want *graph.BinaryExpr", fn.Block.Statements[0].Root)
	}
	if ret.Kind() != graph.ExprAdd {
		t.Errorf("binary kind = %v, want ExprAdd", ret.Kind())
	}
}

func TestLoadRejectsUnknownOperator(t *testing.T) {
	data := []byte(`
functions:
  - name: f
    body:
      - return:
          binary:
            op: "?"
            left: {int: 1}
            right: {int: 2}
`)
	g := graph.New()
	if _, err := Load(g, data, "inline"); err == nil {
		t.Fatal("expected an error for an unknown binary operator")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	g := graph.New()
	if _, err := Load(g, []byte("functions: [this is not a mapping"), "inline"); err == nil {
		t.Fatal("expected a YAML parse error")
	}
}
