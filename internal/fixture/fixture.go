// Package fixture loads hand-written YAML program-graph fixtures into a
// graph.Graph, for use by the cmd/bindc "check" harness and by this
// package's own tests, rather than assembling a *graph.Graph by hand.
// This is a fixture loader for exercising Bind/BindRPCs in this repo's own
// tests and CLI, not a stand-in for the HIR builder the binder is designed
// to sit behind (spec.md §1/§6): it understands only a small, explicit
// expression DSL, not a real grammar.
package fixture

import (
	"fmt"

	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/token"
	"gopkg.in/yaml.v3"
)

// File is the top-level shape of a fixture document.
type File struct {
	Functions []FunctionDecl `yaml:"functions"`
}

// FunctionDecl describes one Function to create in the root block.
type FunctionDecl struct {
	Name    string       `yaml:"name"`
	Kind    string       `yaml:"kind"`    // "plain", "constructor", "operator", ...
	Linkage string       `yaml:"linkage"` // "module", "rpc", "extern_rpc", ...
	Params  []ParamDecl  `yaml:"params"`
	Returns *string      `yaml:"returns"` // reserved for a future literal return-type syntax
	Body    []StmtDecl   `yaml:"body"`
}

// ParamDecl describes one parameter Variable.
type ParamDecl struct {
	Name string `yaml:"name"`
}

// StmtDecl is a one-key tagged union: exactly one of its fields is set,
// naming the statement kind the key spells.
type StmtDecl struct {
	Return *ExprDecl  `yaml:"return"`
	Print  *ExprDecl  `yaml:"print"`
	Expr   *ExprDecl  `yaml:"expr"`
	If     *IfDecl    `yaml:"if"`
}

// IfDecl describes an If statement's condition and then-body.
type IfDecl struct {
	Cond ExprDecl   `yaml:"cond"`
	Then []StmtDecl `yaml:"then"`
}

// ExprDecl is a one-key tagged union over the small expression DSL this
// loader understands. Exactly one kind field is set; Width may accompany
// Int or Float.
type ExprDecl struct {
	Ident  string     `yaml:"ident"`
	Int    *int64     `yaml:"int"`
	Width  uint32      `yaml:"width"`
	Float  *float64   `yaml:"float"`
	Bool   *bool      `yaml:"bool"`
	String *string    `yaml:"string"`

	Binary *BinaryDecl `yaml:"binary"`
	Unary  *UnaryDecl  `yaml:"unary"`
	Call   *CallDecl   `yaml:"call"`
	Dot    *DotDecl    `yaml:"dot"`
	Assign *AssignDecl `yaml:"assign"`
}

type BinaryDecl struct {
	Op    string   `yaml:"op"`
	Left  ExprDecl `yaml:"left"`
	Right ExprDecl `yaml:"right"`
}

type UnaryDecl struct {
	Op      string   `yaml:"op"`
	Operand ExprDecl `yaml:"operand"`
}

type CallDecl struct {
	Callee ExprDecl   `yaml:"callee"`
	Args   []ExprDecl `yaml:"args"`
}

type DotDecl struct {
	Left  ExprDecl `yaml:"left"`
	Field string   `yaml:"field"`
}

type AssignDecl struct {
	Target ExprDecl `yaml:"target"`
	Value  ExprDecl `yaml:"value"`
}

// Load parses YAML fixture text and builds every declared Function into g's
// root block, returning the Functions in declaration order.
func Load(g *graph.Graph, data []byte, filename string) ([]*graph.Function, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", filename, err)
	}

	b := &builder{g: g, file: filename}
	fns := make([]*graph.Function, 0, len(file.Functions))
	for _, fd := range file.Functions {
		fn, err := b.buildFunction(fd)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

type builder struct {
	g    *graph.Graph
	file string
}

func (b *builder) pos() graph.Pos {
	return token.Position{File: b.file}
}

func (b *builder) buildFunction(fd FunctionDecl) (*graph.Function, error) {
	kind, err := parseFuncKind(fd.Kind)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", fd.Name, err)
	}
	linkage, err := parseLinkage(fd.Linkage)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", fd.Name, err)
	}

	fn := b.g.NewFunction(fd.Name, kind, linkage, b.g.Root, b.pos())
	for _, p := range fd.Params {
		b.g.NewVariable(fn.Block, p.Name, graph.VarParameter, b.pos())
		b.g.NewIdent(fn.Block, p.Name).BindToVariable(fn.Block.Variables[len(fn.Block.Variables)-1])
	}
	fn.NumParams = len(fd.Params)

	ident := b.g.NewIdent(b.g.Root, fd.Name)
	ident.BindToFunction(fn)

	for _, sd := range fd.Body {
		if err := b.buildStatement(fn.Block, sd); err != nil {
			return nil, fmt.Errorf("function %s: %w", fd.Name, err)
		}
	}
	return fn, nil
}

func (b *builder) buildStatement(block *graph.Block, sd StmtDecl) error {
	switch {
	case sd.Return != nil:
		expr, err := b.buildExpr(block, *sd.Return)
		if err != nil {
			return err
		}
		b.g.NewStatement(block, graph.StmtReturn, expr, b.pos())
	case sd.Print != nil:
		expr, err := b.buildExpr(block, *sd.Print)
		if err != nil {
			return err
		}
		b.g.NewStatement(block, graph.StmtPrint, expr, b.pos())
	case sd.Expr != nil:
		expr, err := b.buildExpr(block, *sd.Expr)
		if err != nil {
			return err
		}
		b.g.NewStatement(block, graph.StmtCall, expr, b.pos())
	case sd.If != nil:
		cond, err := b.buildExpr(block, sd.If.Cond)
		if err != nil {
			return err
		}
		stmt := b.g.NewStatement(block, graph.StmtIf, cond, b.pos())
		stmt.Sub = b.g.NewBlock(graph.BlockOwnerFunction, block)
		for _, inner := range sd.If.Then {
			if err := b.buildStatement(stmt.Sub, inner); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("statement has no recognized kind")
	}
	return nil
}

func (b *builder) buildExpr(scope *graph.Block, ed ExprDecl) (graph.Expression, error) {
	switch {
	case ed.Ident != "":
		return b.g.NewIdentExpr(ed.Ident, scope, b.pos()), nil
	case ed.Int != nil:
		width := ed.Width
		if width == 0 {
			width = 32
		}
		return b.g.NewIntLiteral(*ed.Int, width, true, b.pos()), nil
	case ed.Float != nil:
		width := ed.Width
		if width == 0 {
			width = 64
		}
		return b.g.NewFloatLiteral(*ed.Float, width, b.pos()), nil
	case ed.Bool != nil:
		return b.g.NewBoolLiteral(*ed.Bool, b.pos()), nil
	case ed.String != nil:
		return b.g.NewStringLiteral(*ed.String, b.pos()), nil
	case ed.Binary != nil:
		op, err := parseBinaryOp(ed.Binary.Op)
		if err != nil {
			return nil, err
		}
		left, err := b.buildExpr(scope, ed.Binary.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.buildExpr(scope, ed.Binary.Right)
		if err != nil {
			return nil, err
		}
		return b.g.NewBinary(op, left, right, b.pos()), nil
	case ed.Unary != nil:
		op, err := parseUnaryOp(ed.Unary.Op)
		if err != nil {
			return nil, err
		}
		operand, err := b.buildExpr(scope, ed.Unary.Operand)
		if err != nil {
			return nil, err
		}
		return b.g.NewUnary(op, operand, b.pos()), nil
	case ed.Call != nil:
		callee, err := b.buildExpr(scope, ed.Call.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]graph.Expression, 0, len(ed.Call.Args))
		for _, a := range ed.Call.Args {
			ae, err := b.buildExpr(scope, a)
			if err != nil {
				return nil, err
			}
			args = append(args, ae)
		}
		return b.g.NewCall(callee, args, b.pos()), nil
	case ed.Dot != nil:
		left, err := b.buildExpr(scope, ed.Dot.Left)
		if err != nil {
			return nil, err
		}
		right := b.g.NewIdentExpr(ed.Dot.Field, scope, b.pos())
		return b.g.NewDot(left, right, b.pos()), nil
	case ed.Assign != nil:
		target, err := b.buildExpr(scope, ed.Assign.Target)
		if err != nil {
			return nil, err
		}
		value, err := b.buildExpr(scope, ed.Assign.Value)
		if err != nil {
			return nil, err
		}
		return b.g.NewAssign(graph.ExprAssign, target, value, b.pos()), nil
	default:
		return nil, fmt.Errorf("expression has no recognized kind")
	}
}

func parseFuncKind(s string) (graph.FuncKind, error) {
	switch s {
	case "", "plain":
		return graph.FuncPlain, nil
	case "constructor":
		return graph.FuncConstructor, nil
	case "destructor":
		return graph.FuncDestructor, nil
	case "iterator":
		return graph.FuncIterator, nil
	case "operator":
		return graph.FuncOperator, nil
	case "struct":
		return graph.FuncStruct, nil
	case "enum":
		return graph.FuncEnum, nil
	case "module":
		return graph.FuncModule, nil
	case "package":
		return graph.FuncPackage, nil
	case "transformer":
		return graph.FuncTransformer, nil
	case "final":
		return graph.FuncFinal, nil
	default:
		return 0, fmt.Errorf("unknown function kind %q", s)
	}
}

func parseLinkage(s string) (graph.Linkage, error) {
	switch s {
	case "", "module":
		return graph.LinkageModule, nil
	case "package":
		return graph.LinkagePackage, nil
	case "libcall":
		return graph.LinkageLibcall, nil
	case "extern_c":
		return graph.LinkageExternC, nil
	case "extern_rpc":
		return graph.LinkageExternRpc, nil
	case "rpc":
		return graph.LinkageRpc, nil
	case "builtin":
		return graph.LinkageBuiltin, nil
	default:
		return 0, fmt.Errorf("unknown linkage %q", s)
	}
}

func parseBinaryOp(s string) (graph.ExprKind, error) {
	switch s {
	case "+":
		return graph.ExprAdd, nil
	case "-":
		return graph.ExprSub, nil
	case "*":
		return graph.ExprMul, nil
	case "/":
		return graph.ExprDiv, nil
	case "==":
		return graph.ExprEqual, nil
	case "!=":
		return graph.ExprNotEqual, nil
	case "<":
		return graph.ExprLess, nil
	case "<=":
		return graph.ExprLessEq, nil
	case ">":
		return graph.ExprGreater, nil
	case ">=":
		return graph.ExprGreaterEq, nil
	case "&&":
		return graph.ExprAnd, nil
	case "||":
		return graph.ExprOr, nil
	case "&":
		return graph.ExprBitAnd, nil
	case "|":
		return graph.ExprBitOr, nil
	case "^":
		return graph.ExprBitXor, nil
	case "<<":
		return graph.ExprShiftLeft, nil
	case ">>":
		return graph.ExprShiftRight, nil
	default:
		return 0, fmt.Errorf("unknown binary operator %q", s)
	}
}

func parseUnaryOp(s string) (graph.ExprKind, error) {
	switch s {
	case "-":
		return graph.ExprNegate, nil
	case "!":
		return graph.ExprNot, nil
	case "~":
		return graph.ExprBitNot, nil
	default:
		return 0, fmt.Errorf("unknown unary operator %q", s)
	}
}
