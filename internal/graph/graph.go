// Package graph implements the Program Graph (spec §3, §4.1): the arena-
// backed mutable structure of blocks, functions, templates, classes,
// variables, idents, statements and expressions that the binder drives to a
// fixpoint.
//
// This mirrors the shape of the teacher's internal/ast package (ClassDecl,
// FunctionDecl, FieldDecl, statement/expression node hierarchies) but the
// vocabulary is the spec's: a Block owns Statements and Idents the way a
// DWScript function body owns statements and a symbol table, a Class is a
// concrete instantiation of a Template the way a generic DWScript class
// would specialize per type argument (a feature go-dws does not have, so
// this part is new engineering grounded in that same ownership style).
package graph

import "github.com/cwbudde/go-binder/internal/token"

// NodeID is a stable arena index (spec §9 "Arenas + indices": cross-
// references use indices rather than direct pointers because template
// garbage collection destroys large subgraphs).
type NodeID uint64

// Graph owns every arena in the Program Graph and hands out fresh NodeIDs.
// The binder and the Transformer Executor are the only two components
// permitted to call its mutation primitives (spec §4.1).
type Graph struct {
	nextID NodeID

	Root *Block

	blocks     map[NodeID]*Block
	functions  map[NodeID]*Function
	templates  map[NodeID]*Template
	classes    map[NodeID]*Class
	variables  map[NodeID]*Variable
	idents     map[NodeID]*Ident
	statements map[NodeID]*Statement
}

// New creates an empty Program Graph with a Root block.
func New() *Graph {
	g := &Graph{
		blocks:     make(map[NodeID]*Block),
		functions:  make(map[NodeID]*Function),
		templates:  make(map[NodeID]*Template),
		classes:    make(map[NodeID]*Class),
		variables:  make(map[NodeID]*Variable),
		idents:     make(map[NodeID]*Ident),
		statements: make(map[NodeID]*Statement),
	}
	g.Root = g.NewBlock(BlockOwnerRoot, nil)
	return g
}

func (g *Graph) alloc() NodeID {
	g.nextID++
	return g.nextID
}

// AllFunctions returns every live Function in unspecified order.
func (g *Graph) AllFunctions() []*Function {
	out := make([]*Function, 0, len(g.functions))
	for _, f := range g.functions {
		out = append(out, f)
	}
	return out
}

// AllTemplates returns every live Template in unspecified order.
func (g *Graph) AllTemplates() []*Template {
	out := make([]*Template, 0, len(g.templates))
	for _, t := range g.templates {
		out = append(out, t)
	}
	return out
}

// AllClasses returns every live Class in unspecified order.
func (g *Graph) AllClasses() []*Class {
	out := make([]*Class, 0, len(g.classes))
	for _, c := range g.classes {
		out = append(out, c)
	}
	return out
}

// BlockOwnerKind classifies what a Block is attached to.
type BlockOwnerKind int

const (
	BlockOwnerRoot BlockOwnerKind = iota
	BlockOwnerFunction
	BlockOwnerClass
)

// Block is an ordered sequence of Statements plus a set of Idents (spec §3).
type Block struct {
	ID NodeID

	OwnerKind BlockOwnerKind
	Parent    *Block // lexical parent for scope walks; nil for Root

	Statements []*Statement
	Variables  []*Variable
	Idents     map[string]*Ident // case-sensitive; callers normalize if needed

	// OwnerFunction/OwnerClass back-reference the Function or Class this
	// block is the body of, when OwnerKind says so.
	OwnerFunction *Function
	OwnerClass    *Class
}

// NewBlock allocates a fresh Block owned by the given parent scope.
func (g *Graph) NewBlock(ownerKind BlockOwnerKind, parent *Block) *Block {
	b := &Block{
		ID:        g.alloc(),
		OwnerKind: ownerKind,
		Parent:    parent,
		Idents:    make(map[string]*Ident),
	}
	g.blocks[b.ID] = b
	return b
}

// Pos is attached to every node that can be the target of a diagnostic.
// The HIR builder (out of scope, spec §1/§6) is contractually required to
// stamp these as it constructs the graph; the binder never invents one.
type Pos = token.Position
