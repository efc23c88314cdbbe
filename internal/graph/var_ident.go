package graph

import "github.com/cwbudde/go-binder/internal/types"

// VarKind enumerates the Variable kinds of spec §3.
type VarKind int

const (
	VarParameter VarKind = iota
	VarLocal
	VarGlobalArray
	VarEnumEntry
)

// Variable is owned by a Block: name, kind, optional initializer and
// type-constraint expressions, and the flag bits spec §3 lists.
type Variable struct {
	ID NodeID

	Name  string
	Kind  VarKind
	Block *Block // owning block
	Pos   Pos

	Initializer      Expression // nullable
	TypeConstraint   Expression // nullable ("x: T = v" form)
	Const            bool
	IsType           bool // carries a type rather than a value
	Instantiated     bool // storage will exist at runtime (spec invariant 5: monotone)
	HasDefaultLookup bool // a DefaultValue Binding is pending for Initializer

	Datatype *types.Datatype // nil until bound; monotone toward concrete
}

// NewVariable creates a Variable as the next slot in block (spec §4.1
// "create a Variable in a Block").
func (g *Graph) NewVariable(block *Block, name string, kind VarKind, pos Pos) *Variable {
	v := &Variable{
		ID:    g.alloc(),
		Name:  name,
		Kind:  kind,
		Block: block,
		Pos:   pos,
	}
	block.Variables = append(block.Variables, v)
	g.variables[v.ID] = v
	return v
}

// IdentTarget is what an Ident currently resolves to.
type IdentTarget int

const (
	IdentUndefined IdentTarget = iota
	IdentVariable
	IdentFunction
)

// Ident is a name bound inside a Block to a Variable, a Function, or left
// Undefined (spec §3). A later definition reaches waiting Expressions through
// the binder's UndefinedIdent Event, not through Uses.
type Ident struct {
	ID NodeID

	Name   string
	Block  *Block
	Target IdentTarget

	Variable *Variable
	Function *Function

	// Uses is a back-reference slot for Expressions naming this Ident;
	// nothing in this module populates it.
	Uses []Expression
}

// NewIdent binds name in block, initially Undefined (spec §4.5.2: "Undefined
// idents allocate an UndefinedIdent record in the current block").
func (g *Graph) NewIdent(block *Block, name string) *Ident {
	id := &Ident{
		ID:     g.alloc(),
		Name:   name,
		Block:  block,
		Target: IdentUndefined,
	}
	block.Idents[name] = id
	g.idents[id.ID] = id
	return id
}

// BindToVariable resolves ident to v. It fires no Event itself; the binder
// fires the matching UndefinedIdent Event explicitly when it defines a name.
func (ident *Ident) BindToVariable(v *Variable) {
	ident.Target = IdentVariable
	ident.Variable = v
	ident.Function = nil
}

// BindToFunction resolves ident to f.
func (ident *Ident) BindToFunction(f *Function) {
	ident.Target = IdentFunction
	ident.Function = f
	ident.Variable = nil
}

// RenameIdent renames ident within its owning block's Idents map (spec
// §4.1 "rename an Ident").
func (g *Graph) RenameIdent(ident *Ident, newName string) {
	delete(ident.Block.Idents, ident.Name)
	ident.Name = newName
	ident.Block.Idents[newName] = ident
}
