package graph

// FuncKind enumerates the callable kinds of spec §3 "Function".
type FuncKind int

const (
	FuncPlain FuncKind = iota
	FuncConstructor
	FuncDestructor
	FuncIterator
	FuncOperator
	FuncStruct
	FuncEnum
	FuncModule
	FuncPackage
	FuncTransformer
	FuncFinal
)

// Linkage enumerates the calling-convention / origin of a Function.
type Linkage int

const (
	LinkageModule Linkage = iota
	LinkagePackage
	LinkageLibcall
	LinkageExternC
	LinkageExternRpc
	LinkageRpc
	LinkageBuiltin
)

// Function is a named callable with a sub-Block for its body and a
// type-constraint expression for the return type (spec §3).
type Function struct {
	ID NodeID

	Name    string
	Kind    FuncKind
	Linkage Linkage
	Pos     Pos

	Block *Block // sub-Block for the body; its leading Variables are parameters

	NumParams int // how many of Block.Variables are parameters, in order

	ReturnConstraint Expression // nullable type-constraint expression

	Template *Template // set iff this is a Constructor marked template-instantiable

	// Signatures created against this Function, keyed by parameter-type
	// tuple identity, lives in the binder's Signature Table rather than
	// here, to keep the Program Graph free of binder-internal state
	// (spec §4.3 "owns the paramspecs" is the Signature Table's job, not
	// the Function's).
}

// NewFunction allocates a Function with a fresh body Block parented on
// parentScope (the Block the function is lexically declared in).
func (g *Graph) NewFunction(name string, kind FuncKind, linkage Linkage, parentScope *Block, pos Pos) *Function {
	f := &Function{
		ID:      g.alloc(),
		Name:    name,
		Kind:    kind,
		Linkage: linkage,
		Pos:     pos,
	}
	f.Block = g.NewBlock(BlockOwnerFunction, parentScope)
	f.Block.OwnerFunction = f
	g.functions[f.ID] = f
	return f
}

// Template marks a Constructor Function as template-instantiable (spec §3).
// It owns the set of concrete Classes specialized from it.
type Template struct {
	ID NodeID

	Constructor *Function
	RefWidth    uint32 // bits for class handles, 1..64

	Classes []*Class

	// NumTemplateParams is how many of the constructor's leading parameters
	// participate in class identity (spec §4.5 "Argument binding for
	// Calls": "only parameters declared as template parameters participate
	// in class identity").
	NumTemplateParams int
}

// NewTemplate attaches a Template to constructor, marking it
// template-instantiable.
func (g *Graph) NewTemplate(constructor *Function, refWidth uint32, numTemplateParams int) *Template {
	t := &Template{
		ID:                g.alloc(),
		Constructor:       constructor,
		RefWidth:          refWidth,
		NumTemplateParams: numTemplateParams,
	}
	constructor.Template = t
	g.templates[t.ID] = t
	return t
}

// Class is a concrete instantiation of a Template for a specific Signature
// of its constructor (spec §3). Owns a sub-Block copied from the
// constructor's block into which methods resolve identifiers.
type Class struct {
	ID NodeID

	Template *Template
	Block    *Block // deep copy of the constructor's block

	// Signature is the opaque identity (a *binder.Signature, in practice)
	// of the constructor Signature this Class was created for (spec
	// invariant 3: "c.signature is a Constructor Signature whose return
	// type is Class(c)"). Kept as `any` to avoid an import cycle with the
	// binder package, which in turn imports graph.
	Signature any

	Relations []*Relation // outgoing relations to child templates (§4.7)
}

// NewClass instantiates a Class for template, deep-copying the constructor's
// block (the copy itself, with fresh Idents, is performed by CopyBlock;
// NewClass just wires the shell).
func (g *Graph) NewClass(tmpl *Template, sig any) *Class {
	c := &Class{
		ID:        g.alloc(),
		Template:  tmpl,
		Signature: sig,
	}
	c.Block = g.CopyBlock(tmpl.Constructor.Block, BlockOwnerClass)
	c.Block.OwnerClass = c
	g.classes[c.ID] = c
	tmpl.Classes = append(tmpl.Classes, c)
	return c
}

// Relation links a parent Template to a child Template (spec §4.7), created
// by a Relation-kind Transform statement. Labels and CascadeDelete mirror
// the declarative metadata a transformer attaches to the link.
type Relation struct {
	ID NodeID

	Parent *Template
	Child  *Template
	Labels []string

	CascadeDelete bool

	// InjectedStatements/InjectedFunctions are the nodes the Transformer
	// Executor appended/prepended on behalf of this relation, tracked here
	// so garbage-collecting the relation's templates can remove them too
	// (spec §4.7, invariant 4).
	InjectedStatements []*Statement
	InjectedFunctions  []*Function
}

// NewRelation registers a Relation record linking parent to child.
func (g *Graph) NewRelation(parent, child *Template, labels []string, cascade bool) *Relation {
	r := &Relation{
		ID:            g.alloc(),
		Parent:        parent,
		Child:         child,
		Labels:        append([]string(nil), labels...),
		CascadeDelete: cascade,
	}
	return r
}

// DestroyTemplate destroys tmpl's Classes and, when a Relation says to,
// cascades into child templates (spec invariant 4, §4.4 "Cancellation").
// It returns the Relations whose parent was tmpl; the Scheduler's drain-time
// sweep ignores the returned list and destroys no Bindings or Signatures.
func (g *Graph) DestroyTemplate(tmpl *Template) []*Relation {
	var orphaned []*Relation
	for _, c := range tmpl.Classes {
		for _, rel := range c.Relations {
			orphaned = append(orphaned, rel)
			if rel.CascadeDelete {
				g.DestroyTemplate(rel.Child)
			}
			for _, stmt := range rel.InjectedStatements {
				g.RemoveStatement(stmt)
			}
		}
		delete(g.classes, c.ID)
	}
	tmpl.Classes = nil
	return orphaned
}
