package graph

// StmtKind enumerates the statement kinds of spec §3.
type StmtKind int

const (
	StmtAssign StmtKind = iota
	StmtCall
	StmtIf
	StmtElseIf
	StmtElse
	StmtSwitch
	StmtCase
	StmtDefault
	StmtTypeswitch
	StmtWhile
	StmtDo
	StmtFor
	StmtForeach
	StmtReturn
	StmtYield
	StmtPrint
	StmtPrintln
	StmtAssert
	StmtPanic
	StmtRaise
	StmtTry
	StmtExcept
	StmtAppendCode
	StmtPrependCode
	StmtRelation
	StmtTransform
	StmtRef
	StmtUnref
	StmtImport
	StmtImportLib
	StmtImportRpc
	StmtUse
)

// Statement is a tree position in a Block (spec §3). It owns one root
// expression and optionally a sub-Block (If/While/For/.../Try bodies,
// Switch/Typeswitch cases).
type Statement struct {
	ID NodeID

	Kind  StmtKind
	Pos   Pos
	Block *Block // owning block

	Root Expression // nullable: the statement's root expression
	Sub  *Block     // nullable: the statement's sub-block (loop/if/try body)

	// Cases holds nested Case/ElseIf/Except statements for
	// Switch/Typeswitch/If-chain/Try, in source order.
	Cases []*Statement

	// CaseTypes holds the literal type-expressions a Typeswitch Case
	// statement matches against (spec §4.6 "Typeswitch").
	CaseTypes []Expression
	Matched   bool // set once a Typeswitch/Switch Case is selected

	// TransformerName/TransformerArgs are filled in for Relation/Transform
	// statements before the Transformer Executor runs (spec §4.7).
	TransformerName string
	TransformerArgs []Expression

	// PrintfRewritten holds the backend-facing rewritten format string once
	// the printf-format verification pass has run (spec §4.5).
	PrintfRewritten string
}

// NewStatement appends a new Statement of kind to block.
func (g *Graph) NewStatement(block *Block, kind StmtKind, root Expression, pos Pos) *Statement {
	s := &Statement{ID: g.alloc(), Kind: kind, Pos: pos, Block: block, Root: root}
	g.statements[s.ID] = s
	block.Statements = append(block.Statements, s)
	return s
}

// InsertStatement inserts stmt into block at index (spec §4.1 "insert...
// Statements"). Appending to the end is InsertStatement(block, stmt, len(block.Statements)).
func (g *Graph) InsertStatement(block *Block, stmt *Statement, index int) {
	stmt.Block = block
	if index < 0 {
		index = 0
	}
	if index > len(block.Statements) {
		index = len(block.Statements)
	}
	block.Statements = append(block.Statements, nil)
	copy(block.Statements[index+1:], block.Statements[index:])
	block.Statements[index] = stmt
	g.statements[stmt.ID] = stmt
}

// RemoveStatement removes stmt from its owning block (spec §4.1 "remove...
// Statements"), used by template garbage collection to unwind
// transformer-injected code (spec §4.7, invariant 4).
func (g *Graph) RemoveStatement(stmt *Statement) {
	block := stmt.Block
	if block == nil {
		return
	}
	for i, s := range block.Statements {
		if s == stmt {
			block.Statements = append(block.Statements[:i], block.Statements[i+1:]...)
			break
		}
	}
	delete(g.statements, stmt.ID)
}
