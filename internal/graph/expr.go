package graph

import "github.com/cwbudde/go-binder/internal/types"

// ExprKind enumerates the expression-tree node kinds the Expression Binder
// must cover (spec §4.5 "Typing rules").
type ExprKind int

const (
	ExprIntLiteral ExprKind = iota
	ExprFloatLiteral
	ExprBoolLiteral
	ExprStringLiteral
	ExprRandUintLiteral

	ExprIdent
	ExprDot
	ExprNamedParam

	ExprAdd
	ExprSub
	ExprMul
	ExprDiv
	ExprAddAssign
	ExprSubAssign
	ExprMulAssign
	ExprDivAssign

	ExprBitOr // also doubles as the type-union constructor, spec rule 4
	ExprBitAnd
	ExprBitXor
	ExprBitOrAssign
	ExprBitAndAssign
	ExprBitXorAssign

	ExprShiftLeft
	ExprShiftRight
	ExprRotateLeft
	ExprRotateRight

	ExprExponent

	ExprLess
	ExprLessEq
	ExprGreater
	ExprGreaterEq

	ExprEqual
	ExprNotEqual

	ExprAnd
	ExprOr
	ExprXor

	ExprNegate
	ExprBitNot
	ExprNot

	ExprCast
	ExprSelect // b ? x : y
	ExprSlice
	ExprIndex
	ExprCall
	ExprNull
	ExprArrayof
	ExprTypeof
	ExprWidthof
	ExprIsnull

	ExprTupleLiteral
	ExprListLiteral
	ExprArrayLiteral

	ExprTemplateInstantiation
	ExprFuncaddr

	ExprAssign
	ExprModint
)

// Expression is an expression-tree node: a kind, ordered children, a
// nullable datatype, flags, and kind-specific attributes (spec §3).
// Expression is an interface rather than a concrete struct so the graph can
// carry kind-specific payload fields (IntValue, Ident symbol, CallSignature,
// ...) without a single struct accumulating every field every kind might
// ever need - mirroring the way internal/ast's Statement/Expression node
// hierarchy in the teacher is one interface implemented by many node
// structs (internal/ast/classes.go, control_flow.go, ...).
type Expression interface {
	exprNode()
	Kind() ExprKind
	Pos() Pos
	Children() []Expression
	SetChildren([]Expression)

	Datatype() *types.Datatype
	SetDatatype(*types.Datatype)

	IsType() bool
	SetIsType(bool)
	IsLhs() bool
	SetIsLhs(bool)
	Instantiating() bool
	SetInstantiating(bool)
	Autocast() bool
	SetAutocast(bool)
	Const() bool
	SetConst(bool)
}

// BaseExpr is embedded by every concrete expression node and implements the
// common Expression plumbing.
type BaseExpr struct {
	ID       NodeID
	K        ExprKind
	P        Pos
	Kids     []Expression
	DT       *types.Datatype
	FlagType bool
	FlagLhs  bool
	FlagInst bool
	FlagAuto bool
	FlagConst bool

	// Binding is the weak pointer to the Binding currently processing this
	// expression (spec §3 "Expressions carry a weak pointer to the Binding
	// currently processing them"). Opaque to avoid an import cycle.
	Binding any
}

func (b *BaseExpr) exprNode()                       {}
func (b *BaseExpr) Kind() ExprKind                  { return b.K }
func (b *BaseExpr) Pos() Pos                        { return b.P }
func (b *BaseExpr) Children() []Expression          { return b.Kids }
func (b *BaseExpr) SetChildren(c []Expression)      { b.Kids = c }
func (b *BaseExpr) Datatype() *types.Datatype       { return b.DT }
func (b *BaseExpr) SetDatatype(dt *types.Datatype)  { b.DT = dt }
func (b *BaseExpr) IsType() bool                    { return b.FlagType }
func (b *BaseExpr) SetIsType(v bool)                { b.FlagType = v }
func (b *BaseExpr) IsLhs() bool                      { return b.FlagLhs }
func (b *BaseExpr) SetIsLhs(v bool)                  { b.FlagLhs = v }
func (b *BaseExpr) Instantiating() bool              { return b.FlagInst }
func (b *BaseExpr) SetInstantiating(v bool)          { b.FlagInst = v }
func (b *BaseExpr) Autocast() bool                   { return b.FlagAuto }
func (b *BaseExpr) SetAutocast(v bool)               { b.FlagAuto = v }
func (b *BaseExpr) Const() bool                      { return b.FlagConst }
func (b *BaseExpr) SetConst(v bool)                  { b.FlagConst = v }

// LiteralExpr carries the kind-specific literal payload (spec rule 1).
type LiteralExpr struct {
	BaseExpr
	IntValue   int64
	FloatValue float64
	BoolValue  bool
	StringVal  string
	Width      uint32 // explicit width suffix, 0 if unspecified (-> Autocast)
	Signed     bool
}

// IdentExpr names an Ident to resolve (spec rule 2).
type IdentExpr struct {
	BaseExpr
	Name  string
	Scope *Block  // the block to resolve Name in
	Ident *Ident  // filled in once resolved
}

// CallExpr is a function/constructor/method/funcptr call (spec rule 17).
type CallExpr struct {
	BaseExpr
	Callee Expression
	Args   []Expression // positional args followed by NamedParam args

	// CallSignature is the opaque identity of the Signature this call
	// resolved to (a *binder.Signature, set once resolution succeeds).
	CallSignature any
}

// DotExpr is member access `left.right` (spec rule 16).
type DotExpr struct {
	BaseExpr
	Left  Expression
	Right *IdentExpr
}

// NamedParamExpr is `name = value` in a call's argument list.
type NamedParamExpr struct {
	BaseExpr
	Name  string
	Value Expression
}

// CastExpr is `<T>v` (spec rule 12).
type CastExpr struct {
	BaseExpr
	TargetType Expression
	Value      Expression
}

// SelectExpr is the ternary `b ? x : y` (spec rule 13).
type SelectExpr struct {
	BaseExpr
	Cond, Then, Else Expression
}

// SliceExpr is `a[lo:hi]` (spec rule 14).
type SliceExpr struct {
	BaseExpr
	Receiver Expression
	Lo, Hi   Expression
}

// IndexExpr is `a[i]` (spec rule 15).
type IndexExpr struct {
	BaseExpr
	Receiver Expression
	Index    Expression
}

// NullExpr is `null(T)` (spec rule 18).
type NullExpr struct {
	BaseExpr
	TargetType Expression
}

// ArrayofExpr is `arrayof(T)` (spec rule 19).
type ArrayofExpr struct {
	BaseExpr
	ElementType Expression
}

// TypeofExpr/WidthofExpr/IsnullExpr wrap a single child (spec rules 20-22).
type TypeofExpr struct {
	BaseExpr
	Value Expression
}
type WidthofExpr struct {
	BaseExpr
	Value Expression
}
type IsnullExpr struct {
	BaseExpr
	Value Expression
}

// AggregateExpr covers Tuple/List/Array literals (spec rule 23).
type AggregateExpr struct {
	BaseExpr
	Elements []Expression
}

// TemplateInstExpr is `T<args...>` (spec rule 25).
type TemplateInstExpr struct {
	BaseExpr
	Template Expression
	Args     []Expression

	// ResolvedClass is the opaque identity of the looked-up/created Class
	// (a *graph.Class once resolved; left nil until then).
	ResolvedClass *Class
}

// FuncaddrExpr is `&f(...)` (spec rule 26).
type FuncaddrExpr struct {
	BaseExpr
	Call *CallExpr
}

// AssignExpr is `a = v` (spec "Assignment semantics").
type AssignExpr struct {
	BaseExpr
	Target Expression
	Value  Expression
	Op     ExprKind // ExprAssign, or one of the *Assign compound kinds
}

// ModintExpr is `x mod p` (spec rule 27).
type ModintExpr struct {
	BaseExpr
	Modulus Expression
	Value   Expression
}

// BinaryExpr covers every plain binary operator not given its own struct
// above (arithmetic, relational, equality, logical, bitwise, shift,
// exponent): all of them share "two children, one result type" shape.
type BinaryExpr struct {
	BaseExpr
	Left, Right Expression
}

// UnaryExpr covers Negate/BitNot/Not.
type UnaryExpr struct {
	BaseExpr
	Operand Expression
}

func newBase(k ExprKind, pos Pos) BaseExpr { return BaseExpr{K: k, P: pos} }
