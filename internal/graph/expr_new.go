package graph

// This file collects the Expression constructors. Keeping them together
// (rather than scattering one per node-kind file) mirrors the teacher's
// internal/parser/node_builder.go, which centralizes AST node construction
// away from the grammar rules that call it.

func (g *Graph) NewIntLiteral(value int64, width uint32, signed bool, pos Pos) *LiteralExpr {
	e := &LiteralExpr{BaseExpr: newBase(ExprIntLiteral, pos), IntValue: value, Width: width, Signed: signed}
	e.ID = g.alloc()
	return e
}

func (g *Graph) NewFloatLiteral(value float64, width uint32, pos Pos) *LiteralExpr {
	e := &LiteralExpr{BaseExpr: newBase(ExprFloatLiteral, pos), FloatValue: value, Width: width}
	e.ID = g.alloc()
	return e
}

func (g *Graph) NewBoolLiteral(value bool, pos Pos) *LiteralExpr {
	e := &LiteralExpr{BaseExpr: newBase(ExprBoolLiteral, pos), BoolValue: value}
	e.ID = g.alloc()
	return e
}

func (g *Graph) NewStringLiteral(value string, pos Pos) *LiteralExpr {
	e := &LiteralExpr{BaseExpr: newBase(ExprStringLiteral, pos), StringVal: value}
	e.ID = g.alloc()
	return e
}

func (g *Graph) NewRandUintLiteral(width uint32, pos Pos) *LiteralExpr {
	e := &LiteralExpr{BaseExpr: newBase(ExprRandUintLiteral, pos), Width: width}
	e.ID = g.alloc()
	return e
}

func (g *Graph) NewIdentExpr(name string, scope *Block, pos Pos) *IdentExpr {
	e := &IdentExpr{BaseExpr: newBase(ExprIdent, pos), Name: name, Scope: scope}
	e.ID = g.alloc()
	return e
}

func (g *Graph) NewCall(callee Expression, args []Expression, pos Pos) *CallExpr {
	e := &CallExpr{BaseExpr: newBase(ExprCall, pos), Callee: callee, Args: args}
	e.ID = g.alloc()
	e.Kids = append([]Expression{callee}, args...)
	return e
}

func (g *Graph) NewDot(left Expression, right *IdentExpr, pos Pos) *DotExpr {
	e := &DotExpr{BaseExpr: newBase(ExprDot, pos), Left: left, Right: right}
	e.ID = g.alloc()
	e.Kids = []Expression{left, right}
	return e
}

func (g *Graph) NewNamedParam(name string, value Expression, pos Pos) *NamedParamExpr {
	e := &NamedParamExpr{BaseExpr: newBase(ExprNamedParam, pos), Name: name, Value: value}
	e.ID = g.alloc()
	e.Kids = []Expression{value}
	return e
}

func (g *Graph) NewCast(targetType, value Expression, pos Pos) *CastExpr {
	e := &CastExpr{BaseExpr: newBase(ExprCast, pos), TargetType: targetType, Value: value}
	e.ID = g.alloc()
	e.Kids = []Expression{targetType, value}
	return e
}

func (g *Graph) NewSelect(cond, then, els Expression, pos Pos) *SelectExpr {
	e := &SelectExpr{BaseExpr: newBase(ExprSelect, pos), Cond: cond, Then: then, Else: els}
	e.ID = g.alloc()
	e.Kids = []Expression{cond, then, els}
	return e
}

func (g *Graph) NewSlice(receiver, lo, hi Expression, pos Pos) *SliceExpr {
	e := &SliceExpr{BaseExpr: newBase(ExprSlice, pos), Receiver: receiver, Lo: lo, Hi: hi}
	e.ID = g.alloc()
	e.Kids = []Expression{receiver, lo, hi}
	return e
}

func (g *Graph) NewIndex(receiver, index Expression, pos Pos) *IndexExpr {
	e := &IndexExpr{BaseExpr: newBase(ExprIndex, pos), Receiver: receiver, Index: index}
	e.ID = g.alloc()
	e.Kids = []Expression{receiver, index}
	return e
}

func (g *Graph) NewNull(targetType Expression, pos Pos) *NullExpr {
	e := &NullExpr{BaseExpr: newBase(ExprNull, pos), TargetType: targetType}
	e.ID = g.alloc()
	e.Kids = []Expression{targetType}
	return e
}

func (g *Graph) NewArrayof(elementType Expression, pos Pos) *ArrayofExpr {
	e := &ArrayofExpr{BaseExpr: newBase(ExprArrayof, pos), ElementType: elementType}
	e.ID = g.alloc()
	e.Kids = []Expression{elementType}
	return e
}

func (g *Graph) NewTypeof(value Expression, pos Pos) *TypeofExpr {
	e := &TypeofExpr{BaseExpr: newBase(ExprTypeof, pos), Value: value}
	e.ID = g.alloc()
	e.Kids = []Expression{value}
	return e
}

func (g *Graph) NewWidthof(value Expression, pos Pos) *WidthofExpr {
	e := &WidthofExpr{BaseExpr: newBase(ExprWidthof, pos), Value: value}
	e.ID = g.alloc()
	e.Kids = []Expression{value}
	return e
}

func (g *Graph) NewIsnull(value Expression, pos Pos) *IsnullExpr {
	e := &IsnullExpr{BaseExpr: newBase(ExprIsnull, pos), Value: value}
	e.ID = g.alloc()
	e.Kids = []Expression{value}
	return e
}

func (g *Graph) NewAggregate(kind ExprKind, elements []Expression, pos Pos) *AggregateExpr {
	e := &AggregateExpr{BaseExpr: newBase(kind, pos), Elements: elements}
	e.ID = g.alloc()
	e.Kids = elements
	return e
}

func (g *Graph) NewTemplateInst(tmpl Expression, args []Expression, pos Pos) *TemplateInstExpr {
	e := &TemplateInstExpr{BaseExpr: newBase(ExprTemplateInstantiation, pos), Template: tmpl, Args: args}
	e.ID = g.alloc()
	e.Kids = append([]Expression{tmpl}, args...)
	return e
}

func (g *Graph) NewFuncaddr(call *CallExpr, pos Pos) *FuncaddrExpr {
	e := &FuncaddrExpr{BaseExpr: newBase(ExprFuncaddr, pos), Call: call}
	e.ID = g.alloc()
	e.Kids = []Expression{call}
	return e
}

func (g *Graph) NewAssign(op ExprKind, target, value Expression, pos Pos) *AssignExpr {
	e := &AssignExpr{BaseExpr: newBase(op, pos), Target: target, Value: value, Op: op}
	e.ID = g.alloc()
	e.Kids = []Expression{target, value}
	return e
}

func (g *Graph) NewModint(modulus, value Expression, pos Pos) *ModintExpr {
	e := &ModintExpr{BaseExpr: newBase(ExprModint, pos), Modulus: modulus, Value: value}
	e.ID = g.alloc()
	e.Kids = []Expression{modulus, value}
	return e
}

func (g *Graph) NewBinary(kind ExprKind, left, right Expression, pos Pos) *BinaryExpr {
	e := &BinaryExpr{BaseExpr: newBase(kind, pos), Left: left, Right: right}
	e.ID = g.alloc()
	e.Kids = []Expression{left, right}
	return e
}

func (g *Graph) NewUnary(kind ExprKind, operand Expression, pos Pos) *UnaryExpr {
	e := &UnaryExpr{BaseExpr: newBase(kind, pos), Operand: operand}
	e.ID = g.alloc()
	e.Kids = []Expression{operand}
	return e
}
