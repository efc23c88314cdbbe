package binder

import (
	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// bindOne offers expr to the Expression Binder (spec §4.5): it is the
// per-expression-kind typing-rule dispatcher. Children have already been
// bound (post-order), except for the special-ordering forms (Dot,
// NamedParam, Assign, Modint) which this function re-queues explicitly.
func (e *Engine) bindOne(b *Binding, expr graph.Expression) Outcome {
	switch n := expr.(type) {
	case *graph.LiteralExpr:
		return e.bindLiteral(n)
	case *graph.IdentExpr:
		return e.bindIdent(b, n)
	case *graph.DotExpr:
		return e.bindDot(b, n)
	case *graph.NamedParamExpr:
		n.SetDatatype(n.Value.Datatype())
		return OK
	case *graph.BinaryExpr:
		return e.bindBinary(b, n)
	case *graph.UnaryExpr:
		return e.bindUnary(n)
	case *graph.CastExpr:
		return e.bindCast(n)
	case *graph.SelectExpr:
		return e.bindSelect(n)
	case *graph.SliceExpr:
		return e.bindSlice(n)
	case *graph.IndexExpr:
		return e.bindIndex(n)
	case *graph.CallExpr:
		return e.bindCall(b, n)
	case *graph.NullExpr:
		return e.bindNull(n)
	case *graph.ArrayofExpr:
		return e.bindArrayof(n)
	case *graph.TypeofExpr:
		n.SetDatatype(n.Value.Datatype())
		n.SetIsType(true)
		return OK
	case *graph.WidthofExpr:
		return e.bindWidthof(n)
	case *graph.IsnullExpr:
		return e.bindIsnull(n)
	case *graph.AggregateExpr:
		return e.bindAggregate(n)
	case *graph.TemplateInstExpr:
		return e.bindTemplateInst(n)
	case *graph.FuncaddrExpr:
		return e.bindFuncaddr(n)
	case *graph.AssignExpr:
		return e.bindAssign(b, n)
	case *graph.ModintExpr:
		return e.bindModint(b, n)
	default:
		e.Diags.Report(Internal, expr.Pos(), "unhandled expression kind %v", expr.Kind())
		return Failed
	}
}

// bindLiteral implements spec rule 1.
func (e *Engine) bindLiteral(n *graph.LiteralExpr) Outcome {
	var dt *types.Datatype
	var err error
	switch n.Kind() {
	case graph.ExprIntLiteral:
		width := n.Width
		if width == 0 {
			width = 32
		}
		if n.Signed {
			dt, err = e.Types.Int(width, false)
		} else {
			dt, err = e.Types.Uint(width, false)
		}
		n.SetAutocast(n.Width == 0)
	case graph.ExprFloatLiteral:
		width := n.Width
		if width == 0 {
			width = 64
		}
		dt, err = e.Types.Float(width, false)
		n.SetAutocast(n.Width == 0)
	case graph.ExprBoolLiteral:
		dt = e.Types.Bool(false)
	case graph.ExprStringLiteral:
		dt = e.Types.String(false)
	case graph.ExprRandUintLiteral:
		width := n.Width
		if width == 0 {
			width = 32
		}
		dt, err = e.Types.Uint(width, true) // secret, per spec rule 1
	}
	if err != nil {
		e.Diags.Report(SyntaxAtBindTime, n.Pos(), "%v", err)
		return Failed
	}
	n.SetDatatype(dt)
	n.SetConst(true)
	return OK
}

// bindIdent implements spec rule 2.
func (e *Engine) bindIdent(b *Binding, n *graph.IdentExpr) Outcome {
	if n.Ident == nil {
		scope := n.Scope
		if scope == nil {
			scope = b.currentScope()
		}
		id, ok := graph.Find(scope, n.Name)
		if !ok {
			id = e.Graph.NewIdent(scope, n.Name)
			ev := e.undefinedIdentEvent(scope, n.Name)
			e.parkOn(ev, b)
			n.Ident = id
			return Blocked
		}
		n.Ident = id
	}

	switch n.Ident.Target {
	case graph.IdentUndefined:
		ev := e.undefinedIdentEvent(n.Ident.Block, n.Ident.Name)
		e.parkOn(ev, b)
		return Blocked
	case graph.IdentFunction:
		fn := n.Ident.Function
		if fn.Template != nil {
			n.SetDatatype(e.Types.Template(fn.Template))
		} else {
			n.SetDatatype(e.Types.Function(fn))
		}
		n.SetIsType(fn.Kind == graph.FuncStruct || fn.Kind == graph.FuncEnum)
		return OK
	default: // IdentVariable
		v := n.Ident.Variable
		if v.Datatype == nil || (!v.Datatype.Concrete() && !n.IsLhs()) {
			ev := e.variableEvent(v)
			e.parkOn(ev, b)
			return Blocked
		}
		n.SetDatatype(v.Datatype)
		n.SetIsType(v.IsType)
		return OK
	}
}

// currentScope returns the lexical scope a Binding's work is happening in:
// the owning Function's body block for a statement Binding, or the
// Variable/Function's declaring block for the other kinds.
func (b *Binding) currentScope() *graph.Block {
	switch b.Kind {
	case BindingStatement:
		return b.Statement.Block
	case BindingDefaultValue:
		return b.Variable.Block
	case BindingVarConstraint:
		return b.Variable.Block
	case BindingFuncConstraint:
		return b.Function.Block
	}
	return nil
}

// bindDot implements spec rule 16: the right identifier is bound only after
// the left child's datatype names the scope block to search.
func (e *Engine) bindDot(b *Binding, n *graph.DotExpr) Outcome {
	if n.Left.Datatype() == nil {
		// Left has not been processed as part of the normal queue walk
		// (flattenPostOrder skips queuing DotExpr's right child but still
		// queues Left); if this fires, Left genuinely isn't ready yet.
		e.Diags.Report(Internal, n.Pos(), "dot: left operand not yet bound")
		return Failed
	}

	leftDT := n.Left.Datatype()
	scope, nullable := e.scopeBlockOf(leftDT)
	if scope == nil {
		e.Diags.Report(TypeMismatch, n.Pos(), "type %s has no member scope", leftDT)
		return Failed
	}

	n.Right.Scope = scope
	n.Right.SetIsLhs(n.IsLhs())
	outcome := e.bindOne(b, n.Right)
	if outcome != OK {
		return outcome
	}

	dt := n.Right.Datatype()
	if nullable && dt != nil {
		// Auto-unwrap: accessing a member through a nullable Class receiver
		// does not itself carry the nullable bit forward onto the member.
		if cleared, err := e.Types.SetNullable(dt, false); err == nil {
			dt = cleared
		}
	}
	n.SetDatatype(dt)
	return OK
}

// scopeBlockOf resolves the member-lookup scope Block for dt (spec rule 16:
// "Class sub-block, Template function block, Enum/Struct/Module/Package
// sub-block, or built-in template sub-block for primitive method calls").
func (e *Engine) scopeBlockOf(dt *types.Datatype) (*graph.Block, bool) {
	switch dt.Kind() {
	case types.KindClass:
		if c, ok := dt.Owner().(*graph.Class); ok {
			return c.Block, dt.Nullable()
		}
	case types.KindTemplate:
		if t, ok := dt.Owner().(*graph.Template); ok {
			return t.Constructor.Block, false
		}
	case types.KindStruct, types.KindEnumclass, types.KindEnum:
		if fn, ok := dt.Owner().(*graph.Function); ok {
			return fn.Block, false
		}
	default:
		if tmpl, ok := e.Types.FindTemplate(dt); ok {
			if t, ok := tmpl.(*graph.Template); ok {
				return t.Constructor.Block, false
			}
		}
	}
	return nil, false
}

// bindBinary covers spec rules 3-9 (arithmetic, bitwise, shift, exponent,
// relational, equality, logical).
func (e *Engine) bindBinary(b *Binding, n *graph.BinaryExpr) Outcome {
	l, r := n.Left, n.Right
	ldt, rdt := l.Datatype(), r.Datatype()
	if ldt == nil || rdt == nil {
		e.Diags.Report(Internal, n.Pos(), "binary: operand not yet bound")
		return Failed
	}

	// Operator-overload resolution is attempted first whenever either
	// operand is a Class (spec rule 24); only on a miss do the built-in
	// rules below apply.
	if ldt.Kind() == types.KindClass || rdt.Kind() == types.KindClass {
		if dt, ok, outcome := e.tryOperatorOverload(b, n); ok {
			n.SetDatatype(dt)
			return outcome
		}
	}

	switch n.Kind() {
	case graph.ExprAdd, graph.ExprSub, graph.ExprMul, graph.ExprDiv,
		graph.ExprAddAssign, graph.ExprSubAssign, graph.ExprMulAssign, graph.ExprDivAssign:
		return e.bindArithmetic(n, l, r, ldt, rdt)
	case graph.ExprBitOr:
		if ldt.Kind() == types.KindTemplate && rdt.Kind() == types.KindTemplate {
			// Type-union constructor (spec rule 4): result is a type
			// expression with datatype None.
			n.SetDatatype(e.Types.None())
			n.SetIsType(true)
			return OK
		}
		return e.bindBitwise(n, l, r, ldt, rdt)
	case graph.ExprBitAnd, graph.ExprBitXor,
		graph.ExprBitOrAssign, graph.ExprBitAndAssign, graph.ExprBitXorAssign:
		return e.bindBitwise(n, l, r, ldt, rdt)
	case graph.ExprShiftLeft, graph.ExprShiftRight, graph.ExprRotateLeft, graph.ExprRotateRight:
		return e.bindShift(n, ldt, rdt)
	case graph.ExprExponent:
		return e.bindExponent(n, ldt, rdt)
	case graph.ExprLess, graph.ExprLessEq, graph.ExprGreater, graph.ExprGreaterEq:
		return e.bindRelational(n, ldt, rdt)
	case graph.ExprEqual, graph.ExprNotEqual:
		return e.bindEquality(n, ldt, rdt)
	case graph.ExprAnd, graph.ExprOr, graph.ExprXor:
		return e.bindLogical(n, ldt, rdt)
	}
	e.Diags.Report(Internal, n.Pos(), "unhandled binary kind %v", n.Kind())
	return Failed
}

func (e *Engine) bindArithmetic(n *graph.BinaryExpr, l, r graph.Expression, ldt, rdt *types.Datatype) Outcome {
	ldt, rdt = e.autocastPair(l, r, ldt, rdt)

	if ldt.Kind() == types.KindString && rdt.Kind() == types.KindString && n.Kind() == graph.ExprAdd {
		n.SetDatatype(e.Types.String(ldt.Secret() || rdt.Secret()))
		return OK
	}
	if ldt.Kind() == types.KindArray && rdt.Kind() == types.KindArray && n.Kind() == graph.ExprAdd {
		dt, err := e.Types.Unify(ldt, rdt)
		if err != nil {
			e.Diags.Report(TypeMismatch, n.Pos(), "array concat: %v", err)
			return Failed
		}
		n.SetDatatype(dt)
		return OK
	}

	if !numericKind(ldt.Kind()) || !numericKind(rdt.Kind()) {
		e.Diags.Report(TypeMismatch, n.Pos(), "arithmetic operand must be numeric, got %s and %s", ldt, rdt)
		return Failed
	}
	if ldt.Kind() == types.KindFloat && rdt.Kind() == types.KindFloat {
		if ldt.Width() != rdt.Width() {
			e.Diags.Report(TypeMismatch, n.Pos(), "float width mismatch: %s vs %s", ldt, rdt)
			return Failed
		}
		n.SetDatatype(floatResult(e, ldt, rdt))
		return OK
	}
	if ldt.Kind() != rdt.Kind() || ldt.Width() != rdt.Width() {
		e.Diags.Report(TypeMismatch, n.Pos(), "integer operands must agree in width and signedness: %s vs %s", ldt, rdt)
		return Failed
	}
	dt, err := e.Types.Unify(ldt, rdt)
	if err != nil {
		e.Diags.Report(TypeMismatch, n.Pos(), "%v", err)
		return Failed
	}
	n.SetDatatype(dt)
	n.SetAutocast(l.Autocast() && r.Autocast())
	return OK
}

func floatResult(e *Engine, ldt, rdt *types.Datatype) *types.Datatype {
	dt, _ := e.Types.Unify(ldt, rdt)
	return dt
}

func numericKind(k types.Kind) bool {
	return k == types.KindUint || k == types.KindInt || k == types.KindFloat || k == types.KindModint
}

func (e *Engine) bindBitwise(n *graph.BinaryExpr, l, r graph.Expression, ldt, rdt *types.Datatype) Outcome {
	if ldt.Kind() == types.KindString && rdt.Kind() == types.KindString && n.Kind() == graph.ExprBitXor {
		n.SetDatatype(e.Types.String(ldt.Secret() || rdt.Secret()))
		return OK
	}
	ldt, rdt = e.autocastPair(l, r, ldt, rdt)
	if ldt.Kind() == types.KindFloat || rdt.Kind() == types.KindFloat {
		e.Diags.Report(TypeMismatch, n.Pos(), "bitwise operator rejects Float operands")
		return Failed
	}
	if !numericKind(ldt.Kind()) || !numericKind(rdt.Kind()) || ldt.Width() != rdt.Width() || ldt.Kind() != rdt.Kind() {
		e.Diags.Report(TypeMismatch, n.Pos(), "bitwise operands must match: %s vs %s", ldt, rdt)
		return Failed
	}
	dt, err := e.Types.Unify(ldt, rdt)
	if err != nil {
		e.Diags.Report(TypeMismatch, n.Pos(), "%v", err)
		return Failed
	}
	n.SetDatatype(dt)
	return OK
}

func (e *Engine) bindShift(n *graph.BinaryExpr, ldt, rdt *types.Datatype) Outcome {
	if ldt.Kind() != types.KindUint && ldt.Kind() != types.KindInt {
		e.Diags.Report(TypeMismatch, n.Pos(), "shift LHS must be integer, got %s", ldt)
		return Failed
	}
	if rdt.Kind() != types.KindUint || rdt.Secret() {
		e.Diags.Report(TypeMismatch, n.Pos(), "shift RHS must be non-secret Uint, got %s", rdt)
		return Failed
	}
	n.SetDatatype(ldt)
	return OK
}

func (e *Engine) bindExponent(n *graph.BinaryExpr, ldt, rdt *types.Datatype) Outcome {
	if ldt.Kind() != types.KindUint && ldt.Kind() != types.KindInt && ldt.Kind() != types.KindModint {
		e.Diags.Report(TypeMismatch, n.Pos(), "exponent base must be integer or modint, got %s", ldt)
		return Failed
	}
	if rdt.Kind() != types.KindUint || rdt.Secret() {
		e.Diags.Report(BadSecrecy, n.Pos(), "exponent must be non-secret Uint")
		return Failed
	}
	if ldt.Secret() {
		// Open Question resolution (spec §9): a secret base is rejected
		// alongside the secret exponent, not merely a secret exponent.
		e.Diags.Report(BadSecrecy, n.Pos(), "modular exponentiation rejects a secret base")
		return Failed
	}
	n.SetDatatype(ldt)
	return OK
}

func (e *Engine) bindRelational(n *graph.BinaryExpr, ldt, rdt *types.Datatype) Outcome {
	switch ldt.Kind() {
	case types.KindUint, types.KindInt, types.KindFloat, types.KindString, types.KindArray:
	default:
		e.Diags.Report(TypeMismatch, n.Pos(), "relational operand must be numeric, string, or array")
		return Failed
	}
	if _, err := e.Types.Unify(ldt, rdt); err != nil {
		e.Diags.Report(TypeMismatch, n.Pos(), "%v", err)
		return Failed
	}
	n.SetDatatype(e.Types.Bool(ldt.Secret() || rdt.Secret()))
	return OK
}

func (e *Engine) bindEquality(n *graph.BinaryExpr, ldt, rdt *types.Datatype) Outcome {
	if _, err := e.Types.Unify(ldt, rdt); err != nil {
		e.Diags.Report(TypeMismatch, n.Pos(), "%v", err)
		return Failed
	}
	n.SetDatatype(e.Types.Bool(ldt.Secret() || rdt.Secret()))
	return OK
}

func (e *Engine) bindLogical(n *graph.BinaryExpr, ldt, rdt *types.Datatype) Outcome {
	if ldt.Kind() != types.KindBool || rdt.Kind() != types.KindBool {
		e.Diags.Report(TypeMismatch, n.Pos(), "logical operands must be Bool")
		return Failed
	}
	n.SetDatatype(e.Types.Bool(ldt.Secret() || rdt.Secret()))
	return OK
}

// bindUnary covers spec rules 10-11 (negate/bitnot, not).
func (e *Engine) bindUnary(n *graph.UnaryExpr) Outcome {
	odt := n.Operand.Datatype()
	switch n.Kind() {
	case graph.ExprNegate:
		if odt.Kind() != types.KindUint && odt.Kind() != types.KindInt && odt.Kind() != types.KindFloat {
			e.Diags.Report(TypeMismatch, n.Pos(), "negate requires a number, got %s", odt)
			return Failed
		}
		n.SetDatatype(odt)
		n.SetAutocast(n.Operand.Autocast())
		return OK
	case graph.ExprBitNot:
		if odt.Kind() != types.KindUint && odt.Kind() != types.KindInt {
			e.Diags.Report(TypeMismatch, n.Pos(), "bitnot requires an integer, got %s", odt)
			return Failed
		}
		n.SetDatatype(odt)
		n.SetAutocast(n.Operand.Autocast())
		return OK
	case graph.ExprNot:
		if odt.Kind() != types.KindBool {
			e.Diags.Report(TypeMismatch, n.Pos(), "not requires Bool, got %s", odt)
			return Failed
		}
		n.SetDatatype(odt)
		return OK
	}
	e.Diags.Report(Internal, n.Pos(), "unhandled unary kind %v", n.Kind())
	return Failed
}

// bindCast implements spec rule 12.
func (e *Engine) bindCast(n *graph.CastExpr) Outcome {
	target := n.TargetType.Datatype()
	source := n.Value.Datatype()
	if !castPermitted(target, source) {
		e.Diags.Report(BadCast, n.Pos(), "cannot cast %s to %s", source, target)
		return Failed
	}
	dt, err := e.Types.SetSecret(target, source.Secret())
	if err != nil {
		e.Diags.Report(BadSecrecy, n.Pos(), "%v", err)
		return Failed
	}
	n.SetDatatype(dt)
	return OK
}

func castPermitted(target, source *types.Datatype) bool {
	numberLike := func(k types.Kind) bool {
		return k == types.KindUint || k == types.KindInt || k == types.KindFloat ||
			k == types.KindEnum || k == types.KindEnumclass
	}
	if numberLike(target.Kind()) && numberLike(source.Kind()) {
		return true
	}
	if target.Kind() == types.KindArray && source.Kind() == types.KindString {
		return target.Elem().Kind() == types.KindUint && target.Elem().Width() == 8
	}
	if target.Kind() == types.KindString && source.Kind() == types.KindArray {
		return source.Elem().Kind() == types.KindUint && source.Elem().Width() == 8
	}
	if (target.Kind() == types.KindArray && source.Kind() == types.KindUint) ||
		(target.Kind() == types.KindUint && source.Kind() == types.KindArray) {
		return true
	}
	if target.Kind() == types.KindClass && source.Kind() == types.KindUint {
		return target.Width() == source.Width()
	}
	if target.Kind() == types.KindUint && source.Kind() == types.KindClass {
		return target.Width() == source.Width()
	}
	return false
}

// bindSelect implements spec rule 13.
func (e *Engine) bindSelect(n *graph.SelectExpr) Outcome {
	if n.Cond.Datatype().Kind() != types.KindBool {
		e.Diags.Report(TypeMismatch, n.Pos(), "select condition must be Bool")
		return Failed
	}
	dt, err := e.Types.Unify(n.Then.Datatype(), n.Else.Datatype())
	if err != nil {
		e.Diags.Report(TypeMismatch, n.Pos(), "select branches: %v", err)
		return Failed
	}
	secret := n.Cond.Datatype().Secret() || dt.Secret()
	if secret != dt.Secret() {
		dt, _ = e.Types.SetSecret(dt, true)
	}
	n.SetDatatype(dt)
	return OK
}

// bindSlice implements spec rule 14.
func (e *Engine) bindSlice(n *graph.SliceExpr) Outcome {
	rdt := n.Receiver.Datatype()
	if rdt.Kind() != types.KindArray && rdt.Kind() != types.KindString {
		e.Diags.Report(TypeMismatch, n.Pos(), "slice receiver must be Array or String, got %s", rdt)
		return Failed
	}
	for _, bound := range []graph.Expression{n.Lo, n.Hi} {
		if bound == nil {
			continue
		}
		if bound.Datatype().Kind() != types.KindUint || bound.Datatype().Secret() {
			e.Diags.Report(TypeMismatch, n.Pos(), "slice bound must be non-secret Uint")
			return Failed
		}
	}
	n.SetDatatype(rdt)
	return OK
}

// bindIndex implements spec rule 15.
func (e *Engine) bindIndex(n *graph.IndexExpr) Outcome {
	rdt := n.Receiver.Datatype()
	idt := n.Index.Datatype()

	switch rdt.Kind() {
	case types.KindArray, types.KindString:
		if idt.Kind() != types.KindUint || idt.Secret() {
			e.Diags.Report(TypeMismatch, n.Pos(), "index must be non-secret Uint")
			return Failed
		}
		if rdt.Kind() == types.KindString {
			byteDT, err := e.Types.Uint(8, rdt.Secret()) // indexing a String yields a byte
			if err != nil {
				e.Diags.Report(Internal, n.Pos(), "%v", err)
				return Failed
			}
			n.SetDatatype(byteDT)
		} else {
			n.SetDatatype(rdt.Elem())
		}
		return OK
	case types.KindTuple, types.KindStruct:
		lit, ok := n.Index.(*graph.LiteralExpr)
		if !ok || lit.Kind() != graph.ExprIntLiteral {
			e.Diags.Report(TypeMismatch, n.Pos(), "tuple/struct index must be a literal constant")
			return Failed
		}
		idx := int(lit.IntValue)
		if idx < 0 || idx >= len(rdt.Fields()) {
			e.Diags.Report(TypeMismatch, n.Pos(), "index %d out of bounds for %s", idx, rdt)
			return Failed
		}
		n.SetDatatype(rdt.Fields()[idx])
		return OK
	}
	e.Diags.Report(TypeMismatch, n.Pos(), "cannot index %s", rdt)
	return Failed
}

// bindNull implements spec rule 18.
func (e *Engine) bindNull(n *graph.NullExpr) Outcome {
	dt := n.TargetType.Datatype()
	switch dt.Kind() {
	case types.KindClass:
		nullable, err := e.Types.SetNullable(dt, true)
		if err != nil {
			e.Diags.Report(BadSecrecy, n.Pos(), "%v", err)
			return Failed
		}
		n.SetDatatype(nullable)
		return OK
	case types.KindTemplate:
		tmpl := dt.Owner().(*graph.Template)
		if tmpl.NumTemplateParams != 0 {
			e.Diags.Report(TemplateMisuse, n.Pos(), "null(%s) requires a concrete class", dt)
			return Failed
		}
		if len(tmpl.Classes) == 0 {
			e.Diags.Report(TemplateMisuse, n.Pos(), "null(%s): template has no default class yet", dt)
			return Failed
		}
		classDT, err := e.Types.Class(tmpl.Classes[0], tmpl.RefWidth, true)
		if err != nil {
			e.Diags.Report(Internal, n.Pos(), "%v", err)
			return Failed
		}
		n.SetDatatype(classDT)
		return OK
	default:
		n.SetDatatype(dt)
		return OK
	}
}

// bindArrayof implements spec rule 19.
func (e *Engine) bindArrayof(n *graph.ArrayofExpr) Outcome {
	dt := n.ElementType.Datatype()
	if dt.Kind() == types.KindTemplate {
		tmpl := dt.Owner().(*graph.Template)
		if len(tmpl.Classes) == 0 {
			e.Diags.Report(TemplateMisuse, n.Pos(), "arrayof(%s): template has no default class yet", dt)
			return Failed
		}
		var err error
		dt, err = e.Types.Class(tmpl.Classes[0], tmpl.RefWidth, false)
		if err != nil {
			e.Diags.Report(Internal, n.Pos(), "%v", err)
			return Failed
		}
	}
	n.SetDatatype(e.Types.Array(dt))
	return OK
}

// bindWidthof implements spec rule 21.
func (e *Engine) bindWidthof(n *graph.WidthofExpr) Outcome {
	dt := n.Value.Datatype()
	if !numericKind(dt.Kind()) {
		e.Diags.Report(TypeMismatch, n.Pos(), "widthof requires a number, got %s", dt)
		return Failed
	}
	uint32T, _ := e.Types.Uint(32, false)
	n.SetDatatype(uint32T)
	n.Value.SetInstantiating(false)
	return OK
}

// bindIsnull implements spec rule 22.
func (e *Engine) bindIsnull(n *graph.IsnullExpr) Outcome {
	if n.Value.Datatype().Kind() != types.KindClass {
		e.Diags.Report(TypeMismatch, n.Pos(), "isnull requires a Class, got %s", n.Value.Datatype())
		return Failed
	}
	n.SetDatatype(e.Types.Bool(false))
	return OK
}

// bindAggregate implements spec rule 23 (Tuple/List/Array literal).
func (e *Engine) bindAggregate(n *graph.AggregateExpr) Outcome {
	if n.Kind() == graph.ExprTupleLiteral {
		fields := make([]*types.Datatype, len(n.Elements))
		for i, el := range n.Elements {
			fields[i] = el.Datatype()
		}
		n.SetDatatype(e.Types.Tuple(fields...))
		return OK
	}

	if len(n.Elements) == 0 {
		n.SetDatatype(e.Types.Array(e.Types.None()))
		return OK
	}
	elem := n.Elements[0].Datatype()
	for _, el := range n.Elements[1:] {
		unified, err := e.Types.Unify(elem, el.Datatype())
		if err != nil {
			e.Diags.Report(TypeMismatch, n.Pos(), "array literal: %v", err)
			return Failed
		}
		elem = unified
	}
	n.SetDatatype(e.Types.Array(elem))
	return OK
}

// bindTemplateInst implements spec rule 25.
func (e *Engine) bindTemplateInst(n *graph.TemplateInstExpr) Outcome {
	tdt := n.Template.Datatype()
	if tdt.Kind() != types.KindTemplate {
		e.Diags.Report(TemplateMisuse, n.Pos(), "%s is not a template", tdt)
		return Failed
	}
	tmpl := tdt.Owner().(*graph.Template)

	argTypes := make([]*types.Datatype, len(n.Args))
	for i, a := range n.Args {
		if !a.IsType() && a.Datatype().Kind() != types.KindTemplate {
			e.Diags.Report(TemplateMisuse, n.Pos(), "template argument %d must be a type", i)
			return Failed
		}
		argTypes[i] = a.Datatype()
	}

	sig, ok := e.Sigs.Lookup(tmpl.Constructor, argTypes)
	if !ok {
		sig = e.Sigs.Create(tmpl.Constructor, argTypes)
		e.QueueSignature(sig)
	}

	if sig.ResolvedClass == nil {
		ev := sig.ReturnEvent
		// parking on this Signature's own return event is performed by the
		// caller (bindCall shares this path for the constructor call that
		// template instantiation ultimately resolves to); here we can only
		// report progress, not park, since TemplateInstExpr is not always
		// driven through a Binding with queue access. Implementers wiring
		// the HIR builder drive class creation through the Call path
		// instead; this direct form covers literal `T<args>` type syntax.
		_ = ev
		n.SetDatatype(tdt)
		n.SetIsType(true)
		return OK
	}

	classDT, err := e.Types.Class(sig.ResolvedClass, tmpl.RefWidth, false)
	if err != nil {
		e.Diags.Report(Internal, n.Pos(), "%v", err)
		return Failed
	}
	n.ResolvedClass = sig.ResolvedClass
	n.SetDatatype(classDT)
	return OK
}

// bindFuncaddr implements spec rule 26.
func (e *Engine) bindFuncaddr(n *graph.FuncaddrExpr) Outcome {
	sigAny := n.Call.CallSignature
	sig, ok := sigAny.(*Signature)
	if !ok {
		e.Diags.Report(Internal, n.Pos(), "funcaddr: call did not resolve to a Signature")
		return Failed
	}
	sig.AddressTaken = true
	for _, ps := range sig.Paramspecs {
		ps.Instantiated = true
	}
	ret := sig.Return
	if ret == nil {
		ret = e.Types.None()
	}
	n.SetDatatype(e.Types.Funcptr(ret, sig.ParamTypes...))
	return OK
}

// bindModint implements spec rule 27: p is already bound (queued ahead of
// Value by flattenPostOrder); Value is bound here under the modular
// environment. Every arithmetic node transitively inside Value must see a
// Modint datatype — enforced by each arithmetic sub-expression already
// having been bound against the same child-first walk; this function only
// establishes the outer Modint wrapper.
func (e *Engine) bindModint(b *Binding, n *graph.ModintExpr) Outcome {
	pdt := n.Modulus.Datatype()
	if pdt.Kind() != types.KindUint && pdt.Kind() != types.KindInt {
		e.Diags.Report(TypeMismatch, n.Pos(), "modint modulus must be an integer, got %s", pdt)
		return Failed
	}
	if n.Value.Datatype() == nil {
		outcome := e.bindOne(b, n.Value)
		if outcome != OK {
			return outcome
		}
	}
	n.SetDatatype(e.Types.Modint(n.Modulus, false))
	return OK
}

// autocastPair implements spec "Auto-cast": a literal whose width is
// unspecified retains an autocast flag; when paired with a width-specified
// sibling, the literal's datatype is rewritten in place to match.
func (e *Engine) autocastPair(l, r graph.Expression, ldt, rdt *types.Datatype) (*types.Datatype, *types.Datatype) {
	if ldt.Kind() != rdt.Kind() {
		return ldt, rdt
	}
	if !numericKind(ldt.Kind()) {
		return ldt, rdt
	}
	if l.Autocast() && !r.Autocast() {
		widened := e.widenLiteral(l, rdt)
		return widened, rdt
	}
	if r.Autocast() && !l.Autocast() {
		widened := e.widenLiteral(r, ldt)
		return ldt, widened
	}
	return ldt, rdt
}

// widenLiteral recursively rewrites autocast literal sub-expressions of e to
// datatype target, returning the new datatype (spec "Auto-cast": "through
// constant sub-expressions").
func (e *Engine) widenLiteral(expr graph.Expression, target *types.Datatype) *types.Datatype {
	switch n := expr.(type) {
	case *graph.LiteralExpr:
		n.Width = target.Width()
		if target.Kind() == types.KindInt {
			n.Signed = true
		}
		n.SetDatatype(target)
		return target
	case *graph.UnaryExpr:
		e.widenLiteral(n.Operand, target)
		n.SetDatatype(target)
		return target
	default:
		expr.SetDatatype(target)
		return target
	}
}
