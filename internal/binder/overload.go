package binder

import (
	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// operatorMethodName maps a binary ExprKind to the named method an operator
// overload resolves to (spec rule 24: "a `+` operator method, etc.").
func operatorMethodName(kind graph.ExprKind) (string, bool) {
	switch kind {
	case graph.ExprAdd:
		return "+", true
	case graph.ExprSub:
		return "-", true
	case graph.ExprMul:
		return "*", true
	case graph.ExprDiv:
		return "/", true
	case graph.ExprEqual:
		return "==", true
	case graph.ExprNotEqual:
		return "!=", true
	case graph.ExprLess:
		return "<", true
	case graph.ExprGreater:
		return ">", true
	case graph.ExprBitOr:
		return "|", true
	case graph.ExprBitAnd:
		return "&", true
	case graph.ExprBitXor:
		return "^", true
	default:
		return "", false
	}
}

// tryOperatorOverload implements spec rule 24. Every operator whose LHS (or
// sole argument, for unary) is a Class first tries to resolve via a named
// method on the class's sub-block; on a hit, the result is bound as if it
// were a Call to that method. No Class/integer numeric promotion is ever
// applied (spec §9 Open Question resolution), so a miss here always falls
// through to the ordinary built-in rules, never to a promoted retry.
func (e *Engine) tryOperatorOverload(b *Binding, n *graph.BinaryExpr) (*types.Datatype, bool, Outcome) {
	name, ok := operatorMethodName(n.Kind())
	if !ok {
		return nil, false, OK
	}

	self, arg := n.Left, n.Right
	selfDT := self.Datatype()
	if selfDT.Kind() != types.KindClass {
		self, arg = n.Right, n.Left
		selfDT = self.Datatype()
		if selfDT.Kind() != types.KindClass {
			return nil, false, OK
		}
	}

	class, ok := selfDT.Owner().(*graph.Class)
	if !ok {
		return nil, false, OK
	}
	methodIdent, ok := graph.FindInBlock(class.Block, name)
	if !ok || methodIdent.Target != graph.IdentFunction {
		return nil, false, OK
	}

	fn := methodIdent.Function
	argTypes := []*types.Datatype{selfDT, arg.Datatype()}
	sig, ok := e.Sigs.Lookup(fn, argTypes)
	if !ok {
		sig = e.Sigs.Create(fn, argTypes)
		e.QueueSignature(sig)
	}
	if !sig.Bound {
		e.parkOn(sig.ReturnEvent, b)
		return nil, true, Blocked
	}
	return sig.Return, true, OK
}
