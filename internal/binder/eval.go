package binder

import (
	"fmt"

	"github.com/cwbudde/go-binder/internal/graph"
)

// evalTransformerParam is the small compile-time expression evaluator spec
// §4.7 calls for: integer/float arithmetic, string concatenation, bool
// equality, lookup of earlier parameter names, and modular reduction. Dot
// and dotted-path expressions have no case here and are reported as not
// compile-time evaluable. It is intentionally
// narrower than the general ValueEvaluator collaborator (spec §6), which
// external callers may supply instead when richer evaluation is needed;
// this is the binder's own fallback so the Transformer Executor works
// without an external collaborator wired in.
func evalTransformerParam(env map[string]Value, expr graph.Expression) (Value, error) {
	switch n := expr.(type) {
	case *graph.LiteralExpr:
		switch n.Kind() {
		case graph.ExprIntLiteral:
			return Value{Kind: ValueInt, Int: n.IntValue}, nil
		case graph.ExprFloatLiteral:
			return Value{Kind: ValueFloat, Float: n.FloatValue}, nil
		case graph.ExprBoolLiteral:
			return Value{Kind: ValueBool, Bool: n.BoolValue}, nil
		case graph.ExprStringLiteral:
			return Value{Kind: ValueString, String: n.StringVal}, nil
		}
	case *graph.IdentExpr:
		if v, ok := env[n.Name]; ok {
			return v, nil
		}
		return Value{}, fmt.Errorf("transformer parameter %q not bound", n.Name)
	case *graph.BinaryExpr:
		return evalBinary(env, n)
	case *graph.ModintExpr:
		v, err := evalTransformerParam(env, n.Value)
		if err != nil {
			return Value{}, err
		}
		mod, err := evalTransformerParam(env, n.Modulus)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != ValueInt || mod.Kind != ValueInt {
			return Value{}, fmt.Errorf("modular reduction requires integers")
		}
		return Value{Kind: ValueInt, Int: v.Int % mod.Int}, nil
	}
	return Value{}, fmt.Errorf("transformer expression kind %v is not compile-time evaluable", expr.Kind())
}

func evalBinary(env map[string]Value, n *graph.BinaryExpr) (Value, error) {
	l, err := evalTransformerParam(env, n.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := evalTransformerParam(env, n.Right)
	if err != nil {
		return Value{}, err
	}

	switch n.Kind() {
	case graph.ExprAdd:
		if l.Kind == ValueString || r.Kind == ValueString {
			return Value{Kind: ValueString, String: l.String + r.String}, nil
		}
		if l.Kind == ValueFloat || r.Kind == ValueFloat {
			return Value{Kind: ValueFloat, Float: asFloat(l) + asFloat(r)}, nil
		}
		return Value{Kind: ValueInt, Int: l.Int + r.Int}, nil
	case graph.ExprSub:
		if l.Kind == ValueFloat || r.Kind == ValueFloat {
			return Value{Kind: ValueFloat, Float: asFloat(l) - asFloat(r)}, nil
		}
		return Value{Kind: ValueInt, Int: l.Int - r.Int}, nil
	case graph.ExprMul:
		if l.Kind == ValueFloat || r.Kind == ValueFloat {
			return Value{Kind: ValueFloat, Float: asFloat(l) * asFloat(r)}, nil
		}
		return Value{Kind: ValueInt, Int: l.Int * r.Int}, nil
	case graph.ExprDiv:
		if l.Kind == ValueFloat || r.Kind == ValueFloat {
			if asFloat(r) == 0 {
				return Value{}, fmt.Errorf("division by zero in transformer parameter")
			}
			return Value{Kind: ValueFloat, Float: asFloat(l) / asFloat(r)}, nil
		}
		if r.Int == 0 {
			return Value{}, fmt.Errorf("division by zero in transformer parameter")
		}
		return Value{Kind: ValueInt, Int: l.Int / r.Int}, nil
	case graph.ExprEqual:
		return Value{Kind: ValueBool, Bool: valuesEqual(l, r)}, nil
	case graph.ExprNotEqual:
		return Value{Kind: ValueBool, Bool: !valuesEqual(l, r)}, nil
	}
	return Value{}, fmt.Errorf("unsupported transformer operator %v", n.Kind())
}

func asFloat(v Value) float64 {
	if v.Kind == ValueFloat {
		return v.Float
	}
	return float64(v.Int)
}

func valuesEqual(l, r Value) bool {
	if l.Kind != r.Kind {
		return false
	}
	switch l.Kind {
	case ValueInt:
		return l.Int == r.Int
	case ValueFloat:
		return l.Float == r.Float
	case ValueBool:
		return l.Bool == r.Bool
	case ValueString:
		return l.String == r.String
	}
	return false
}
