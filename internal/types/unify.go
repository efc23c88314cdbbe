package types

import "fmt"

// SetSecret returns dt with the secret bit set to b (spec §4.2). Object,
// Class and Template datatypes may never be marked secret (spec invariant 6);
// requesting that is an error. Setting an already-matching bit is a no-op
// that returns dt unchanged (spec §8 idempotence: SetSecret(SetSecret(dt,
// true), true) == SetSecret(dt, true)).
func (s *Store) SetSecret(dt *Datatype, b bool) (*Datatype, error) {
	if dt == nil {
		return nil, fmt.Errorf("set_secret: nil datatype")
	}
	if b && (dt.kind == KindClass || dt.kind == KindTemplate) {
		return nil, fmt.Errorf("set_secret: cannot mark %s secret", dt.kind)
	}
	if dt.secret == b {
		return dt, nil
	}
	return s.withBits(dt, b, dt.nullable), nil
}

// SetNullable returns dt with the nullable bit set to b. Only Class
// datatypes may be marked nullable (spec §4.2); requesting nullable=true on
// anything else is an error.
func (s *Store) SetNullable(dt *Datatype, b bool) (*Datatype, error) {
	if dt == nil {
		return nil, fmt.Errorf("set_nullable: nil datatype")
	}
	if b && dt.kind != KindClass {
		return nil, fmt.Errorf("set_nullable: %s is not a Class", dt.kind)
	}
	if dt.nullable == b {
		return dt, nil
	}
	return s.withBits(dt, dt.secret, b), nil
}

// withBits reconstructs dt with new secret/nullable bits, going back through
// the Store's own constructors so the result stays canonical.
func (s *Store) withBits(dt *Datatype, secret, nullable bool) *Datatype {
	switch dt.kind {
	case KindNone:
		return s.None()
	case KindBool:
		return s.Bool(secret)
	case KindString:
		return s.String(secret)
	case KindUint:
		out, _ := s.Uint(dt.width, secret)
		return out
	case KindInt:
		out, _ := s.Int(dt.width, secret)
		return out
	case KindFloat:
		out, _ := s.Float(dt.width, secret)
		return out
	case KindModint:
		return s.Modint(dt.owner, secret)
	case KindClass:
		out, _ := s.Class(dt.owner, dt.width, nullable)
		return out
	default:
		// Array/Tuple/Struct/Enumclass/Enum/Function/Template/Funcptr/Expr
		// carry no secret/nullable bit of their own at this level; return
		// dt unchanged rather than fabricate a kind-inappropriate variant.
		return dt
	}
}

// Unify is the central join of spec §4.2. It returns the unique common
// refinement of a and b, or an error if no refinement exists.
func (s *Store) Unify(a, b *Datatype) (*Datatype, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("unify: nil operand")
	}

	if a == b {
		return a, nil
	}

	if a.kind != b.kind {
		// Class vs Class of same Template where one is nullable is the only
		// cross-kind-looking exception, but both sides are KindClass so it's
		// handled below; any other kind mismatch fails outright.
		return nil, fmt.Errorf("cannot unify %s with %s", a.String(), b.String())
	}

	switch a.kind {
	case KindNone:
		return s.None(), nil
	case KindBool:
		return s.Bool(a.secret || b.secret), nil
	case KindString:
		return s.String(a.secret || b.secret), nil
	case KindUint:
		if a.width != b.width {
			return nil, fmt.Errorf("cannot unify %s with %s", a.String(), b.String())
		}
		out, _ := s.Uint(a.width, a.secret || b.secret)
		return out, nil
	case KindInt:
		if a.width != b.width {
			return nil, fmt.Errorf("cannot unify %s with %s", a.String(), b.String())
		}
		out, _ := s.Int(a.width, a.secret || b.secret)
		return out, nil
	case KindFloat:
		if a.width != b.width {
			return nil, fmt.Errorf("cannot unify %s with %s", a.String(), b.String())
		}
		out, _ := s.Float(a.width, a.secret || b.secret)
		return out, nil
	case KindModint:
		if ownerKey(a.owner) != ownerKey(b.owner) {
			return nil, fmt.Errorf("cannot unify modint regions with different moduli")
		}
		return s.Modint(a.owner, a.secret || b.secret), nil
	case KindArray:
		elem, err := s.Unify(a.elem, b.elem)
		if err != nil {
			return nil, fmt.Errorf("cannot unify %s with %s: %w", a.String(), b.String(), err)
		}
		return s.Array(elem), nil
	case KindTuple:
		fields, err := s.unifyFields(a.fields, b.fields)
		if err != nil {
			return nil, err
		}
		return s.Tuple(fields...), nil
	case KindStruct:
		if ownerKey(a.owner) != ownerKey(b.owner) {
			return nil, fmt.Errorf("cannot unify distinct struct types")
		}
		fields, err := s.unifyFields(a.fields, b.fields)
		if err != nil {
			return nil, err
		}
		return s.Struct(a.owner, fields...), nil
	case KindFuncptr:
		ret, err := s.Unify(a.ret, b.ret)
		if err != nil {
			return nil, err
		}
		params, err := s.unifyFields(a.fields, b.fields)
		if err != nil {
			return nil, err
		}
		return s.Funcptr(ret, params...), nil
	case KindEnumclass:
		if ownerKey(a.owner) != ownerKey(b.owner) {
			return nil, fmt.Errorf("cannot unify distinct enum-class types")
		}
		return a, nil
	case KindEnum:
		if ownerKey(a.owner) != ownerKey(b.owner) {
			return nil, fmt.Errorf("cannot unify distinct enum types")
		}
		return a, nil
	case KindFunction:
		if ownerKey(a.owner) != ownerKey(b.owner) {
			return nil, fmt.Errorf("cannot unify distinct function types")
		}
		return a, nil
	case KindTemplate:
		if ownerKey(a.owner) != ownerKey(b.owner) {
			return nil, fmt.Errorf("cannot unify distinct templates")
		}
		return a, nil
	case KindClass:
		if ownerKey(a.owner) == ownerKey(b.owner) {
			out, _ := s.Class(a.owner, a.width, a.nullable || b.nullable)
			return out, nil
		}
		return nil, fmt.Errorf("cannot unify distinct classes %s and %s", a.String(), b.String())
	case KindExpr:
		return a, nil
	default:
		return nil, fmt.Errorf("unify: unhandled kind %s", a.kind)
	}
}

func (s *Store) unifyFields(as, bs []*Datatype) ([]*Datatype, error) {
	if len(as) != len(bs) {
		return nil, fmt.Errorf("unify: field count mismatch (%d vs %d)", len(as), len(bs))
	}
	out := make([]*Datatype, len(as))
	for i := range as {
		u, err := s.Unify(as[i], bs[i])
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}
