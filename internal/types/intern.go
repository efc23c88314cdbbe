package types

import (
	"fmt"
	"strings"
)

// Store is the Datatype Interning Store (spec §4.2): a hash-consed arena of
// Datatype values. Construction is append-only; unification and secret/
// nullable mutation both go through the Store so identity stays canonical
// (spec §9 "Hash-consing": collision-free equality is a precondition of
// pointer comparison).
type Store struct {
	interned map[string]*Datatype
	nextID   uint64

	builtinTemplates map[Kind]any // find_template for primitive kinds
}

// NewStore creates an empty interning store; None, Bool, String and every
// other Datatype are interned on first request.
func NewStore() *Store {
	s := &Store{
		interned:         make(map[string]*Datatype),
		builtinTemplates: make(map[Kind]any),
	}
	return s
}

func (s *Store) alloc() uint64 {
	s.nextID++
	return s.nextID
}

// intern looks up dt by its structural key, returning the canonical handle.
// If no equal datatype exists yet, dt itself becomes canonical.
func (s *Store) intern(key string, build func() *Datatype) *Datatype {
	if existing, ok := s.interned[key]; ok {
		return existing
	}
	dt := build()
	dt.id = s.alloc()
	s.interned[key] = dt
	return dt
}

func ownerKey(owner any) string {
	if owner == nil {
		return "nil"
	}
	return fmt.Sprintf("%p:%T", owner, owner)
}

func fieldsKey(fields []*Datatype) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%d", f.id)
	}
	return strings.Join(parts, ",")
}

func boolKey(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func bitsKey(secret, nullable bool) string {
	return boolKey(secret) + boolKey(nullable)
}

// None returns the canonical None (unset/void) datatype.
func (s *Store) None() *Datatype {
	return s.intern("none", func() *Datatype { return &Datatype{kind: KindNone} })
}

// Bool returns the canonical Bool datatype, optionally secret.
func (s *Store) Bool(secret bool) *Datatype {
	key := "bool:" + bitsKey(secret, false)
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindBool, secret: secret} })
}

// String returns the canonical String datatype, optionally secret.
func (s *Store) String(secret bool) *Datatype {
	key := "string:" + bitsKey(secret, false)
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindString, secret: secret} })
}

// maxIntWidth is the inclusive upper bound on Uint/Int/Float widths (spec §4.2).
const maxIntWidth = 65535

// maxClassRefWidth is the inclusive upper bound on a Class's reference width.
const maxClassRefWidth = 64

// Uint interns a Uint{width} datatype. width must be in [1, 65535].
func (s *Store) Uint(width uint32, secret bool) (*Datatype, error) {
	if width < 1 || width > maxIntWidth {
		return nil, fmt.Errorf("uint width %d out of range [1, %d]", width, maxIntWidth)
	}
	key := fmt.Sprintf("uint:%d:%s", width, bitsKey(secret, false))
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindUint, width: width, secret: secret} }), nil
}

// Int interns an Int{width} datatype. width must be in [1, 65535].
func (s *Store) Int(width uint32, secret bool) (*Datatype, error) {
	if width < 1 || width > maxIntWidth {
		return nil, fmt.Errorf("int width %d out of range [1, %d]", width, maxIntWidth)
	}
	key := fmt.Sprintf("int:%d:%s", width, bitsKey(secret, false))
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindInt, width: width, secret: secret} }), nil
}

// Float interns a Float{width} datatype. width must be in [1, 65535].
func (s *Store) Float(width uint32, secret bool) (*Datatype, error) {
	if width < 1 || width > maxIntWidth {
		return nil, fmt.Errorf("float width %d out of range [1, %d]", width, maxIntWidth)
	}
	key := fmt.Sprintf("float:%d:%s", width, bitsKey(secret, false))
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindFloat, width: width, secret: secret} }), nil
}

// Modint interns a Modint{modulus-expr} datatype. modulus is the opaque
// modulus-expression identity supplied by the graph package.
func (s *Store) Modint(modulus any, secret bool) *Datatype {
	key := "modint:" + ownerKey(modulus) + ":" + bitsKey(secret, false)
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindModint, secret: secret, owner: modulus} })
}

// Array interns an Array{element} datatype.
func (s *Store) Array(elem *Datatype) *Datatype {
	key := fmt.Sprintf("array:%d", elem.id)
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindArray, elem: elem} })
}

// Tuple interns a Tuple{fields...} datatype.
func (s *Store) Tuple(fields ...*Datatype) *Datatype {
	key := "tuple:" + fieldsKey(fields)
	return s.intern(key, func() *Datatype {
		cp := append([]*Datatype(nil), fields...)
		return &Datatype{kind: KindTuple, fields: cp}
	})
}

// Struct interns a Struct{function, fields...} datatype; function is the
// opaque identity of the owning struct-kind Function.
func (s *Store) Struct(function any, fields ...*Datatype) *Datatype {
	key := "struct:" + ownerKey(function) + ":" + fieldsKey(fields)
	return s.intern(key, func() *Datatype {
		cp := append([]*Datatype(nil), fields...)
		return &Datatype{kind: KindStruct, owner: function, fields: cp}
	})
}

// Enumclass interns an Enumclass{function} datatype.
func (s *Store) Enumclass(function any) *Datatype {
	key := "enumclass:" + ownerKey(function)
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindEnumclass, owner: function} })
}

// Enum interns an Enum{function} datatype.
func (s *Store) Enum(function any) *Datatype {
	key := "enum:" + ownerKey(function)
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindEnum, owner: function} })
}

// Function interns a Function{function} datatype (the type of a named
// function value, as opposed to a call result).
func (s *Store) Function(function any) *Datatype {
	key := "function:" + ownerKey(function)
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindFunction, owner: function} })
}

// Template interns a Template{template} datatype.
func (s *Store) Template(template any) *Datatype {
	key := "template:" + ownerKey(template)
	return s.intern(key, func() *Datatype { return &Datatype{kind: KindTemplate, owner: template} })
}

// Class interns a Class{class} datatype with the given reference width
// (inherited from the Template, spec §3 "Template") and nullable bit.
func (s *Store) Class(class any, refWidth uint32, nullable bool) (*Datatype, error) {
	if refWidth < 1 || refWidth > maxClassRefWidth {
		return nil, fmt.Errorf("class ref-width %d out of range [1, %d]", refWidth, maxClassRefWidth)
	}
	key := fmt.Sprintf("class:%s:%d:%s", ownerKey(class), refWidth, boolKey(nullable))
	return s.intern(key, func() *Datatype {
		return &Datatype{kind: KindClass, owner: class, width: refWidth, nullable: nullable}
	}), nil
}

// Funcptr interns a Funcptr{return, params...} datatype.
func (s *Store) Funcptr(ret *Datatype, params ...*Datatype) *Datatype {
	key := "funcptr:" + fmt.Sprintf("%d", ret.id) + ":" + fieldsKey(params)
	return s.intern(key, func() *Datatype {
		cp := append([]*Datatype(nil), params...)
		return &Datatype{kind: KindFuncptr, ret: ret, fields: cp}
	})
}

// Expr interns the Expr datatype used by transformer-time expression
// evaluation (spec §3 "Datatype" kind list, §4.7).
func (s *Store) Expr() *Datatype {
	return s.intern("expr", func() *Datatype { return &Datatype{kind: KindExpr} })
}

// RegisterBuiltinTemplate associates a primitive Kind family (Uint, Int,
// Float, Array, String, Bool, ...) with the Template identity the binder
// created for it, so FindTemplate can answer method lookups on primitive
// receivers (spec §4.2 find_template).
func (s *Store) RegisterBuiltinTemplate(kind Kind, template any) {
	s.builtinTemplates[kind] = template
}

// FindTemplate returns the originating Template for a built-in-typed value.
// Class/Template-kind datatypes carry their own owning Template directly in
// the graph (Class.Template back-reference) and are not served here.
func (s *Store) FindTemplate(dt *Datatype) (any, bool) {
	if dt == nil {
		return nil, false
	}
	t, ok := s.builtinTemplates[dt.kind]
	return t, ok
}
