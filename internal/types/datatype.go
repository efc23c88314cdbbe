// Package types implements the Datatype Interning Store (spec §3 "Datatype",
// §4.2). Datatypes are hash-consed immutable terms: equal datatypes are
// identical pointers, so the rest of the binder is free to compare datatypes
// with plain `==` instead of a structural Equals call, the way the teacher's
// types.Type tree compares ClassType/FunctionType/ArrayType by value
// (internal/semantic/analyzer.go's canAssign and friends).
//
// The owning identities for Function, Template, Class and Modint-modulus
// terms live in the graph package, which in turn depends on this package for
// Variable/Expression datatypes. To avoid an import cycle those identities
// are carried as opaque `any` tokens (always a *graph.Function, *graph.Template,
// *graph.Class, or *graph.Expression in practice) that the Store never
// dereferences; it only uses them as hash-consing keys.
package types

import (
	"fmt"
	"strings"
)

// Kind enumerates the datatype kinds of spec §3.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindString
	KindUint
	KindInt
	KindFloat
	KindModint
	KindArray
	KindTuple
	KindStruct
	KindEnumclass
	KindEnum
	KindFunction
	KindTemplate
	KindClass
	KindFuncptr
	KindExpr
)

// String names a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindUint:
		return "Uint"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindModint:
		return "Modint"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindStruct:
		return "Struct"
	case KindEnumclass:
		return "Enumclass"
	case KindEnum:
		return "Enum"
	case KindFunction:
		return "Function"
	case KindTemplate:
		return "Template"
	case KindClass:
		return "Class"
	case KindFuncptr:
		return "Funcptr"
	case KindExpr:
		return "Expr"
	default:
		return "?"
	}
}

// Datatype is a hash-consed immutable term (spec §3 invariant 1: equal
// datatype iff identical handle). Never construct one directly; always go
// through a Store constructor so identity is canonical.
type Datatype struct {
	id       uint64
	kind     Kind
	width    uint32 // Uint/Int/Float bit width, or Class reference width (1..64)
	secret   bool
	nullable bool

	elem    *Datatype   // Array element
	fields  []*Datatype // Tuple/Struct fields, Funcptr parameters
	ret     *Datatype   // Funcptr return type
	owner   any         // Function (Struct/Enumclass/Enum/Function kinds), Template, Class, or Modint modulus-expression
	bakedBy *Datatype   // for diagnostics only: the pre-secret/nullable base this was derived from
}

// Kind returns the datatype's kind.
func (dt *Datatype) Kind() Kind { return dt.kind }

// Width returns the bit width (Uint/Int/Float) or class reference width.
func (dt *Datatype) Width() uint32 { return dt.width }

// Secret reports the taint bit (spec invariant 6).
func (dt *Datatype) Secret() bool { return dt.secret }

// Nullable reports the Class-may-be-null bit (spec invariant 7).
func (dt *Datatype) Nullable() bool { return dt.nullable }

// Elem returns the Array element type, or nil.
func (dt *Datatype) Elem() *Datatype { return dt.elem }

// Fields returns the Tuple/Struct field types, or the Funcptr parameter types.
func (dt *Datatype) Fields() []*Datatype { return dt.fields }

// Ret returns the Funcptr return type, or nil.
func (dt *Datatype) Ret() *Datatype { return dt.ret }

// Owner returns the opaque identity attached to Struct/Enumclass/Enum/Function
// (the owning Function), Template (the Template), Class (the Class), or
// Modint (the modulus Expression). Callers type-assert to their own graph
// types; the Store never looks inside it except for hash-consing.
func (dt *Datatype) Owner() any { return dt.owner }

// Concrete reports whether dt has no transitively-reachable Template subterm
// (spec §9 "Monotonicity of concreteness"); this is the gate for firing
// Variable and Signature Events.
func (dt *Datatype) Concrete() bool {
	if dt == nil {
		return false
	}
	switch dt.kind {
	case KindTemplate:
		return false
	case KindArray:
		return dt.elem.Concrete()
	case KindTuple, KindStruct:
		for _, f := range dt.fields {
			if !f.Concrete() {
				return false
			}
		}
		return true
	case KindFuncptr:
		if dt.ret != nil && !dt.ret.Concrete() {
			return false
		}
		for _, f := range dt.fields {
			if !f.Concrete() {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders a printable type name, used both by diagnostics and by the
// format-string checker (spec §4.5 "Printf-format verification").
func (dt *Datatype) String() string {
	if dt == nil {
		return "<nil>"
	}
	secret := ""
	if dt.secret {
		secret = "secret "
	}
	switch dt.kind {
	case KindNone:
		return "None"
	case KindBool:
		return secret + "Bool"
	case KindString:
		return secret + "String"
	case KindUint:
		return fmt.Sprintf("%sUint%d", secret, dt.width)
	case KindInt:
		return fmt.Sprintf("%sInt%d", secret, dt.width)
	case KindFloat:
		return fmt.Sprintf("%sFloat%d", secret, dt.width)
	case KindModint:
		return fmt.Sprintf("%sModint", secret)
	case KindArray:
		return fmt.Sprintf("Array<%s>", dt.elem.String())
	case KindTuple:
		parts := make([]string, len(dt.fields))
		for i, f := range dt.fields {
			parts[i] = f.String()
		}
		return fmt.Sprintf("Tuple(%s)", strings.Join(parts, ", "))
	case KindStruct:
		return fmt.Sprintf("Struct(%v)", dt.owner)
	case KindEnumclass:
		return fmt.Sprintf("Enumclass(%v)", dt.owner)
	case KindEnum:
		return fmt.Sprintf("Enum(%v)", dt.owner)
	case KindFunction:
		return fmt.Sprintf("Function(%v)", dt.owner)
	case KindTemplate:
		return fmt.Sprintf("Template(%v)", dt.owner)
	case KindClass:
		nullable := ""
		if dt.nullable {
			nullable = "nullable "
		}
		return fmt.Sprintf("%sClass(%v)", nullable, dt.owner)
	case KindFuncptr:
		parts := make([]string, len(dt.fields))
		for i, f := range dt.fields {
			parts[i] = f.String()
		}
		return fmt.Sprintf("Funcptr(%s)->%s", strings.Join(parts, ", "), dt.ret.String())
	case KindExpr:
		return "Expr"
	default:
		return "?"
	}
}
