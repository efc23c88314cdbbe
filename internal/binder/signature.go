package binder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cwbudde/go-binder/internal/graph"
	"github.com/cwbudde/go-binder/internal/types"
)

// Paramspec is a per-parameter record on a Signature (spec §3 "Signature",
// §4.3): one per source parameter (not per passed argument — trailing
// defaulted parameters are part of the vector), carrying its bound
// Datatype and the isType/instantiated flags copied from its Variable on
// finalization.
type Paramspec struct {
	Datatype     *types.Datatype
	IsType       bool
	Instantiated bool
}

// Signature is a specialization of a Function for a specific parameter
// Datatype tuple (spec §3). Identity = (Function, tuple); canonical per the
// Signature Table. UUID gives every Signature a stable identity that
// survives across a run for diagnostics and for the external RPC-encoding
// collaborator (out of scope here, spec §1) to key off of.
type Signature struct {
	UUID uuid.UUID

	Function   *graph.Function
	ParamTypes []*types.Datatype // the canonical key tuple
	Paramspecs []*Paramspec

	Return      *types.Datatype // nil until fixed
	Bound       bool            // every Binding of this Signature has completed
	Instantiated bool           // storage for this specialization exists at runtime

	ReturnEvent *Event

	// AddressTaken is set by Funcaddr (spec rule 26): every Paramspec
	// becomes instantiated once a Signature's address is taken.
	AddressTaken bool

	// ResolvedClass is set for a Constructor Signature once its Class has
	// been created (spec invariant 3, §4.5.I).
	ResolvedClass *graph.Class

	bindings []*Binding // every Binding ever created against this Signature
}

func paramKey(types []*types.Datatype) string {
	parts := make([]string, len(types))
	for i, t := range types {
		if t == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// Table maps (Function, parameter-type-tuple) to its canonical Signature
// (spec §4.3).
type Table struct {
	byFunction map[*graph.Function]map[string]*Signature
}

// NewTable creates an empty Signature Table.
func NewTable() *Table {
	return &Table{byFunction: make(map[*graph.Function]map[string]*Signature)}
}

// All returns every Signature ever created, in unspecified order — used by
// the Scheduler to sweep for Signatures whose Return Event never fired
// (spec §4.4 "Termination").
func (t *Table) All() []*Signature {
	var out []*Signature
	for _, byKey := range t.byFunction {
		for _, sig := range byKey {
			out = append(out, sig)
		}
	}
	return out
}

// Lookup returns the Signature already created for (fn, paramTypes), if any.
func (t *Table) Lookup(fn *graph.Function, paramTypes []*types.Datatype) (*Signature, bool) {
	byKey, ok := t.byFunction[fn]
	if !ok {
		return nil, false
	}
	sig, ok := byKey[paramKey(paramTypes)]
	return sig, ok
}

// Create allocates Paramspecs from fn's parameter list and registers the new
// Signature under (fn, paramTypes) (spec §4.3 "create"). A parameter whose
// type is not yet known (nil in paramTypes, only a default expression
// exists) receives a null Datatype Paramspec; the caller is responsible for
// creating the DefaultValue Binding that will discover it.
func (t *Table) Create(fn *graph.Function, paramTypes []*types.Datatype) *Signature {
	sig := &Signature{
		UUID:       uuid.New(),
		Function:   fn,
		ParamTypes: append([]*types.Datatype(nil), paramTypes...),
	}
	sig.Paramspecs = make([]*Paramspec, fn.NumParams)
	for i := range sig.Paramspecs {
		ps := &Paramspec{}
		if i < len(paramTypes) {
			ps.Datatype = paramTypes[i]
		}
		sig.Paramspecs[i] = ps
	}
	sig.ReturnEvent = newEvent(EventSignature, sig)

	byKey, ok := t.byFunction[fn]
	if !ok {
		byKey = make(map[string]*Signature)
		t.byFunction[fn] = byKey
	}
	byKey[paramKey(paramTypes)] = sig
	return sig
}

// String renders fn(ParamTypes...)->Return for diagnostics and call-chain
// stacks (spec §4.8).
func (s *Signature) String() string {
	parts := make([]string, len(s.ParamTypes))
	for i, t := range s.ParamTypes {
		parts[i] = t.String()
	}
	ret := "?"
	if s.Return != nil {
		ret = s.Return.String()
	}
	return fmt.Sprintf("%s(%s)->%s", s.Function.Name, strings.Join(parts, ", "), ret)
}
