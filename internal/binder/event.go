package binder

import "github.com/cwbudde/go-binder/internal/graph"

// EventKind enumerates the three rendezvous kinds of spec §3 "Event"/§4.4.
type EventKind int

const (
	// EventSignature fires when a Signature's return type becomes concrete,
	// or is confirmed unable to produce one (None).
	EventSignature EventKind = iota
	// EventVariable fires when a Variable first acquires a concrete Datatype.
	EventVariable
	// EventUndefinedIdent fires when a previously-undefined identifier
	// becomes defined in its block.
	EventUndefinedIdent
)

// Event is a rendezvous point with a waiter list of Bindings (spec §3).
// Key identifies what the Event is about: a *Signature, a *graph.Variable,
// or an identKey for an UndefinedIdent.
type Event struct {
	Kind    EventKind
	Key     any
	Waiters []*Binding
}

func newEvent(kind EventKind, key any) *Event {
	return &Event{Kind: kind, Key: key}
}

// identKey identifies an UndefinedIdent Event: a name inside a specific
// Block (spec §4.5 rule 2 "Undefined idents allocate an UndefinedIdent
// record in the current block").
type identKey struct {
	block *graph.Block
	name  string
}
