package binder

// Outcome is the result of offering one expression to the Expression Binder
// (spec §4.4 "Worklist semantics").
type Outcome int

const (
	// OK: the expression acquired a datatype; removed from the queue.
	OK Outcome = iota
	// Blocked: the expression depends on an unresolved Event; the Binding
	// parks on that Event's waiter list.
	Blocked
	// Rebind: the Expression Binder mutated the expression tree; the
	// Binding's queue is rebuilt from the current tree and retried.
	Rebind
	// Failed: a diagnostic was raised for this expression; binding of the
	// owning Binding is abandoned (spec §7 "Propagation").
	Failed
)
