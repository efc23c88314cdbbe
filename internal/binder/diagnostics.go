package binder

import (
	"fmt"

	"github.com/cwbudde/go-binder/internal/errors"
	"github.com/cwbudde/go-binder/internal/graph"
)

// ErrorKind enumerates the binder's diagnostic categories (spec §7).
type ErrorKind int

const (
	SyntaxAtBindTime ErrorKind = iota
	TypeMismatch
	UndefinedIdentifier
	UndeterminedType
	UndeterminedReturn
	OverloadResolutionFailure
	ConstraintViolation
	ConstWrite
	BadCast
	BadSecrecy
	TemplateMisuse
	Internal
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxAtBindTime:
		return "SyntaxAtBindTime"
	case TypeMismatch:
		return "TypeMismatch"
	case UndefinedIdentifier:
		return "UndefinedIdentifier"
	case UndeterminedType:
		return "UndeterminedType"
	case UndeterminedReturn:
		return "UndeterminedReturn"
	case OverloadResolutionFailure:
		return "OverloadResolutionFailure"
	case ConstraintViolation:
		return "ConstraintViolation"
	case ConstWrite:
		return "ConstWrite"
	case BadCast:
		return "BadCast"
	case BadSecrecy:
		return "BadSecrecy"
	case TemplateMisuse:
		return "TemplateMisuse"
	default:
		return "Internal"
	}
}

// Diagnostic is one binder error: a kind, a location, a message, and a
// copy of the Reporter's frame stack at report time (spec §4.8). The engine
// never calls PushFrame, so Stack is empty on every Diagnostic it reports.
type Diagnostic struct {
	Kind    ErrorKind
	Pos     graph.Pos
	Message string
	Stack   errors.StackTrace
}

func (d *Diagnostic) Error() string {
	if d.Pos.IsZero() {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Message)
}

// Reporter accumulates Diagnostics during a binder run (spec §4.8). It
// mirrors the teacher's internal/errors.CompilerError aggregation, scoped
// to the binder's own error kinds rather than lexer/parser errors.
type Reporter struct {
	diags []*Diagnostic
	stack errors.StackTrace
}

// NewReporter creates an empty Reporter.
func NewReporter() *Reporter { return &Reporter{} }

// PushFrame records that binding has entered a new Signature's body, for
// call-chain context on any diagnostic raised underneath (spec §4.8).
func (r *Reporter) PushFrame(sig *Signature, pos graph.Pos) {
	r.stack = append(r.stack, errors.NewStackFrame(sig.Function.Name, pos.File, &pos))
}

// PopFrame undoes the most recent PushFrame.
func (r *Reporter) PopFrame() {
	if len(r.stack) > 0 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

// Report records a recoverable Diagnostic (spec §7 "Propagation": binding-
// time errors destroy the current Binding and continue).
func (r *Reporter) Report(kind ErrorKind, pos graph.Pos, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Stack:   append(errors.StackTrace(nil), r.stack...),
	}
	r.diags = append(r.diags, d)
	return d
}

// Diagnostics returns every Diagnostic reported so far, in report order.
func (r *Reporter) Diagnostics() []*Diagnostic { return r.diags }

// HasErrors reports whether any Diagnostic has been recorded.
func (r *Reporter) HasErrors() bool { return len(r.diags) > 0 }
