// Package fault defines the typed error values returned by every engine
// component. Components never panic on caller mistakes; they return a *Fault
// whose Kind the command layer can dispatch on.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure.
type Kind string

const (
	// ParseError marks a malformed type-descriptor string. Always local to
	// the input; never leaves partial state behind.
	ParseError Kind = "parse_error"
	// TypeNotFound marks a well-formed descriptor whose referenced name is
	// unknown to the type registry.
	TypeNotFound Kind = "type_not_found"
	// NotFound marks a node, pin, parameter, local variable, or graph that
	// could not be resolved. Carries a diagnostic listing of candidates.
	NotFound Kind = "not_found"
	// DirectionMismatch marks a connect attempt that is not output-to-input.
	DirectionMismatch Kind = "direction_mismatch"
	// AlreadyConnected marks a connect attempt into an occupied
	// non-execution input pin.
	AlreadyConnected Kind = "already_connected"
	// Incompatible marks a connect attempt between pins whose types neither
	// match nor convert.
	Incompatible Kind = "incompatible_types"
	// NotSplittable marks a split attempt on a pin that is not a
	// multi-field composite.
	NotSplittable Kind = "not_splittable"
	// DuplicateName marks an attempt to add a parameter or local variable
	// under a name that is already taken for that role.
	DuplicateName Kind = "duplicate_name"
	// DuplicateReturn marks an attempt to add a second return value.
	DuplicateReturn Kind = "duplicate_return"
	// StructuralConflict marks a document-level conflict, such as targeting
	// a named graph that does not exist.
	StructuralConflict Kind = "structural_conflict"
)

// Fault is the concrete error type produced by engine components.
type Fault struct {
	Kind    Kind
	Message string
	// Diagnostics is an optional human-readable payload that helps a caller
	// correct the request, e.g. a listing of candidate nodes after a failed
	// resolution. It is part of the error contract, not a logging artifact.
	Diagnostics string
	// Wrapped preserves an underlying cause, if any.
	Wrapped error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Wrapped)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (f *Fault) Unwrap() error {
	return f.Wrapped
}

// New creates a Fault with a formatted message.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithDiagnostics returns a copy of the fault carrying a diagnostic payload.
func (f *Fault) WithDiagnostics(diag string) *Fault {
	clone := *f
	clone.Diagnostics = diag
	return &clone
}

// Wrap creates a Fault around an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// KindOf extracts the Kind from an error chain. It returns an empty Kind for
// nil or non-Fault errors.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// DiagnosticsOf extracts the diagnostic payload from an error chain, if any.
func DiagnosticsOf(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Diagnostics
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
