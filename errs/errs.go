// Package errs defines the typed error taxonomy shared by every Intuicio
// core package: type mismatches, denied borrows, failed registry lookups,
// exhausted capacity, and violated invariants are all the same Error shape,
// so callers can branch on Kind instead of matching error text.
package errs

import "fmt"

// Kind classifies an Error so callers can branch on intent rather than text.
type Kind int

const (
	// KindTypeMismatch marks a type-hash mismatch at value access, stack
	// pop, register move, or bundle column.
	KindTypeMismatch Kind = iota
	// KindLifetimeDenied marks a borrow that could not be granted, or an
	// access against a dead owner.
	KindLifetimeDenied
	// KindNotFound marks a registry or arena query that returned nothing.
	KindNotFound
	// KindCapacityExceeded marks entity-id or archetype-id exhaustion.
	KindCapacityExceeded
	// KindInvariantViolated marks a stack tag mismatch, mode violation, or
	// duplicate archetype mutable access.
	KindInvariantViolated
	// KindFatal marks a condition the caller cannot recover from: an
	// allocation failure, or a reentrant owner-drop under a locking-mode
	// accessor.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type_mismatch"
	case KindLifetimeDenied:
		return "lifetime_denied"
	case KindNotFound:
		return "not_found"
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindInvariantViolated:
		return "invariant_violated"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can do errors.Is(err, errs.New(errs.KindNotFound, "")) style checks.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Sentinels for the most common query/borrow failures.
var (
	ErrNotFound           = New(KindNotFound, "not found")
	ErrTypeMismatch       = New(KindTypeMismatch, "type hash mismatch")
	ErrLifetimeDenied     = New(KindLifetimeDenied, "borrow denied")
	ErrCapacityExceeded   = New(KindCapacityExceeded, "capacity exceeded")
	ErrInvariantViolated  = New(KindInvariantViolated, "invariant violated")
)
