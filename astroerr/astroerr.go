// Package astroerr defines the error taxonomy shared by the time and frame
// core: a small set of abstract kinds (Undefined, DomainError, OutOfRange,
// Unsupported, ArithmeticOverflow, RegistryConflict, CycleDetected) plus a
// single error type carrying the kind, the offending entity, and an
// optional wrapped cause.
//
// Binary operators on undefined operands do not construct an Error; per the
// propagation policy they silently return an undefined result. Error is
// reserved for conditions that must be surfaced at the API boundary.
package astroerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags the abstract error category. Kind values are not meant to be
// compared across packages by equality of a concrete type; callers should
// use Is below, or inspect Error.Kind directly.
type Kind int

const (
	// Undefined marks an operation invoked on an undefined Instant,
	// Duration, Transform, or Frame.
	Undefined Kind = iota
	// DomainError marks a numeric argument out of its admissible range.
	DomainError
	// OutOfRange marks an EOP query instant outside a provider's coverage.
	OutOfRange
	// Unsupported marks a time scale a conversion does not handle. UTC
	// conversions before the 1972 leap-second epoch do not raise it; they
	// use the 1972 TAI−UTC offset.
	Unsupported
	// ArithmeticOverflow marks Duration arithmetic exceeding the 64-bit
	// nanosecond range.
	ArithmeticOverflow
	// RegistryConflict marks registration of a frame name already in use.
	RegistryConflict
	// CycleDetected marks a parent chain that would form a cycle.
	CycleDetected
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "Undefined"
	case DomainError:
		return "DomainError"
	case OutOfRange:
		return "OutOfRange"
	case Unsupported:
		return "Unsupported"
	case ArithmeticOverflow:
		return "ArithmeticOverflow"
	case RegistryConflict:
		return "RegistryConflict"
	case CycleDetected:
		return "CycleDetected"
	default:
		return "Unknown"
	}
}

// Error is the error type returned at the boundary of the time and frame
// core. Entity names the offending value ("Instant", "ITRF", "Duration",
// ...); Cause, when non-nil, is the underlying error this one wraps.
type Error struct {
	Kind   Kind
	Entity string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Entity, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Entity)
}

// Unwrap exposes Cause so errors.Is/errors.As compose across the
// github.com/pkg/errors call sites elsewhere in this module.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an Error of the given kind naming entity, with no cause.
func New(kind Kind, entity string) error {
	return &Error{Kind: kind, Entity: entity}
}

// Wrap constructs an Error of the given kind naming entity, wrapping cause.
// If cause is non-nil, pkg/errors.WithStack attaches a stack trace recorded
// at this call, so the boundary error carries the trace pkg/errors callers
// expect.
func Wrap(kind Kind, entity string, cause error) error {
	if cause == nil {
		return New(kind, entity)
	}
	return &Error{Kind: kind, Entity: entity, Cause: errors.WithStack(cause)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
