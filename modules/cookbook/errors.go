package cookbook

import (
	"errors"

	domain "github.com/nerggnet/WebBackend/domain/cookbook"
)

// Sentinel errors for cookbook operations.
var (
	// ErrNotFound is returned when no aggregate exists at the key.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by Insert when the name is already taken.
	ErrConflict = errors.New("already exists")

	// ErrConcurrentModification is returned when the conditioned write lost
	// against another writer on every allowed attempt.
	ErrConcurrentModification = errors.New("modified concurrently")

	// ErrCorruptData is returned when a stored blob cannot be decoded.
	ErrCorruptData = errors.New("corrupt stored data")

	// ErrValidation is returned for malformed or incomplete commands.
	ErrValidation = errors.New("validation failed")

	// ErrStorage wraps any other store failure.
	ErrStorage = errors.New("storage failure")
)

// Reason classifies the outcome of a command.
type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonNotFound               Reason = "NotFound"
	ReasonConflict               Reason = "Conflict"
	ReasonConcurrentModification Reason = "ConcurrentModification"
	ReasonDuplicateChild         Reason = "DuplicateChild"
	ReasonChildNotFound          Reason = "ChildNotFound"
	ReasonCorruptData            Reason = "CorruptData"
	ReasonValidation             Reason = "ValidationError"
	ReasonFault                  Reason = "Fault"
)

// ReasonOf maps an error to its Reason. nil maps to ReasonNone and anything
// unrecognised to ReasonFault.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrValidation), errors.Is(err, domain.ErrInvalidValue):
		return ReasonValidation
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrConflict):
		return ReasonConflict
	case errors.Is(err, ErrConcurrentModification):
		return ReasonConcurrentModification
	case errors.Is(err, domain.ErrDuplicateChild):
		return ReasonDuplicateChild
	case errors.Is(err, domain.ErrChildNotFound):
		return ReasonChildNotFound
	case errors.Is(err, ErrCorruptData):
		return ReasonCorruptData
	default:
		return ReasonFault
	}
}

// metricLabel is the reason label used in metrics; success is "ok".
func (r Reason) metricLabel() string {
	if r == ReasonNone {
		return "ok"
	}
	return string(r)
}
