package cookbook

import "errors"

var (
	// ErrDuplicateChild is returned by an add policy when the aggregate
	// already holds a child with the same uniqueness key.
	ErrDuplicateChild = errors.New("duplicate child")

	// ErrChildNotFound is returned by a remove policy when no child matches
	// the given uniqueness key.
	ErrChildNotFound = errors.New("child not found")

	// ErrInvalidValue is returned when an enumerated value cannot be parsed.
	ErrInvalidValue = errors.New("invalid value")
)
