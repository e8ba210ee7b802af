package cookbook

import (
	"fmt"
	"slices"
)

// Policy is a pure mutation of an aggregate. It returns the new aggregate, or
// ErrDuplicateChild / ErrChildNotFound when the business rule rejects the
// change. A policy never modifies its argument.
type Policy[T any] func(T) (T, error)

// appendUnique appends item unless an element with the same key exists.
func appendUnique[E any, K comparable](items []E, item E, key func(E) K) ([]E, error) {
	k := key(item)
	if slices.ContainsFunc(items, func(e E) bool { return key(e) == k }) {
		return items, fmt.Errorf("%w: %v", ErrDuplicateChild, k)
	}
	return append(items, item), nil
}

// removeOne filters out the single element whose key equals k, keeping the
// order of the others.
func removeOne[E any, K comparable](items []E, k K, key func(E) K) ([]E, error) {
	i := slices.IndexFunc(items, func(e E) bool { return key(e) == k })
	if i < 0 {
		return items, fmt.Errorf("%w: %v", ErrChildNotFound, k)
	}
	return slices.Delete(items, i, i+1), nil
}

func identity(s string) string { return s }
