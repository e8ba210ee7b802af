package cookbook

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Aggregate is implemented by the stored aggregate roots.
type Aggregate[T any] interface {
	Normalize() T
}

// Codec serializes aggregates to and from their stored JSON form. Both
// directions normalize, so Decode(Encode(v)) equals v.Normalize(); it equals
// v itself only when v is already normalized.
type Codec[T Aggregate[T]] struct{}

// Encode normalizes v and serializes it, so empty child lists are stored as
// arrays rather than null.
func (Codec[T]) Encode(v T) ([]byte, error) {
	data, err := json.Marshal(v.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encode aggregate: %w", err)
	}
	return data, nil
}

// Decode parses a stored blob. An empty blob or invalid JSON yields
// ErrCorruptData.
func (Codec[T]) Decode(data []byte) (T, error) {
	var v T
	if len(data) == 0 {
		return v, fmt.Errorf("%w: empty blob", ErrCorruptData)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return v.Normalize(), nil
}
