package cookbook

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-monolith/mono/pkg/types"
	domain "github.com/nerggnet/WebBackend/domain/cookbook"
	"github.com/nerggnet/WebBackend/modules/tablestore"
)

// Repository stores one collection of aggregates and runs the optimistic
// read-modify-write cycle for updates. It holds no locks; concurrent updates
// of the same aggregate are arbitrated by the store's version check.
type Repository[T Aggregate[T]] struct {
	store       tablestore.Store
	collection  string
	codec       Codec[T]
	maxAttempts int
	metrics     *Metrics
	logger      types.Logger
}

// NewRepository creates a repository over collection. maxAttempts below 1 is
// treated as 1.
func NewRepository[T Aggregate[T]](
	store tablestore.Store,
	collection domain.Collection,
	maxAttempts int,
	metrics *Metrics,
	logger types.Logger,
) *Repository[T] {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Repository[T]{
		store:       store,
		collection:  string(collection),
		maxAttempts: maxAttempts,
		metrics:     metrics,
		logger:      logger.With("collection", string(collection)),
	}
}

// Get returns the aggregate stored under key.
func (r *Repository[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	entry, err := r.store.Get(ctx, r.collection, key)
	if err != nil {
		return zero, r.storeError(err, key)
	}
	return r.codec.Decode(entry.Value)
}

// Find returns every aggregate whose key starts with prefix, ordered by key.
// An empty prefix lists the whole collection. The result is never nil.
func (r *Repository[T]) Find(ctx context.Context, prefix string) ([]T, error) {
	entries, err := r.store.Query(ctx, r.collection, tablestore.HasPrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrStorage, r.collection, err)
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		v, err := r.codec.Decode(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", r.collection, e.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// List returns the whole collection.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	return r.Find(ctx, "")
}

// Insert stores a new aggregate under key. It fails with ErrConflict when the
// key is taken.
func (r *Repository[T]) Insert(ctx context.Context, key string, v T) (T, error) {
	var zero T
	data, err := r.codec.Encode(v)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if _, err := r.store.Insert(ctx, r.collection, key, data); err != nil {
		return zero, r.storeError(err, key)
	}
	return v.Normalize(), nil
}

// Remove deletes the aggregate under key.
func (r *Repository[T]) Remove(ctx context.Context, key string) error {
	if err := r.store.Delete(ctx, r.collection, key); err != nil {
		return r.storeError(err, key)
	}
	return nil
}

// Update applies policy to the aggregate under key and writes the result
// back, conditioned on the version read. A policy rejection is returned
// without writing. A stale version is retried with a fresh read up to
// maxAttempts in total, after which ErrConcurrentModification is returned.
func (r *Repository[T]) Update(ctx context.Context, key string, policy domain.Policy[T]) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		entry, err := r.store.Get(ctx, r.collection, key)
		if err != nil {
			return zero, r.storeError(err, key)
		}

		current, err := r.codec.Decode(entry.Value)
		if err != nil {
			return zero, fmt.Errorf("%s %q: %w", r.collection, key, err)
		}

		next, err := policy(current)
		if err != nil {
			return zero, err
		}

		data, err := r.codec.Encode(next)
		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrStorage, err)
		}

		_, err = r.store.Put(ctx, r.collection, key, data, entry.Version)
		if err == nil {
			return next.Normalize(), nil
		}
		if !errors.Is(err, tablestore.ErrVersionMismatch) {
			return zero, r.storeError(err, key)
		}

		r.metrics.observeConflict(r.collection)
		if attempt >= r.maxAttempts {
			return zero, fmt.Errorf("%w: %s %q after %d attempt(s)", ErrConcurrentModification, r.collection, key, attempt)
		}
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		r.logger.Debug("version mismatch, retrying update", "key", key, "attempt", attempt)
	}
}

// storeError translates table store outcomes into cookbook errors.
func (r *Repository[T]) storeError(err error, key string) error {
	switch {
	case errors.Is(err, tablestore.ErrNotFound):
		return fmt.Errorf("%w: %s %q", ErrNotFound, r.collection, key)
	case errors.Is(err, tablestore.ErrConflict):
		return fmt.Errorf("%w: %s %q", ErrConflict, r.collection, key)
	case errors.Is(err, tablestore.ErrVersionMismatch):
		return fmt.Errorf("%w: %s %q", ErrConcurrentModification, r.collection, key)
	default:
		return fmt.Errorf("%w: %s %q: %v", ErrStorage, r.collection, key, err)
	}
}
