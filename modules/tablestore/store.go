// Package tablestore is the key/value table store the cookbook aggregates are
// persisted in. Every backend stores opaque blobs under (collection, key) and
// hands out an opaque version tag with each read, which guards the next
// conditional write.
package tablestore

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// Outcomes of store operations. Backends translate their library specific
// errors into these exactly once; callers only use errors.Is.
var (
	// ErrNotFound is returned by Get and Delete when no entity exists at the key.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned by Insert when the key is already taken.
	ErrConflict = errors.New("entity already exists")

	// ErrVersionMismatch is returned by Put when the stored version differs
	// from the expected one, or the entity vanished since it was read. A
	// backend whose Delete is conditioned on a fresh read returns it when the
	// entity kept changing under every attempt.
	ErrVersionMismatch = errors.New("version mismatch")
)

// Entry is one stored entity.
type Entry struct {
	Key     string
	Value   []byte
	Version string
}

// KeyPredicate selects keys in Query.
type KeyPredicate func(key string) bool

// MatchAll selects every key.
func MatchAll() KeyPredicate {
	return func(string) bool { return true }
}

// HasPrefix selects keys starting with prefix. An empty prefix selects all.
func HasPrefix(prefix string) KeyPredicate {
	return func(key string) bool { return strings.HasPrefix(key, prefix) }
}

// Store is the table store adapter.
type Store interface {
	// Get returns the entity and its version tag.
	Get(ctx context.Context, collection, key string) (Entry, error)

	// Insert stores a new entity and returns its version tag.
	Insert(ctx context.Context, collection, key string, value []byte) (string, error)

	// Put replaces an entity if its version still equals expectedVersion and
	// returns the new version tag.
	Put(ctx context.Context, collection, key string, value []byte, expectedVersion string) (string, error)

	// Delete removes an entity.
	Delete(ctx context.Context, collection, key string) error

	// Query returns all entities whose key matches, ordered by key. The
	// result is empty, never nil, when nothing matches.
	Query(ctx context.Context, collection string, match KeyPredicate) ([]Entry, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

func sortEntries(entries []Entry) []Entry {
	if entries == nil {
		return []Entry{}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}
