package tablestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Compile-time interface check.
var _ Store = (*JetStreamStore)(nil)

// JetStreamStore keeps every collection in its own JetStream KV bucket. The
// bucket revision of a key is its version tag.
type JetStreamStore struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	buckets map[string]jetstream.KeyValue
}

// NewJetStreamStore connects to NATS and opens (or creates) one bucket per
// collection.
func NewJetStreamStore(ctx context.Context, cfg JetStreamConfig, collections []string) (*JetStreamStore, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name("cookbook-tablestore"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	s := &JetStreamStore{
		conn:    conn,
		js:      js,
		buckets: make(map[string]jetstream.KeyValue, len(collections)),
	}
	for _, c := range collections {
		bucket, err := s.getOrCreateBucket(ctx, c, cfg.storageType())
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to open bucket %q: %w", c, err)
		}
		s.buckets[c] = bucket
	}
	return s, nil
}

func (s *JetStreamStore) getOrCreateBucket(ctx context.Context, name string, storage jetstream.StorageType) (jetstream.KeyValue, error) {
	bucket, err := s.js.KeyValue(ctx, name)
	if err == nil {
		return bucket, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, err
	}

	return s.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "cookbook " + name,
		History:     1,
		Storage:     storage,
	})
}

func (s *JetStreamStore) bucket(collection string) (jetstream.KeyValue, error) {
	b, ok := s.buckets[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	return b, nil
}

// Get reads the latest revision of a key.
func (s *JetStreamStore) Get(ctx context.Context, collection, key string) (Entry, error) {
	b, err := s.bucket(collection)
	if err != nil {
		return Entry{}, err
	}

	entry, err := b.Get(ctx, encodeKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("failed to get %s/%s: %w", collection, key, err)
	}

	return Entry{
		Key:     key,
		Value:   entry.Value(),
		Version: strconv.FormatUint(entry.Revision(), 10),
	}, nil
}

// Insert creates a key; a live key is ErrConflict.
func (s *JetStreamStore) Insert(ctx context.Context, collection, key string, value []byte) (string, error) {
	b, err := s.bucket(collection)
	if err != nil {
		return "", err
	}

	rev, err := b.Create(ctx, encodeKey(key), value)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return "", ErrConflict
		}
		return "", fmt.Errorf("failed to create %s/%s: %w", collection, key, err)
	}
	return strconv.FormatUint(rev, 10), nil
}

// Put updates a key if its last revision equals expectedVersion.
func (s *JetStreamStore) Put(ctx context.Context, collection, key string, value []byte, expectedVersion string) (string, error) {
	b, err := s.bucket(collection)
	if err != nil {
		return "", err
	}

	expected, err := strconv.ParseUint(expectedVersion, 10, 64)
	if err != nil {
		return "", ErrVersionMismatch
	}

	rev, err := b.Update(ctx, encodeKey(key), value, expected)
	if err != nil {
		if isWrongLastSequence(err) {
			return "", ErrVersionMismatch
		}
		return "", fmt.Errorf("failed to update %s/%s: %w", collection, key, err)
	}
	return strconv.FormatUint(rev, 10), nil
}

// jetStreamDeleteAttempts bounds how often Delete re-reads a key that keeps
// changing under it.
const jetStreamDeleteAttempts = 3

// Delete places a delete marker on a live key. The marker is conditioned on
// the revision just read, so a concurrent write is not silently dropped; a
// key that changed in between is re-read and the delete retried.
func (s *JetStreamStore) Delete(ctx context.Context, collection, key string) error {
	b, err := s.bucket(collection)
	if err != nil {
		return err
	}

	encoded := encodeKey(key)
	for attempt := 1; attempt <= jetStreamDeleteAttempts; attempt++ {
		entry, err := b.Get(ctx, encoded)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get %s/%s: %w", collection, key, err)
		}

		err = b.Delete(ctx, encoded, jetstream.LastRevision(entry.Revision()))
		if err == nil {
			return nil
		}
		if !isWrongLastSequence(err) {
			return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
		}
	}
	return ErrVersionMismatch
}

// Query lists the bucket keys and reads every match.
func (s *JetStreamStore) Query(ctx context.Context, collection string, match KeyPredicate) ([]Entry, error) {
	b, err := s.bucket(collection)
	if err != nil {
		return nil, err
	}

	lister, err := b.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer lister.Stop()

	var keys []string
	for encoded := range lister.Keys() {
		key, err := decodeKey(encoded)
		if err != nil {
			return nil, err
		}
		if match(key) {
			keys = append(keys, key)
		}
	}

	out := make([]Entry, 0, len(keys))
	for _, key := range keys {
		e, err := s.Get(ctx, collection, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return sortEntries(out), nil
}

// Ping reports whether the NATS connection is up.
func (s *JetStreamStore) Ping(context.Context) error {
	if s.conn == nil || !s.conn.IsConnected() {
		return errors.New("NATS connection is not active")
	}
	return nil
}

// Close closes the NATS connection.
func (s *JetStreamStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}

func isWrongLastSequence(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}
