package tablestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisValueField   = "value"
	redisVersionField = "version"
)

// RedisStore keeps each entity in a hash holding the blob and a uuid
// version, regenerated on every write. Conditional writes use WATCH/MULTI.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	prefix := cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) redisKey(collection, key string) string {
	return s.prefix + collection + ":" + encodeKey(key)
}

func (s *RedisStore) Get(ctx context.Context, collection, key string) (Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.redisKey(collection, key)).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("redis get %s/%s: %w", collection, key, err)
	}
	if len(fields) == 0 {
		return Entry{}, ErrNotFound
	}
	return Entry{Key: key, Value: []byte(fields[redisValueField]), Version: fields[redisVersionField]}, nil
}

func (s *RedisStore) Insert(ctx context.Context, collection, key string, value []byte) (string, error) {
	rk := s.redisKey(collection, key)
	version := uuid.NewString()
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, rk).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, rk, redisValueField, value, redisVersionField, version)
			return nil
		})
		return err
	}, rk)
	switch {
	case err == nil:
		return version, nil
	case errors.Is(err, ErrConflict), errors.Is(err, redis.TxFailedErr):
		return "", ErrConflict
	default:
		return "", fmt.Errorf("redis insert %s/%s: %w", collection, key, err)
	}
}

func (s *RedisStore) Put(ctx context.Context, collection, key string, value []byte, expectedVersion string) (string, error) {
	next := uuid.NewString()
	rk := s.redisKey(collection, key)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, rk, redisVersionField).Result()
		if errors.Is(err, redis.Nil) {
			return ErrVersionMismatch
		}
		if err != nil {
			return err
		}
		if current != expectedVersion {
			return ErrVersionMismatch
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, rk, redisValueField, value, redisVersionField, next)
			return nil
		})
		return err
	}, rk)
	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, ErrVersionMismatch), errors.Is(err, redis.TxFailedErr):
		return "", ErrVersionMismatch
	default:
		return "", fmt.Errorf("redis put %s/%s: %w", collection, key, err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, collection, key string) error {
	n, err := s.client.Del(ctx, s.redisKey(collection, key)).Result()
	if err != nil {
		return fmt.Errorf("redis delete %s/%s: %w", collection, key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Query(ctx context.Context, collection string, match KeyPredicate) ([]Entry, error) {
	base := s.prefix + collection + ":"
	entries := []Entry{}

	var cursor uint64
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, base+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", collection, err)
		}
		for _, rk := range keys {
			key, err := decodeKey(strings.TrimPrefix(rk, base))
			if err != nil || !match(key) {
				continue
			}
			e, err := s.Get(ctx, collection, key)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return sortEntries(entries), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
