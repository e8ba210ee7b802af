package tablestore

import (
	"context"
	"fmt"
)

// Open creates the backend selected by cfg.Driver. Collections must list
// every collection the caller will use; backends with per-collection
// resources (JetStream buckets) create them here.
func Open(ctx context.Context, cfg Config, collections []string) (Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverJetStream:
		return NewJetStreamStore(ctx, cfg.JetStream, collections)
	case DriverSQLite:
		return NewSQLiteStore(cfg.SQLite)
	case DriverRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case DriverS3:
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
