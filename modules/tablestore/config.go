package tablestore

import (
	"os"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

// Driver names a store backend.
type Driver string

const (
	DriverMemory    Driver = "memory"
	DriverJetStream Driver = "jetstream"
	DriverSQLite    Driver = "sqlite"
	DriverRedis     Driver = "redis"
	DriverS3        Driver = "s3"
)

// Config selects and configures a backend. Only the section matching Driver
// is used.
type Config struct {
	Driver    Driver
	JetStream JetStreamConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	S3        S3Config
}

// JetStreamConfig configures the JetStream KV backend.
type JetStreamConfig struct {
	URL string
	// Storage is "file" (default) or "memory".
	Storage string
}

func (c JetStreamConfig) storageType() jetstream.StorageType {
	if strings.EqualFold(c.Storage, "memory") {
		return jetstream.MemoryStorage
	}
	return jetstream.FileStorage
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	Path  string
	Debug bool
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// S3Config configures the S3 backend. Credentials fall back to the default
// AWS chain when AccessKeyID is empty.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. MinIO
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// ConfigFromEnv reads the store configuration from the environment.
//
//	STORE_DRIVER=memory|jetstream|sqlite|redis|s3 (default memory)
//	NATS_URL, NATS_STORAGE
//	SQLITE_PATH, SQLITE_DEBUG
//	REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_PREFIX
//	S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_PATH_STYLE,
//	S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY, S3_SESSION_TOKEN
func ConfigFromEnv() Config {
	cfg := Config{
		Driver: Driver(strings.ToLower(getenv("STORE_DRIVER", string(DriverMemory)))),
		JetStream: JetStreamConfig{
			URL:     getenv("NATS_URL", "nats://localhost:4222"),
			Storage: getenv("NATS_STORAGE", "file"),
		},
		SQLite: SQLiteConfig{
			Path:  getenv("SQLITE_PATH", "cookbook.db"),
			Debug: os.Getenv("SQLITE_DEBUG") == "true",
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			Prefix:   getenv("REDIS_PREFIX", "cookbook"),
		},
		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getenv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			PathStyle:       strings.EqualFold(os.Getenv("S3_PATH_STYLE"), "true"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("S3_SESSION_TOKEN"),
		},
	}
	if db, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		cfg.Redis.DB = db
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
