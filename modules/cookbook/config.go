package cookbook

import (
	"os"
	"strconv"

	"github.com/nerggnet/WebBackend/modules/tablestore"
)

// Config configures the cookbook module.
type Config struct {
	Store tablestore.Config

	// MaxUpdateAttempts bounds the read-modify-write cycles of one update.
	// 1 means a version mismatch is reported without retrying.
	MaxUpdateAttempts int
}

// ConfigFromEnv reads UPDATE_MAX_ATTEMPTS plus the store settings.
func ConfigFromEnv() Config {
	cfg := Config{
		Store:             tablestore.ConfigFromEnv(),
		MaxUpdateAttempts: 1,
	}
	if n, err := strconv.Atoi(os.Getenv("UPDATE_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.MaxUpdateAttempts = n
	}
	return cfg
}
