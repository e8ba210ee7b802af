// Package logging provides the structured logger handed to every module.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/rs/zerolog"
)

// Config selects level and output format.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// ConfigFromEnv reads LOG_LEVEL and LOG_FORMAT.
func ConfigFromEnv() Config {
	return Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	}
}

// Logger implements types.Logger on top of zerolog. Arguments after the
// message are alternating key/value pairs.
type Logger struct {
	zl zerolog.Logger
}

var _ types.Logger = (*Logger)(nil)

// New creates a logger writing to w, or stdout when w is nil.
func New(cfg Config, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

func (l *Logger) Debug(msg string, args ...any) { l.zl.Debug().Fields(args).Msg(msg) }
func (l *Logger) Info(msg string, args ...any)  { l.zl.Info().Fields(args).Msg(msg) }
func (l *Logger) Warn(msg string, args ...any)  { l.zl.Warn().Fields(args).Msg(msg) }
func (l *Logger) Error(msg string, args ...any) { l.zl.Error().Fields(args).Msg(msg) }

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...any) types.Logger {
	return &Logger{zl: l.zl.With().Fields(args).Logger()}
}

// WithModule tags every line with the module name.
func (l *Logger) WithModule(name string) types.Logger {
	return &Logger{zl: l.zl.With().Str("module", name).Logger()}
}

// WithError attaches err under the "error" key.
func (l *Logger) WithError(err error) types.Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}
