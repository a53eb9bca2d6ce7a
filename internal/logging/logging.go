// Package logging wraps zerolog with application-wide configuration and
// context-scoped operation ids.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

// requestIDKey carries the id assigned to one console operation.
const requestIDKey contextKey = "request_id"

// Config holds logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
}

// Setup builds the global logger from cfg. Text format uses the console
// writer; anything else emits JSON.
func Setup(cfg Config) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// WithRequestID stores an operation id in the context for FromContext to
// pick up.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// FromContext returns the global logger annotated with the context's
// operation id, when one is present.
func FromContext(ctx context.Context) *zerolog.Logger {
	builder := log.Logger.With()
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		builder = builder.Str("request_id", id)
	}
	logger := builder.Logger()
	return &logger
}

// Info logs an info message using the global logger.
func Info(msg string) {
	log.Info().Msg(msg)
}

// Error logs an error using the global logger.
func Error(err error, msg string) {
	log.Error().Err(err).Msg(msg)
}

// Fatal logs an error using the global logger and exits.
func Fatal(err error, msg string) {
	log.Fatal().Err(err).Msg(msg)
}
