package bundo

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-logr/logr"
)

// NewLogger returns a new logr.Logger.
func NewLogger() logr.Logger {
	return logr.FromSlogHandler(
		slog.NewTextHandler(os.Stderr, nil),
	)
}

// WithLogger embeds the logr.Logger in the context.Context
// to be retrieved by LoggerFrom.
func WithLogger(ctx context.Context, log logr.Logger) context.Context {
	return logr.NewContext(ctx, log)
}

// LoggerFrom retrieves the logr.Logger embedded in the
// context.Context by WithLogger, discarding logs if
// there is none.
func LoggerFrom(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
