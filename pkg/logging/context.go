package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
)

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger stored in ctx, or the default logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithRequestID stores the API request id and tags the context logger.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return with(ctx, "request_id", requestID)
}

// RequestID returns the API request id, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithLocation tags the context logger with a directory row id.
func WithLocation(ctx context.Context, locationID string) context.Context {
	return with(ctx, "location_id", locationID)
}

// WithTable tags the context logger with a backend table.
func WithTable(ctx context.Context, table string) context.Context {
	return with(ctx, "table", table)
}

// WithOperation tags the context logger with a submission step.
func WithOperation(ctx context.Context, operation string) context.Context {
	return with(ctx, "operation", operation)
}

func with(ctx context.Context, key, value string) context.Context {
	logger := Ctx(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
