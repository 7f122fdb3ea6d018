// Package observability provides logging setup and request correlation.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type contextKey string

const (
	// correlationKey carries the per-request correlation id.
	correlationKey contextKey = "correlation_id"
	// userKey carries the authenticated user id.
	userKey contextKey = "user_id"
)

// ctxHandler decorates every record with the correlation and user ids found
// in the context, so deep layers log them without threading fields around.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := CorrelationID(ctx); id != "" {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	if uid, ok := UserID(ctx); ok {
		r.AddAttrs(slog.Uint64("user_id", uint64(uid)))
	}
	return h.Handler.Handle(ctx, r)
}

// SetupLogging installs a context-aware JSON slog handler as the default
// logger and returns it. level accepts "debug", "info", "warn", "error".
func SetupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(&ctxHandler{handler})
	slog.SetDefault(logger)
	return logger
}

// NewCorrelationID creates a new unique correlation ID.
func NewCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey, id)
}

// CorrelationID retrieves the correlation ID from the context, if any.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID returns a new context carrying the authenticated user id.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userKey, id)
}

// UserID retrieves the authenticated user id from the context, if any.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userKey).(uint)
	return id, ok
}
