package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for aggregation run IDs.
	RunIDKey contextKey = "run_id"

	// GameKey is the context key for the detected game.
	GameKey contextKey = "game"

	// FileKey is the context key for the script file being processed.
	FileKey contextKey = "file"
)

// WithRunID adds an aggregation run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// WithGame adds the game name to the context.
func WithGame(ctx context.Context, game string) context.Context {
	return context.WithValue(ctx, GameKey, game)
}

// GetGame retrieves the game name from the context.
func GetGame(ctx context.Context) string {
	if game, ok := ctx.Value(GameKey).(string); ok {
		return game
	}
	return ""
}

// WithFile adds a script file path to the context.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, FileKey, path)
}

// GetFile retrieves the script file path from the context.
func GetFile(ctx context.Context) string {
	if path, ok := ctx.Value(FileKey).(string); ok {
		return path
	}
	return ""
}

// Fields returns the context values as alternating key/value pairs.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	if id := GetRunID(ctx); id != "" {
		fields = append(fields, "run_id", id)
	}
	if game := GetGame(ctx); game != "" {
		fields = append(fields, "game", game)
	}
	if path := GetFile(ctx); path != "" {
		fields = append(fields, "file", path)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
	}
	return fields
}

// contextHandler adds Fields(ctx) to every record.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if fields := Fields(ctx); len(fields) > 0 {
		r.Add(fields...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
