package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	userIDKey    contextKey = "tg_user_id"
	requestIDKey contextKey = "request_id"
)

// WithRequest tags ctx so every record logged with it carries the Telegram
// user and request IDs.
func WithRequest(ctx context.Context, userID int64, requestID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		r.AddAttrs(slog.Int64(string(userIDKey), id))
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		r.AddAttrs(slog.String(string(requestIDKey), id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// NewLogger builds a logger writing to w. format is "text" or "json".
func NewLogger(w io.Writer, level string, format string) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if level != "" {
		if err := logLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("failed to parse log level: %w", err)
		}
	}

	options := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, options)
	case "json":
		handler = slog.NewJSONHandler(w, options)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return slog.New(contextHandler{handler}), nil
}

func SetupLogger(level string, format string) error {
	logger, err := NewLogger(os.Stderr, level, format)
	if err != nil {
		slog.Error("Error setting up logger", "error", err)
		return err
	}
	slog.SetDefault(logger)
	return nil
}
