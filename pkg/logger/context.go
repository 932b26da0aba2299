package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// With stores a child of the context's logger carrying fields, so later
// middleware and handlers log with the same trace and caller attributes.
func With(ctx context.Context, fields ...any) context.Context {
	return Into(ctx, From(ctx).With(fields...))
}

// Into stores l as the request logger.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// From returns the request logger, or the process logger outside a request.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return LoggerWrapper()
}
