// Package logging is the console's structured logger: a context-aware
// interface and its log/slog implementation.
package logging

import "context"

// Logger takes key/value pairs after the message:
//
//	log.Info(ctx, "list loaded", "kind", "cere", "count", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
