// Package logging defines the structured-logging interface used across
// itemkeeper and its slog-backed implementation.
package logging

import "context"

// Logger logs structured records. The ctx is forwarded to the handler.
// Trailing args are alternating keys and values:
//
//	log.Info(ctx, "item added", "itemid", id, "backend", backend)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	// Error is for failed operations; request handlers use it for 5xx only.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}
