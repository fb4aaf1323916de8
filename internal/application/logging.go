package application

import (
	"io"
	"log/slog"
)

// NewLogger builds the middleware logger for a verbosity level. Statuses
// below warning are logged as info (local) or debug (remote and all).
func NewLogger(v Verbosity, w io.Writer) *slog.Logger {
	var level slog.Level
	switch {
	case v <= VerbositySilent:
		return slog.New(slog.DiscardHandler)
	case v == VerbosityException:
		level = slog.LevelError
	case v == VerbosityWarning:
		level = slog.LevelWarn
	case v == VerbosityStatusLocal:
		level = slog.LevelInfo
	default:
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: v >= VerbosityStatusAll,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
