// Package logging provides a small structured logger on top of log/slog,
// with a ParseLevel helper and handshake-scoped child loggers. The noise
// handshake core does no logging of its own; this package is strictly for
// callers that drive it.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a
// slog.Level, defaulting to Info for anything unrecognized.
func ParseLevel(input string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a JSON-handler slog.Logger writing to os.Stderr at the given
// level.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// ForHandshake returns a child logger scoped to one handshake attempt, with
// the peer address and role attached to every record it emits.
func ForHandshake(base *slog.Logger, peerAddr string, initiator bool) *slog.Logger {
	role := "responder"
	if initiator {
		role = "initiator"
	}
	return base.With(
		slog.String("peer", peerAddr),
		slog.String("role", role),
		slog.String("pattern", "XK"),
	)
}
