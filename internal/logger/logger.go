package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a text logger writing to stderr at the given level.
func New(lvl slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, lvl)
}

// NewWithWriter is New with a custom destination.
func NewWithWriter(w io.Writer, lvl slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})

	return slog.New(handler)
}

// ParseLevel accepts debug, info, warn and error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(strings.TrimSpace(s)))
	return lvl, err
}
