package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/ezbjus/bariwikiemerg/internal/config"
)

// NewLogger builds the process-wide *slog.Logger from LogConfig and
// installs it via slog.SetDefault.
//
// Format "json" emits structured output for production; anything else
// falls back to the text handler with source locations for local runs.
// Level accepts debug, info, warn, error (case-insensitive), default info.
// Output goes to os.Stderr.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	textFormat := !strings.EqualFold(cfg.Format, "json")

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: textFormat,
	}

	var handler slog.Handler
	if textFormat {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
