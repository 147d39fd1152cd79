// Package logging configures the global slog logger for plus-cli.
//
// Passwords and request bodies must never be logged; callers log URLs,
// status codes and sizes only.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup configures the global slog logger with text output.
// If debug is true, sets level to Debug; otherwise Info.
// Output goes to the provided writer (defaults to os.Stderr if nil).
func Setup(debug bool, w io.Writer) {
	configure(debug, w, false)
}

// SetupJSON configures the global slog logger with JSON output.
func SetupJSON(debug bool, w io.Writer) {
	configure(debug, w, true)
}

func configure(debug bool, w io.Writer, jsonOutput bool) {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
