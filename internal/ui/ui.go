// Package ui provides terminal color support for plus-cli messages.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	// ColorAuto detects whether to use colors from terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output.
	ColorAlways
	// ColorNever disables all colored output.
	ColorNever
)

// UI provides formatted terminal output with color support.
// All output goes to stderr by default, leaving stdout for data.
type UI struct {
	out *termenv.Output
}

// New creates a UI writing to stderr with the given color mode.
// It respects the NO_COLOR environment variable (POSIX standard).
func New(mode ColorMode) *UI {
	return NewWithWriter(os.Stderr, mode)
}

// NewWithWriter creates a UI writing to w with the given color mode.
func NewWithWriter(w io.Writer, mode ColorMode) *UI {
	if os.Getenv("NO_COLOR") != "" {
		mode = ColorNever
	}

	profile := termenv.ColorProfile()
	switch mode {
	case ColorNever:
		profile = termenv.Ascii
	case ColorAlways:
		if profile == termenv.Ascii {
			profile = termenv.ANSI256
		}
	}

	return &UI{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// Success prints a success message in green.
func (u *UI) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String("✓ "+msg).Foreground(termenv.ANSIGreen))
}

// Warning prints a warning message in yellow.
func (u *UI) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String("⚠ "+msg).Foreground(termenv.ANSIYellow))
}

// Error prints an error message in red.
func (u *UI) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String("✗ "+msg).Foreground(termenv.ANSIRed))
}

// Info prints an informational message in blue.
func (u *UI) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String("ℹ "+msg).Foreground(termenv.ANSIBlue))
}

// Writer returns the underlying writer for the UI.
func (u *UI) Writer() io.Writer {
	return u.out
}
