package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestMessages_NoColor(t *testing.T) {
	var buf bytes.Buffer
	u := NewWithWriter(&buf, ColorNever)

	u.Success("stored %s", "password")
	u.Warning("subscription expired")
	u.Error("request failed")
	u.Info("limits: %d", 42)

	out := buf.String()
	for _, want := range []string{
		"✓ stored password",
		"⚠ subscription expired",
		"✗ request failed",
		"ℹ limits: 42",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no ANSI escapes with ColorNever")
	}
}

func TestNoColorEnvDisablesColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	u := NewWithWriter(&buf, ColorAlways)
	u.Success("done")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected NO_COLOR to suppress ANSI escapes")
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	u := NewWithWriter(&buf, ColorNever)
	if u.Writer() == nil {
		t.Error("expected a non-nil writer")
	}
}
