package cmdutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveJSONInput_Inline(t *testing.T) {
	got, err := ResolveJSONInput(`{"a":1}`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a":1}` {
		t.Errorf("expected inline JSON passed through, got %q", got)
	}
}

func TestResolveJSONInput_File(t *testing.T) {
	path := writeTempFile(t, `{"a":2}`+"\n")

	got, err := ResolveJSONInput("", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a":2}` {
		t.Errorf("expected trimmed file content, got %q", got)
	}
}

func TestResolveJSONInput_AtFile(t *testing.T) {
	path := writeTempFile(t, `{"a":3}`)

	got, err := ResolveJSONInput("@"+path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a":3}` {
		t.Errorf("expected @file content, got %q", got)
	}
}

func TestResolveJSONInput_BothSourcesRejected(t *testing.T) {
	if _, err := ResolveJSONInput(`{}`, "file.json"); err == nil {
		t.Error("expected an error for inline JSON plus --file")
	}
}

func TestReadInputSource_MissingFile(t *testing.T) {
	if _, err := ReadInputSource(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestReadPassword_PipedInput(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()

	go func() {
		_, _ = w.WriteString("secret\n")
		_ = w.Close()
	}()

	var prompt nopWriter
	got, err := ReadPassword(prompt, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "secret" {
		t.Errorf("expected %q, got %q", "secret", got)
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
