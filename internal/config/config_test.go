package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// useTempConfig points the package at a temp config path for the test.
func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	orig := SetConfigPathFunc(func() (string, error) { return path, nil })
	t.Cleanup(func() { SetConfigPathFunc(orig) })
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Account != "" {
		t.Errorf("expected no account by default, got %q", cfg.Account)
	}
	if cfg.APIBase == "" {
		t.Error("expected a default API base")
	}
	if !cfg.TLSVerification() {
		t.Error("expected TLS verification on by default")
	}
	if !cfg.CompressionEnabled() {
		t.Error("expected compression on by default")
	}
	if cfg.ConnectTimeout() != 4*time.Second {
		t.Errorf("expected 4s connect timeout, got %v", cfg.ConnectTimeout())
	}
	if cfg.ReadTimeout() != 10*time.Second {
		t.Errorf("expected 10s read timeout, got %v", cfg.ReadTimeout())
	}
	if cfg.ExpiredSubscriptionMaxDays != 30 {
		t.Errorf("expected 30 day grace window, got %d", cfg.ExpiredSubscriptionMaxDays)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	useTempConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBase != Default().APIBase {
		t.Errorf("expected defaults for a missing file, got %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	useTempConfig(t)

	verify := false
	cfg := Default()
	cfg.Account = "roaster@example.com"
	cfg.Locale = "de_AT"
	cfg.VerifyTLS = &verify
	cfg.CompressionThreshold = 1024

	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Account != "roaster@example.com" {
		t.Errorf("expected account round-tripped, got %q", loaded.Account)
	}
	if loaded.Locale != "de_AT" {
		t.Errorf("expected locale round-tripped, got %q", loaded.Locale)
	}
	if loaded.TLSVerification() {
		t.Error("expected verify_tls false to round-trip")
	}
	if loaded.CompressionThreshold != 1024 {
		t.Errorf("expected threshold 1024, got %d", loaded.CompressionThreshold)
	}
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected an error for invalid YAML")
	}
}

func TestAuthEndpoint(t *testing.T) {
	cfg := Default()
	if got := cfg.AuthEndpoint(); got != cfg.APIBase+"/accounts/users/authenticate" {
		t.Errorf("unexpected default auth endpoint %q", got)
	}

	cfg.AuthURL = "https://example.com/login"
	if got := cfg.AuthEndpoint(); got != "https://example.com/login" {
		t.Errorf("expected override to win, got %q", got)
	}
}
