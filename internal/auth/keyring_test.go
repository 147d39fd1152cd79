package auth

import (
	"path/filepath"
	"testing"
)

func TestShouldForceFileBackend(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		dbusAddr string
		want     bool
	}{
		{"linux headless", "linux", "", true},
		{"linux with dbus", "linux", "unix:path=/run/user/1000/bus", false},
		{"darwin", "darwin", "", false},
		{"windows", "windows", "", false},
		{"linux whitespace dbus", "linux", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldForceFileBackend(tt.goos, tt.dbusAddr); got != tt.want {
				t.Errorf("shouldForceFileBackend(%q, %q) = %v, want %v", tt.goos, tt.dbusAddr, got, tt.want)
			}
		})
	}
}

func TestKeyringFileDir_CredentialsDirOverride(t *testing.T) {
	t.Setenv(CredentialsDirEnvVarName, "/tmp/creds")

	want := filepath.Join("/tmp/creds", ServiceName, "keyring")
	if got := keyringFileDir(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestKeyringFilePassword(t *testing.T) {
	t.Setenv(KeyringPasswordEnvVarName, "")
	if got := keyringFilePassword(); got != ServiceName {
		t.Errorf("expected service name fallback, got %q", got)
	}

	t.Setenv(KeyringPasswordEnvVarName, "hunter2")
	if got := keyringFilePassword(); got != "hunter2" {
		t.Errorf("expected env password, got %q", got)
	}
}
