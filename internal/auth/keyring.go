// Package auth stores the artisan.plus account password in the OS keyring.
//
// Backend selection is handled by 99designs/keyring; on headless Linux
// (no DBus session) the encrypted file backend is forced so the CLI works
// in containers and CI.
package auth

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	// ServiceName is the keyring service name for plus-cli.
	ServiceName = "plus-cli"
	// EnvVarName is the environment variable fallback for the password.
	EnvVarName = "PLUS_PASSWORD"
	// CredentialsDirEnvVarName controls the credential storage root directory.
	// plus-cli keyring files are stored under: <dir>/plus-cli/keyring
	CredentialsDirEnvVarName = "PLUS_CREDENTIALS_DIR"
	// KeyringPasswordEnvVarName sets the file keyring passphrase for
	// non-interactive setups.
	KeyringPasswordEnvVarName = "PLUS_KEYRING_PASSWORD"
	// DBUSSessionAddressEnvVarName is used to detect Linux headless mode.
	DBUSSessionAddressEnvVarName = "DBUS_SESSION_BUS_ADDRESS"
)

// KeyringProvider defines an interface for keyring operations.
type KeyringProvider interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
	Remove(key string) error
}

// osKeyring wraps the actual OS keyring implementation.
type osKeyring struct {
	ring keyring.Keyring
}

func keyringFileDir() string {
	if dir := strings.TrimSpace(os.Getenv(CredentialsDirEnvVarName)); dir != "" {
		return filepath.Join(dir, ServiceName, "keyring")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.Getenv("HOME")
	}

	configDir = strings.TrimSpace(configDir)
	if configDir == "" {
		return string(os.PathSeparator) + filepath.Join(ServiceName, "keyring")
	}
	return filepath.Join(configDir, ServiceName, "keyring")
}

func keyringFilePassword() string {
	if password := strings.TrimSpace(os.Getenv(KeyringPasswordEnvVarName)); password != "" {
		return password
	}
	return ServiceName
}

func shouldForceFileBackend(goos string, dbusAddr string) bool {
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

// newOSKeyring creates a new OS keyring provider.
func newOSKeyring() (KeyringProvider, error) {
	cfg := keyring.Config{
		ServiceName: ServiceName,
		// macOS Keychain settings
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		// File-based fallback (for environments without GUI keyring)
		FileDir:          keyringFileDir(),
		FilePasswordFunc: func(_ string) (string, error) { return keyringFilePassword(), nil },
	}

	if shouldForceFileBackend(runtime.GOOS, os.Getenv(DBUSSessionAddressEnvVarName)) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &osKeyring{ring: ring}, nil
}

func (k *osKeyring) Get(key string) (keyring.Item, error) {
	return k.ring.Get(key)
}

func (k *osKeyring) Set(item keyring.Item) error {
	return k.ring.Set(item)
}

func (k *osKeyring) Remove(key string) error {
	return k.ring.Remove(key)
}

// defaultProvider is the keyring provider used by the package.
// Can be overridden for testing using SetProviderFunc (in testing.go).
var defaultProvider func() (KeyringProvider, error) = newOSKeyring
