package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

// GetPassword retrieves the password for the given account.
// Priority: PLUS_PASSWORD env var first (avoids blocking keychain prompts
// in CI and headless environments), then the keyring.
// A missing password is not an error; it returns "" with a nil error.
func GetPassword(account string) (string, error) {
	if password := os.Getenv(EnvVarName); password != "" {
		return password, nil
	}
	if account == "" {
		return "", nil
	}

	provider, err := defaultProvider()
	if err != nil {
		return "", fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := provider.Get(account)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return string(item.Data), nil
}

// StorePassword stores the password for the given account in the keyring.
func StorePassword(account, password string) error {
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	provider, err := defaultProvider()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	err = provider.Set(keyring.Item{
		Key:   account,
		Label: "artisan.plus password for " + account,
		Data:  []byte(password),
	})
	if err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}

// DeletePassword removes the stored password for the given account.
// Does not return an error if no password is stored.
func DeletePassword(account string) error {
	if account == "" {
		return nil
	}

	provider, err := defaultProvider()
	if err != nil {
		// If we can't open the keyring, there's nothing to delete
		return nil
	}

	err = provider.Remove(account)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}

// HasPassword checks whether a password is available for the account.
func HasPassword(account string) bool {
	password, err := GetPassword(account)
	return err == nil && password != ""
}

// Store adapts the package functions to the credential store interface
// consumed by the plus client.
type Store struct{}

func (Store) GetPassword(account string) (string, error) {
	return GetPassword(account)
}

func (Store) DeletePassword(account string) error {
	return DeletePassword(account)
}
