// Package auth keeps the secure-mode database key in the system credential
// store.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultSecretService = "pragati"
	defaultSecretUser    = "db_key"
)

var (
	keyringGet    = keyring.Get
	keyringSet    = keyring.Set
	keyringDelete = keyring.Delete
)

// ErrNoDBKey means nothing usable is stored for the configured service/account.
var ErrNoDBKey = errors.New("db key not found")

// LoadDBKey reads the database key.
//
// Order of precedence:
// 1) PRAGATI_DB_KEY environment variable.
// 2) Keyring item referenced by service/account.
func LoadDBKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("PRAGATI_DB_KEY")); key != "" {
		return key, nil
	}

	service, account := keyringItem()
	secret, err := keyringGet(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoDBKey
		}
		return "", fmt.Errorf(
			"failed to read keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}

	key := strings.TrimSpace(secret)
	if key == "" {
		return "", ErrNoDBKey
	}
	return key, nil
}

// SaveDBKey stores the key in the system credential store.
func SaveDBKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("db key cannot be empty")
	}

	service, account := keyringItem()
	if err := keyringSet(service, account, trimmed); err != nil {
		return fmt.Errorf(
			"failed to store keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

// DeleteDBKey forgets the stored key. A missing item is not an error.
func DeleteDBKey() error {
	service, account := keyringItem()
	if err := keyringDelete(service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf(
			"failed to delete keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

func HasDBKey() (bool, error) {
	_, err := LoadDBKey()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNoDBKey):
		return false, nil
	default:
		return false, err
	}
}

func keyringItem() (service, account string) {
	return envOrDefault("PRAGATI_KEYCHAIN_SERVICE", defaultSecretService),
		envOrDefault("PRAGATI_KEYCHAIN_ACCOUNT", defaultSecretUser)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
