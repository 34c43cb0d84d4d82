// Package keyring keeps the PostgreSQL connection string in the OS keyring
// so it never lands in the config file.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/hearth/internal/constants"
)

var (
	// ErrNotFound means the keyring works but holds no connection string.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable means no usable keyring backend was found, for
	// example a headless Linux box without a Secret Service daemon.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// availabilityProbe is a user name that is read but never written.
const availabilityProbe = "test-availability"

// entry is one secret stored under the hearth service name.
type entry string

var connection = entry(constants.DefaultKeyringUser)

func (e entry) get() (string, error) {
	secret, err := keyring.Get(constants.AppName, string(e))
	switch {
	case err == nil:
		return secret, nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
}

func (e entry) set(secret string) error {
	if err := keyring.Set(constants.AppName, string(e), secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func (e entry) remove() error {
	err := keyring.Delete(constants.AppName, string(e))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
}

// GetConnectionString returns the stored PostgreSQL connection string. It
// returns ErrNotFound when nothing is stored and wraps ErrKeyringUnavailable
// when the backend cannot be reached.
func GetConnectionString() (string, error) {
	return connection.get()
}

// SetConnectionString stores connStr, replacing any previous value.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return connection.set(connStr)
}

// DeleteConnectionString removes the stored connection string. Deleting a
// missing entry returns ErrNotFound.
func DeleteConnectionString() error {
	return connection.remove()
}

// IsAvailable reports whether a keyring backend answers. Any read error other
// than "not found" counts as unavailable.
func IsAvailable() bool {
	_, err := entry(availabilityProbe).get()
	return !errors.Is(err, ErrKeyringUnavailable)
}
