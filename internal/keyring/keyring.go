// Package keyring stores each account's secret key in the OS keyring,
// keyed by username under a fixed service name. The secret key never
// touches the database; an account row without its keyring entry is
// cryptographically useless, and vice versa.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "passkeep"

// Holder is the OS keyring scoped to the passkeep service.
type Holder struct{}

// New returns the keyring-backed secret holder.
func New() Holder {
	return Holder{}
}

// Get retrieves the secret key for a username. The second return value is
// false when no entry exists; err reports keyring unavailability only.
func (Holder) Get(username string) (string, bool, error) {
	secret, err := keyring.Get(serviceName, username)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return secret, true, nil
}

// Set stores the secret key for a username, replacing any existing entry.
func (Holder) Set(username, secret string) error {
	return keyring.Set(serviceName, username, secret)
}

// Delete removes the secret key for a username. Deleting a missing entry is
// not an error.
func (Holder) Delete(username string) error {
	err := keyring.Delete(serviceName, username)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
