// Package storage is the panel's durable client state: a small key/value
// store standing in for browser localStorage.
package storage

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	// KeyAuthToken holds the raw bearer token attached to API requests.
	KeyAuthToken = "auth_token"

	// KeySession holds the JSON session snapshot.
	KeySession = "auth-storage"

	// KeyUIPreferences holds the JSON UI preferences.
	KeyUIPreferences = "ui-storage"
)

var (
	ErrNotFound = errors.New("storage: not found")

	// ErrCorrupt is returned when a stored value can't be decoded, e.g. a
	// sealed value opened with the wrong key.
	ErrCorrupt = errors.New("storage: corrupt value")
)

// KV is implemented by every driver. Multi-key writes are atomic.
type KV interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error

	// Delete removes keys; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	Close() error
}
