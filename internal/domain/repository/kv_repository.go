package repository

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned when a value does not fit in the store.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KVRepository is a durable string-keyed store of JSON documents.
type KVRepository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set creates or replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key; missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
