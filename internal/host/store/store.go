// Package store defines the durable key-value contract the host supplies to
// the bazaar core.
//
// Keys are opaque byte strings namespaced by the core's key scheme. The host
// guarantees that all writes issued within one core call commit together or
// not at all; the contract itself is deliberately minimal.
package store

import (
	"context"
	"errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// KV persists opaque key-value records.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key []byte) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value []byte) error
	// Remove deletes the value stored under key. Removing a missing key is
	// not an error.
	Remove(ctx context.Context, key []byte) error
	// Has reports whether a value is stored under key.
	Has(ctx context.Context, key []byte) (bool, error)
}
