// Package kv defines the single-slot key-value store every persisted list
// sits on. A slot holds one opaque encoded value; writes replace the whole
// slot atomically and there is no partial update.
package kv

import (
	"context"
	"errors"
)

// ErrStorage marks a failed read or write against the underlying store.
var ErrStorage = errors.New("storage failure")

// Store is a flat namespace of slots.
type Store interface {
	// Get returns the slot content; ok is false when the slot is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the slot content.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the slot. Deleting an absent slot is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists slot names in ascending order.
	Keys(ctx context.Context) ([]string, error)
}

// Clone returns a copy of b so callers never share buffers with a store.
func Clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
