// Package store keeps ordered record collections in single kv slots.
//
// A PersistedList is read and written as a whole: Load decodes the entire
// JSON array, Save replaces it. Mutations are pure functions over the loaded
// snapshot (Upsert, Remove) followed by a Save. Concurrent writers across
// processes resolve as last-write-wins at whole-list granularity; within one
// process Mutate serialises read-modify-write cycles on the same list.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"lifedeck/internal/kv"
	applog "lifedeck/internal/log"
)

// ErrDecode is reported by LoadStrict when a slot holds content that does
// not decode as the list's record type.
var ErrDecode = errors.New("decode failure")

// PersistedList is an ordered collection of T stored under one key.
type PersistedList[T any] struct {
	key    string
	kv     kv.Store
	logger *applog.Logger

	mu sync.Mutex
}

// NewList binds a list to key in s.
func NewList[T any](s kv.Store, key string, logger *applog.Logger) *PersistedList[T] {
	if logger == nil {
		logger = applog.Default(applog.ComponentStore)
	}
	return &PersistedList[T]{
		key:    key,
		kv:     s,
		logger: logger.WithComponent(applog.ComponentStore),
	}
}

// Key returns the slot name.
func (l *PersistedList[T]) Key() string {
	return l.key
}

// Load returns the stored collection. An absent slot, undecodable content
// or a failed read all yield an empty slice; Load never writes.
func (l *PersistedList[T]) Load(ctx context.Context) []T {
	items, err := l.LoadStrict(ctx)
	if err != nil {
		l.logger.WarnContext(ctx, "Slot unreadable, starting from empty list",
			applog.FieldSlot, l.key,
			applog.FieldError, err.Error())
		return []T{}
	}
	return items
}

// LoadStrict is Load for callers that must tell an empty list apart from a
// failed read. Errors wrap kv.ErrStorage or ErrDecode.
func (l *PersistedList[T]) LoadStrict(ctx context.Context) ([]T, error) {
	raw, ok, err := l.kv.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.key, err)
	}
	if !ok {
		return []T{}, nil
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", l.key, ErrDecode, err)
	}
	return items, nil
}

// Save replaces the stored collection with items. On error the slot keeps
// its previous content and the caller's in-memory copy is ahead of it.
func (l *PersistedList[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", l.key, err)
	}
	if err := l.kv.Set(ctx, l.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", l.key, err)
	}
	return nil
}

// Clear stores an empty collection.
func (l *PersistedList[T]) Clear(ctx context.Context) error {
	return l.Save(ctx, nil)
}

// Read is the load used by features: undecodable content is absorbed as an
// empty list (and logged), but a failed read is returned so the caller can
// report it instead of showing an empty list.
func (l *PersistedList[T]) Read(ctx context.Context) ([]T, error) {
	items, err := l.LoadStrict(ctx)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, ErrDecode) {
		return nil, err
	}
	l.logger.WarnContext(ctx, "Discarding undecodable slot content",
		applog.FieldSlot, l.key,
		applog.FieldError, err.Error())
	return []T{}, nil
}

// Mutate runs one read-modify-write cycle: load, apply fn, save. fn returns
// the new collection or an error that aborts the cycle before anything is
// written. Calls on the same list are serialised.
func (l *PersistedList[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) ([]T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.Read(ctx)
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := l.Save(ctx, next); err != nil {
		return nil, err
	}
	if next == nil {
		next = []T{}
	}
	return next, nil
}

func decodeList[T any](raw []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		// "null" is as good as absent.
		items = []T{}
	}
	return items, nil
}
