package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"lifedeck/internal/kv"
	applog "lifedeck/internal/log"
)

// Slot holds a single value (not a list) under one key, e.g. a pointer to
// the last opened record.
type Slot[T any] struct {
	key    string
	kv     kv.Store
	logger *applog.Logger
}

func NewSlot[T any](s kv.Store, key string, logger *applog.Logger) *Slot[T] {
	if logger == nil {
		logger = applog.Default(applog.ComponentStore)
	}
	return &Slot[T]{key: key, kv: s, logger: logger.WithComponent(applog.ComponentStore)}
}

func (s *Slot[T]) Key() string {
	return s.key
}

// Get returns the stored value. Absent, undecodable or unreadable content
// reports false.
func (s *Slot[T]) Get(ctx context.Context) (T, bool) {
	var zero T
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.WarnContext(ctx, "Slot unreadable", applog.FieldSlot, s.key, applog.FieldError, err.Error())
		return zero, false
	}
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.WarnContext(ctx, "Slot undecodable", applog.FieldSlot, s.key, applog.FieldError, err.Error())
		return zero, false
	}
	return v, true
}

// Put replaces the stored value.
func (s *Slot[T]) Put(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// Clear removes the value.
func (s *Slot[T]) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear %s: %w", s.key, err)
	}
	return nil
}
