// Package services implements the feature operations on top of the persisted
// lists: validate, read-modify-write through store.PersistedList, then publish
// a change notice.
package services

import (
	"context"
	"errors"
	"fmt"

	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
)

var (
	// ErrNotFound is returned when an operation names a record that is not in
	// its list.
	ErrNotFound = errors.New("not found")

	// ErrSeedMealReadOnly is returned for edits to built-in catalog meals.
	ErrSeedMealReadOnly = errors.New("built-in recipes cannot be modified")

	ErrUnknownCategory = fmt.Errorf("%w: unknown category", core.ErrValidation)
)

// errUnchanged aborts a Mutate cycle whose result would equal its input.
var errUnchanged = errors.New("unchanged")

// Notifier receives a notice after a list has been saved.
type Notifier interface {
	PublishSlotChanged(ctx context.Context, key string, count int) error
}

// notify publishes a change notice. The save has already succeeded, so a
// publish failure is logged and never returned.
func notify(ctx context.Context, n Notifier, logger *applog.Logger, key string, count int) {
	if n == nil {
		return
	}
	if err := n.PublishSlotChanged(ctx, key, count); err != nil {
		logger.ErrorContext(ctx, "Failed to publish slot change",
			applog.FieldSlot, key,
			applog.FieldError, err.Error())
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func componentLogger(logger *applog.Logger, component string) *applog.Logger {
	if logger == nil {
		return applog.Default(component)
	}
	return logger.WithComponent(component)
}
