package services

import (
	"context"
	"errors"
	"strings"

	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
	"lifedeck/internal/store"
)

func taskKey(t core.Task) string { return t.ID }

// TaskService manages the to-do list. New tasks go to the front.
type TaskService struct {
	list     *store.PersistedList[core.Task]
	notifier Notifier
	logger   *applog.Logger
	slog     *applog.StructuredLogger
}

func NewTaskService(list *store.PersistedList[core.Task], notifier Notifier, logger *applog.Logger) *TaskService {
	logger = componentLogger(logger, applog.ComponentTasks)
	return &TaskService{
		list:     list,
		notifier: notifier,
		logger:   logger,
		slog:     applog.NewStructuredLogger(logger),
	}
}

func (s *TaskService) List(ctx context.Context) ([]core.Task, error) {
	return s.list.Read(ctx)
}

// Add creates an open task.
func (s *TaskService) Add(ctx context.Context, text string, urgent, important bool) (core.Task, error) {
	task := core.Task{
		ID:        core.NewID(),
		Text:      strings.TrimSpace(text),
		Urgent:    urgent,
		Important: important,
	}
	if err := task.Validate(); err != nil {
		return core.Task{}, err
	}
	items, err := s.list.Mutate(ctx, func(items []core.Task) ([]core.Task, error) {
		return store.Upsert(items, task, taskKey, store.Front), nil
	})
	if err != nil {
		return core.Task{}, err
	}
	s.saved(ctx, len(items), applog.OpCreate, task.ID)
	return task, nil
}

// ToggleDone flips the done flag of a task.
func (s *TaskService) ToggleDone(ctx context.Context, id string) (core.Task, error) {
	var updated core.Task
	items, err := s.list.Mutate(ctx, func(items []core.Task) ([]core.Task, error) {
		next, ok := store.Update(items, id, taskKey, func(t core.Task) core.Task {
			t.Done = !t.Done
			updated = t
			return t
		})
		if !ok {
			return nil, notFound("task", id)
		}
		return next, nil
	})
	if err != nil {
		return core.Task{}, err
	}
	s.saved(ctx, len(items), applog.OpUpdate, id)
	return updated, nil
}

// Update replaces an existing task, keeping its position.
func (s *TaskService) Update(ctx context.Context, task core.Task) (core.Task, error) {
	task.Text = strings.TrimSpace(task.Text)
	if err := task.Validate(); err != nil {
		return core.Task{}, err
	}
	items, err := s.list.Mutate(ctx, func(items []core.Task) ([]core.Task, error) {
		if _, ok := store.Find(items, task.ID, taskKey); !ok {
			return nil, notFound("task", task.ID)
		}
		return store.Upsert(items, task, taskKey, store.Front), nil
	})
	if err != nil {
		return core.Task{}, err
	}
	s.saved(ctx, len(items), applog.OpUpdate, task.ID)
	return task, nil
}

// Delete removes a task. Deleting an unknown id is not an error.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	items, err := s.list.Mutate(ctx, func(items []core.Task) ([]core.Task, error) {
		if _, ok := store.Find(items, id, taskKey); !ok {
			return nil, errUnchanged
		}
		return store.Remove(items, id, taskKey), nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	s.saved(ctx, len(items), applog.OpDelete, id)
	return nil
}

func (s *TaskService) saved(ctx context.Context, count int, op, id string) {
	s.slog.LogSlotSaved(ctx, s.list.Key(), count, op, id)
	notify(ctx, s.notifier, s.logger, s.list.Key(), count)
}
