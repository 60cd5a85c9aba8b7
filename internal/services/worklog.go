package services

import (
	"context"
	"errors"
	"time"

	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
	"lifedeck/internal/store"
)

// DefaultRecentDays is how many entries Recent returns by default.
const DefaultRecentDays = 5

// Default shift used when a record omits start and end times.
const (
	defaultStartHour = 9
	defaultEndHour   = 17
)

func workLogKey(e core.WorkLogEntry) string { return e.Key() }

// WorkLogService manages the work-hours history, one entry per date.
type WorkLogService struct {
	list     *store.PersistedList[core.WorkLogEntry]
	notifier Notifier
	logger   *applog.Logger
	slog     *applog.StructuredLogger
}

func NewWorkLogService(list *store.PersistedList[core.WorkLogEntry], notifier Notifier, logger *applog.Logger) *WorkLogService {
	logger = componentLogger(logger, applog.ComponentWorkLog)
	return &WorkLogService{
		list:     list,
		notifier: notifier,
		logger:   logger,
		slog:     applog.NewStructuredLogger(logger),
	}
}

func (s *WorkLogService) List(ctx context.Context) ([]core.WorkLogEntry, error) {
	return s.list.Read(ctx)
}

// Record stores the hours worked on date. Hours are derived from start and
// end; zero times default to a 09:00-17:00 shift on date. An existing entry
// for the same date is replaced in place, a new date goes to the front.
func (s *WorkLogService) Record(ctx context.Context, date core.Date, jornada float64, start, end time.Time) (core.WorkLogEntry, error) {
	if err := date.Validate(); err != nil {
		return core.WorkLogEntry{}, err
	}
	if start.IsZero() {
		start = date.Add(defaultStartHour * time.Hour)
	}
	if end.IsZero() {
		end = date.Add(defaultEndHour * time.Hour)
	}
	entry := core.WorkLogEntry{
		Date:      date,
		Hours:     core.WorkedHours(start, end),
		Jornada:   jornada,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	}
	if err := entry.Validate(); err != nil {
		return core.WorkLogEntry{}, err
	}
	items, err := s.list.Mutate(ctx, func(items []core.WorkLogEntry) ([]core.WorkLogEntry, error) {
		return store.Upsert(items, entry, workLogKey, store.Front), nil
	})
	if err != nil {
		return core.WorkLogEntry{}, err
	}
	s.saved(ctx, len(items), applog.OpUpdate, entry.Key())
	return entry, nil
}

// Get returns the entry for date.
func (s *WorkLogService) Get(ctx context.Context, date core.Date) (core.WorkLogEntry, error) {
	items, err := s.list.Read(ctx)
	if err != nil {
		return core.WorkLogEntry{}, err
	}
	e, ok := store.Find(items, date.String(), workLogKey)
	if !ok {
		return core.WorkLogEntry{}, notFound("work log entry", date.String())
	}
	return e, nil
}

// Delete removes the entry for date. Deleting an absent date is not an error.
func (s *WorkLogService) Delete(ctx context.Context, date core.Date) error {
	key := date.String()
	items, err := s.list.Mutate(ctx, func(items []core.WorkLogEntry) ([]core.WorkLogEntry, error) {
		if _, ok := store.Find(items, key, workLogKey); !ok {
			return nil, errUnchanged
		}
		return store.Remove(items, key, workLogKey), nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	s.saved(ctx, len(items), applog.OpDelete, key)
	return nil
}

// Recent returns the first n entries in list order; n <= 0 means
// DefaultRecentDays.
func (s *WorkLogService) Recent(ctx context.Context, n int) ([]core.WorkLogEntry, error) {
	if n <= 0 {
		n = DefaultRecentDays
	}
	items, err := s.list.Read(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func (s *WorkLogService) saved(ctx context.Context, count int, op, id string) {
	s.slog.LogSlotSaved(ctx, s.list.Key(), count, op, id)
	notify(ctx, s.notifier, s.logger, s.list.Key(), count)
}
