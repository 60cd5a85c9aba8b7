package services

import (
	"context"
	"errors"
	"strings"

	"lifedeck/internal/catalog"
	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
	"lifedeck/internal/store"
)

func mealKey(m core.Meal) string { return m.ID }

// MealService serves the recipe catalog: read-only seed meals merged with the
// user's own meals. User meals are appended at the back.
type MealService struct {
	list        *store.PersistedList[core.Meal]
	lastVisited *store.Slot[core.Meal]
	catalog     *catalog.Catalog
	notifier    Notifier
	logger      *applog.Logger
	slog        *applog.StructuredLogger
}

func NewMealService(
	list *store.PersistedList[core.Meal],
	lastVisited *store.Slot[core.Meal],
	cat *catalog.Catalog,
	notifier Notifier,
	logger *applog.Logger,
) *MealService {
	if cat == nil {
		cat = catalog.Default()
	}
	logger = componentLogger(logger, applog.ComponentMeals)
	return &MealService{
		list:        list,
		lastVisited: lastVisited,
		catalog:     cat,
		notifier:    notifier,
		logger:      logger,
		slog:        applog.NewStructuredLogger(logger),
	}
}

// Catalog returns seed meals followed by user meals.
func (s *MealService) Catalog(ctx context.Context) ([]core.Meal, error) {
	user, err := s.list.Read(ctx)
	if err != nil {
		return nil, err
	}
	return s.catalog.Merge(user), nil
}

func (s *MealService) Categories() []core.Category {
	return s.catalog.Categories
}

func (s *MealService) ByCategory(ctx context.Context, categoryID string) ([]core.Meal, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.ByCategory(all, categoryID), nil
}

// Get looks a meal up across seed and user meals.
func (s *MealService) Get(ctx context.Context, id string) (core.Meal, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return core.Meal{}, err
	}
	m, ok := store.Find(all, id, mealKey)
	if !ok {
		return core.Meal{}, notFound("meal", id)
	}
	return m, nil
}

// Open returns a meal and records it as the last visited one. Failing to
// record the visit does not fail the lookup.
func (s *MealService) Open(ctx context.Context, id string) (core.Meal, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return core.Meal{}, err
	}
	if s.lastVisited != nil {
		if err := s.lastVisited.Put(ctx, m); err != nil {
			s.logger.WarnContext(ctx, "Failed to record last visited meal",
				applog.FieldRecordID, id,
				applog.FieldError, err.Error())
		}
	}
	return m, nil
}

// Create stores a new user meal. Blank ingredient and step lines are dropped
// and every category must exist in the catalog.
func (s *MealService) Create(ctx context.Context, m core.Meal) (core.Meal, error) {
	m.ID = core.NewID()
	m.Title = strings.TrimSpace(m.Title)
	m.Complexity = strings.TrimSpace(m.Complexity)
	m.Affordability = strings.TrimSpace(m.Affordability)
	m.Ingredients = compact(m.Ingredients)
	m.Steps = compact(m.Steps)
	if m.CategoryIDs == nil {
		m.CategoryIDs = []string{}
	}
	if err := m.Validate(); err != nil {
		return core.Meal{}, err
	}
	for _, cid := range m.CategoryIDs {
		if _, ok := s.catalog.Category(cid); !ok {
			return core.Meal{}, ErrUnknownCategory
		}
	}

	items, err := s.list.Mutate(ctx, func(items []core.Meal) ([]core.Meal, error) {
		return store.Upsert(items, m, mealKey, store.Back), nil
	})
	if err != nil {
		return core.Meal{}, err
	}
	s.saved(ctx, len(items), applog.OpCreate, m.ID)
	return m, nil
}

// UpdateImage replaces the image of a user meal.
func (s *MealService) UpdateImage(ctx context.Context, id, imageURL string) (core.Meal, error) {
	if s.catalog.IsSeed(id) {
		return core.Meal{}, ErrSeedMealReadOnly
	}
	var updated core.Meal
	items, err := s.list.Mutate(ctx, func(items []core.Meal) ([]core.Meal, error) {
		next, ok := store.Update(items, id, mealKey, func(m core.Meal) core.Meal {
			m.ImageURL = strings.TrimSpace(imageURL)
			updated = m
			return m
		})
		if !ok {
			return nil, notFound("meal", id)
		}
		return next, nil
	})
	if err != nil {
		return core.Meal{}, err
	}
	s.saved(ctx, len(items), applog.OpUpdate, id)
	s.refreshLastVisited(ctx, updated)
	return updated, nil
}

// Delete removes a user meal. Deleting an unknown id is not an error.
func (s *MealService) Delete(ctx context.Context, id string) error {
	if s.catalog.IsSeed(id) {
		return ErrSeedMealReadOnly
	}
	items, err := s.list.Mutate(ctx, func(items []core.Meal) ([]core.Meal, error) {
		if _, ok := store.Find(items, id, mealKey); !ok {
			return nil, errUnchanged
		}
		return store.Remove(items, id, mealKey), nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	s.saved(ctx, len(items), applog.OpDelete, id)
	if s.lastVisited != nil {
		if last, ok := s.lastVisited.Get(ctx); ok && last.ID == id {
			if err := s.lastVisited.Clear(ctx); err != nil {
				s.logger.WarnContext(ctx, "Failed to clear last visited meal", applog.FieldError, err.Error())
			}
		}
	}
	return nil
}

// refreshLastVisited keeps the last visited pointer in step with an edited meal.
func (s *MealService) refreshLastVisited(ctx context.Context, m core.Meal) {
	if s.lastVisited == nil {
		return
	}
	last, ok := s.lastVisited.Get(ctx)
	if !ok || last.ID != m.ID {
		return
	}
	if err := s.lastVisited.Put(ctx, m); err != nil {
		s.logger.WarnContext(ctx, "Failed to refresh last visited meal", applog.FieldError, err.Error())
	}
}

func (s *MealService) saved(ctx context.Context, count int, op, id string) {
	s.slog.LogSlotSaved(ctx, s.list.Key(), count, op, id)
	notify(ctx, s.notifier, s.logger, s.list.Key(), count)
}

func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
