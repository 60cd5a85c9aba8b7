package services

import (
	"context"
	"errors"
	"testing"

	"lifedeck/internal/catalog"
	"lifedeck/internal/core"
	"lifedeck/internal/kv/memory"
	applog "lifedeck/internal/log"
	"lifedeck/internal/store"
)

func newMealService(t *testing.T) (*MealService, *store.Slot[core.Meal]) {
	t.Helper()
	mem := memory.New()
	list := store.NewList[core.Meal](mem, store.KeyMeals, applog.Discard())
	slot := store.NewSlot[core.Meal](mem, store.KeyLastVisitedMeal, applog.Discard())
	return NewMealService(list, slot, catalog.Default(), nil, applog.Discard()), slot
}

func userMeal() core.Meal {
	return core.Meal{
		Title:         "Gazpacho",
		CategoryIDs:   []string{"c10"},
		Duration:      15,
		Complexity:    "simple",
		Affordability: "affordable",
		Ingredients:   []string{"tomatoes", " ", "cucumber"},
		Steps:         []string{"blend", ""},
		IsVegan:       true,
	}
}

func TestMealCreateAppendsAfterSeed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMealService(t)

	a, err := svc.Create(ctx, userMeal())
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Ingredients) != 2 || len(a.Steps) != 1 {
		t.Fatalf("blank lines should be dropped: %+v", a)
	}
	b, _ := svc.Create(ctx, userMeal())

	all, err := svc.Catalog(ctx)
	if err != nil {
		t.Fatal(err)
	}
	seed := len(catalog.Default().Meals)
	if len(all) != seed+2 || all[seed].ID != a.ID || all[seed+1].ID != b.ID {
		t.Fatalf("catalog tail = %+v", all[seed:])
	}

	summer, _ := svc.ByCategory(ctx, "c10")
	if summer[len(summer)-1].ID != b.ID {
		t.Fatal("user meal missing from its category")
	}
}

func TestMealCreateKeepsFractionalDurationMeals(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	_ = mem.Set(ctx, store.KeyMeals, []byte(`[
		{"id":"u1","categoryIds":[],"title":"Toast","duration":1.5,"complexity":"simple","affordability":"affordable"},
		{"id":"u2","categoryIds":["c7"],"title":"Porridge","duration":10,"complexity":"simple","affordability":"affordable"}
	]`))
	list := store.NewList[core.Meal](mem, store.KeyMeals, applog.Discard())
	svc := NewMealService(list, nil, catalog.Default(), nil, applog.Discard())

	if _, err := svc.Create(ctx, userMeal()); err != nil {
		t.Fatal(err)
	}
	stored, err := list.LoadStrict(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 3 || stored[0].ID != "u1" || stored[0].Duration != 1.5 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestMealCreateValidation(t *testing.T) {
	svc, _ := newMealService(t)
	m := userMeal()
	m.Duration = 0
	if _, err := svc.Create(context.Background(), m); !errors.Is(err, core.ErrInvalidDuration) {
		t.Fatalf("err = %v", err)
	}
	m = userMeal()
	m.CategoryIDs = []string{"c404"}
	if _, err := svc.Create(context.Background(), m); !errors.Is(err, ErrUnknownCategory) || !errors.Is(err, core.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestMealOpenRecordsLastVisited(t *testing.T) {
	ctx := context.Background()
	svc, slot := newMealService(t)

	m, err := svc.Open(ctx, "m2")
	if err != nil || m.ID != "m2" {
		t.Fatalf("Open = %+v, %v", m, err)
	}
	last, ok := slot.Get(ctx)
	if !ok || last.ID != "m2" {
		t.Fatalf("last visited = %+v %v", last, ok)
	}
	if _, err := svc.Open(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if last, _ := slot.Get(ctx); last.ID != "m2" {
		t.Fatal("failed open must not move the pointer")
	}
}

func TestMealUpdateImage(t *testing.T) {
	ctx := context.Background()
	svc, slot := newMealService(t)

	if _, err := svc.UpdateImage(ctx, "m1", "file:///x.jpg"); !errors.Is(err, ErrSeedMealReadOnly) {
		t.Fatalf("seed edit err = %v", err)
	}
	if _, err := svc.UpdateImage(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}

	m, _ := svc.Create(ctx, userMeal())
	_, _ = svc.Open(ctx, m.ID)
	updated, err := svc.UpdateImage(ctx, m.ID, "file:///photo.jpg")
	if err != nil || updated.ImageURL != "file:///photo.jpg" {
		t.Fatalf("UpdateImage = %+v, %v", updated, err)
	}
	got, _ := svc.Get(ctx, m.ID)
	if got.ImageURL != "file:///photo.jpg" {
		t.Fatalf("stored image = %q", got.ImageURL)
	}
	if last, _ := slot.Get(ctx); last.ImageURL != "file:///photo.jpg" {
		t.Fatal("last visited pointer should follow the edit")
	}
}

func TestMealDelete(t *testing.T) {
	ctx := context.Background()
	svc, slot := newMealService(t)

	if err := svc.Delete(ctx, "m1"); !errors.Is(err, ErrSeedMealReadOnly) {
		t.Fatalf("seed delete err = %v", err)
	}
	m, _ := svc.Create(ctx, userMeal())
	_, _ = svc.Open(ctx, m.ID)
	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted meal still found: %v", err)
	}
	if _, ok := slot.Get(ctx); ok {
		t.Fatal("last visited should be cleared when its meal is deleted")
	}
	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMealCategories(t *testing.T) {
	svc, _ := newMealService(t)
	if len(svc.Categories()) != len(catalog.Default().Categories) {
		t.Fatal("categories should come from the catalog")
	}
}
