package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifedeck/internal/core"
	"lifedeck/internal/kv"
	"lifedeck/internal/kv/memory"
	applog "lifedeck/internal/log"
	"lifedeck/internal/store"
)

type brokenStore struct{ kv.Store }

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, kv.ErrStorage
}

func newService(s kv.Store) (*Service, *store.PersistedList[core.Task], *store.PersistedList[core.Transaction], *store.Slot[core.Meal]) {
	logger := applog.Discard()
	tasks := store.NewList[core.Task](s, store.KeyTasks, logger)
	txs := store.NewList[core.Transaction](s, store.KeyTransactions, logger)
	meal := store.NewSlot[core.Meal](s, store.KeyLastVisitedMeal, logger)
	return NewService(tasks, txs, meal, logger), tasks, txs, meal
}

func TestHomeEmpty(t *testing.T) {
	svc, _, _, _ := newService(memory.New())
	h, err := svc.Home(context.Background(), time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if h.Totals.Balance.Cents != 0 || len(h.UrgentTasks) != 0 || len(h.LatestExpenses) != 0 || h.LastMeal != nil {
		t.Fatalf("empty home = %+v", h)
	}
	if h.Totals.Month != time.March || h.Totals.Year != 2024 {
		t.Fatalf("period = %d-%d", h.Totals.Year, h.Totals.Month)
	}
}

func TestHomeAssemblesSummary(t *testing.T) {
	ctx := context.Background()
	svc, tasks, txs, meal := newService(memory.New())

	_ = tasks.Save(ctx, []core.Task{
		{ID: "1", Text: "pay rent", Urgent: true},
		{ID: "2", Text: "call mum", Urgent: true, Done: true},
	})
	_ = txs.Save(ctx, []core.Transaction{
		tx("i", core.Income, 10000, "2024-03-01"),
		tx("e1", core.Expense, 4000, "2024-03-02"),
		tx("e2", core.Expense, 500, "2024-03-03"),
		tx("e3", core.Expense, 100, "2024-03-01"),
		tx("feb", core.Income, 700, "2024-02-10"),
	})
	_ = meal.Put(ctx, core.Meal{ID: "m1", Title: "Spaghetti"})

	h, err := svc.HomeFor(ctx, 2024, time.March)
	if err != nil {
		t.Fatal(err)
	}
	if h.Totals.Balance.Cents != 5400 {
		t.Fatalf("balance = %d", h.Totals.Balance.Cents)
	}
	if h.PreviousBalance.Cents != 700 {
		t.Fatalf("previous balance = %d", h.PreviousBalance.Cents)
	}
	if len(h.UrgentTasks) != 1 || h.UrgentTasks[0].ID != "1" {
		t.Fatalf("urgent = %+v", h.UrgentTasks)
	}
	if len(h.LatestExpenses) != 2 || h.LatestExpenses[0].ID != "e2" || h.LatestExpenses[1].ID != "e1" {
		t.Fatalf("latest = %+v", h.LatestExpenses)
	}
	if h.LastMeal == nil || h.LastMeal.ID != "m1" {
		t.Fatalf("last meal = %+v", h.LastMeal)
	}
}

func TestHomeCorruptListCountsAsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc, _, _, _ := newService(mem)
	_ = mem.Set(ctx, store.KeyTransactions, []byte("not json"))

	h, err := svc.HomeFor(ctx, 2024, time.March)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.LatestExpenses) != 0 {
		t.Fatalf("latest = %+v", h.LatestExpenses)
	}
}

func TestHomeStorageFailure(t *testing.T) {
	svc, _, _, _ := newService(brokenStore{memory.New()})
	if _, err := svc.HomeFor(context.Background(), 2024, time.March); !errors.Is(err, kv.ErrStorage) {
		t.Fatalf("err = %v, want kv.ErrStorage", err)
	}
}

func TestHomeRejectsBadMonth(t *testing.T) {
	svc, _, _, _ := newService(memory.New())
	if _, err := svc.HomeFor(context.Background(), 2024, 13); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}
