package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifedeck/internal/core"
	"lifedeck/internal/kv/memory"
	applog "lifedeck/internal/log"
	"lifedeck/internal/store"
)

func newTransactionService(t *testing.T) *TransactionService {
	t.Helper()
	list := store.NewList[core.Transaction](memory.New(), store.KeyTransactions, applog.Discard())
	svc := NewTransactionService(list, nil, applog.Discard())
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestTransactionAdd(t *testing.T) {
	ctx := context.Background()
	svc := newTransactionService(t)

	tx, err := svc.Add(ctx, NewTransaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 4550},
		Description: " groceries ",
		Category:    "Food",
	})
	if err != nil {
		t.Fatal(err)
	}
	if tx.Date.String() != "2024-03-15" {
		t.Fatalf("default date = %s", tx.Date)
	}
	if tx.Description != "groceries" {
		t.Fatalf("description = %q", tx.Description)
	}

	later, _ := svc.Add(ctx, NewTransaction{Type: core.Income, Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 3, 1)})
	items, _ := svc.List(ctx)
	if items[0].ID != later.ID {
		t.Fatal("new transactions go to the front")
	}
}

func TestTransactionAddValidation(t *testing.T) {
	svc := newTransactionService(t)
	tests := []struct {
		name string
		in   NewTransaction
		want error
	}{
		{"bad type", NewTransaction{Type: "gift", Amount: core.Money{Cents: 1}}, core.ErrInvalidType},
		{"zero amount", NewTransaction{Type: core.Expense}, core.ErrInvalidAmount},
		{"negative amount", NewTransaction{Type: core.Income, Amount: core.Money{Cents: -5}}, core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Add(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if items, _ := svc.List(context.Background()); len(items) != 0 {
		t.Fatal("invalid transactions must not be written")
	}
}

func TestTransactionMonthQueries(t *testing.T) {
	ctx := context.Background()
	svc := newTransactionService(t)
	add := func(typ core.TransactionType, cents int64, d core.Date) {
		t.Helper()
		if _, err := svc.Add(ctx, NewTransaction{Type: typ, Amount: core.Money{Cents: cents}, Date: d}); err != nil {
			t.Fatal(err)
		}
	}
	add(core.Income, 10000, core.NewDate(2024, 3, 1))
	add(core.Expense, 4000, core.NewDate(2024, 3, 2))
	add(core.Expense, 999, core.NewDate(2024, 4, 1))

	march, err := svc.ForMonth(ctx, 2024, time.March)
	if err != nil || len(march) != 2 {
		t.Fatalf("ForMonth = %+v, %v", march, err)
	}
	totals, err := svc.Balance(ctx, 2024, time.March)
	if err != nil || totals.Balance.Cents != 6000 {
		t.Fatalf("Balance = %+v, %v", totals, err)
	}
	if _, err := svc.Balance(ctx, 2024, 0); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("month 0 err = %v", err)
	}
}

func TestTransactionDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTransactionService(t)
	tx, _ := svc.Add(ctx, NewTransaction{Type: core.Income, Amount: core.Money{Cents: 1}})
	if err := svc.Delete(ctx, tx.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if items, _ := svc.List(ctx); len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
}
