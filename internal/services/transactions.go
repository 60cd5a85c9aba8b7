package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lifedeck/internal/core"
	"lifedeck/internal/dashboard"
	applog "lifedeck/internal/log"
	"lifedeck/internal/store"
)

func transactionKey(t core.Transaction) string { return t.ID }

// NewTransaction is the caller-supplied part of a transaction. A zero Date
// means today.
type NewTransaction struct {
	Type        core.TransactionType
	Amount      core.Money
	Description string
	Category    string
	Date        core.Date
}

// TransactionService manages the income/expense ledger. New transactions go
// to the front.
type TransactionService struct {
	list     *store.PersistedList[core.Transaction]
	notifier Notifier
	logger   *applog.Logger
	slog     *applog.StructuredLogger
	now      func() time.Time
}

func NewTransactionService(list *store.PersistedList[core.Transaction], notifier Notifier, logger *applog.Logger) *TransactionService {
	logger = componentLogger(logger, applog.ComponentTransactions)
	return &TransactionService{
		list:     list,
		notifier: notifier,
		logger:   logger,
		slog:     applog.NewStructuredLogger(logger),
		now:      time.Now,
	}
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.list.Read(ctx)
}

// Add records a transaction.
func (s *TransactionService) Add(ctx context.Context, in NewTransaction) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          core.NewID(),
		Type:        in.Type,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Date:        in.Date,
	}
	if tx.Date.IsZero() {
		tx.Date = core.DateOf(s.now())
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	items, err := s.list.Mutate(ctx, func(items []core.Transaction) ([]core.Transaction, error) {
		return store.Upsert(items, tx, transactionKey, store.Front), nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	s.saved(ctx, len(items), applog.OpCreate, tx.ID)
	return tx, nil
}

// Delete removes a transaction. Deleting an unknown id is not an error.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	items, err := s.list.Mutate(ctx, func(items []core.Transaction) ([]core.Transaction, error) {
		if _, ok := store.Find(items, id, transactionKey); !ok {
			return nil, errUnchanged
		}
		return store.Remove(items, id, transactionKey), nil
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

// ForMonth returns the transactions dated in the given month, list order kept.
func (s *TransactionService) ForMonth(ctx context.Context, year int, month time.Month) ([]core.Transaction, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}
	items, err := s.list.Read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0)
	for _, tx := range items {
		if tx.Date.InMonth(year, month) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Balance returns the month's income, expense and signed balance.
func (s *TransactionService) Balance(ctx context.Context, year int, month time.Month) (dashboard.Totals, error) {
	if err := validMonth(month); err != nil {
		return dashboard.Totals{}, err
	}
	items, err := s.list.Read(ctx)
	if err != nil {
		return dashboard.Totals{}, err
	}
	return dashboard.MonthlyTotals(items, year, month), nil
}

func (s *TransactionService) saved(ctx context.Context, count int, op, id string) {
	s.slog.LogSlotSaved(ctx, s.list.Key(), count, op, id)
	notify(ctx, s.notifier, s.logger, s.list.Key(), count)
}

func validMonth(m time.Month) error {
	if m < time.January || m > time.December {
		return fmt.Errorf("%w: month %d", core.ErrInvalidDate, m)
	}
	return nil
}
