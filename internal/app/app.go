// Package app wires the persisted lists and feature services over one slot
// store.
package app

import (
	"context"

	"lifedeck/internal/catalog"
	"lifedeck/internal/core"
	"lifedeck/internal/dashboard"
	httpapi "lifedeck/internal/http"
	"lifedeck/internal/kv"
	applog "lifedeck/internal/log"
	"lifedeck/internal/services"
	"lifedeck/internal/store"
)

// Lists are the persisted collections, one per slot.
type Lists struct {
	Tasks        *store.PersistedList[core.Task]
	Transactions *store.PersistedList[core.Transaction]
	Meals        *store.PersistedList[core.Meal]
	WorkLog      *store.PersistedList[core.WorkLogEntry]
	LastMeal     *store.Slot[core.Meal]
}

// NewLists binds every slot key to its list over s.
func NewLists(s kv.Store, logger *applog.Logger) Lists {
	return Lists{
		Tasks:        store.NewList[core.Task](s, store.KeyTasks, logger),
		Transactions: store.NewList[core.Transaction](s, store.KeyTransactions, logger),
		Meals:        store.NewList[core.Meal](s, store.KeyMeals, logger),
		WorkLog:      store.NewList[core.WorkLogEntry](s, store.KeyWorkLog, logger),
		LastMeal:     store.NewSlot[core.Meal](s, store.KeyLastVisitedMeal, logger),
	}
}

// NewServices builds the feature services over s. notifier may be nil.
func NewServices(s kv.Store, cat *catalog.Catalog, notifier services.Notifier, logger *applog.Logger) httpapi.Services {
	lists := NewLists(s, logger)
	return httpapi.Services{
		Tasks:        services.NewTaskService(lists.Tasks, notifier, logger),
		Transactions: services.NewTransactionService(lists.Transactions, notifier, logger),
		Meals:        services.NewMealService(lists.Meals, lists.LastMeal, cat, notifier, logger),
		WorkLog:      services.NewWorkLogService(lists.WorkLog, notifier, logger),
		Dashboard:    dashboard.NewService(lists.Tasks, lists.Transactions, lists.LastMeal, logger),
		Ready:        ReadyCheck(s),
	}
}

// ReadyCheck reports the store reachable when its key listing succeeds.
func ReadyCheck(s kv.Store) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.Keys(ctx)
		return err
	}
}
