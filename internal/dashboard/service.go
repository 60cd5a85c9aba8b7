package dashboard

import (
	"context"
	"fmt"
	"time"

	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
	"lifedeck/internal/store"
)

// Home is the summary shown on the landing screen.
type Home struct {
	Totals          Totals             `json:"totals"`
	PreviousBalance core.Money         `json:"previousBalance"`
	ByCategory      []CategoryAmount   `json:"byCategory"`
	UrgentTasks     []core.Task        `json:"urgentTasks"`
	LatestExpenses  []core.Transaction `json:"latestExpenses"`
	LastMeal        *core.Meal         `json:"lastMeal,omitempty"`
}

// Service assembles Home from the current list snapshots.
type Service struct {
	tasks        *store.PersistedList[core.Task]
	transactions *store.PersistedList[core.Transaction]
	lastMeal     *store.Slot[core.Meal]
	logger       *applog.Logger
}

func NewService(
	tasks *store.PersistedList[core.Task],
	transactions *store.PersistedList[core.Transaction],
	lastMeal *store.Slot[core.Meal],
	logger *applog.Logger,
) *Service {
	if logger == nil {
		logger = applog.Default(applog.ComponentDashboard)
	}
	return &Service{
		tasks:        tasks,
		transactions: transactions,
		lastMeal:     lastMeal,
		logger:       logger.WithComponent(applog.ComponentDashboard),
	}
}

// Home computes the summary for the month containing now.
func (s *Service) Home(ctx context.Context, now time.Time) (Home, error) {
	return s.HomeFor(ctx, now.Year(), now.Month())
}

// HomeFor computes the summary for a specific month. Storage read failures
// are returned; undecodable lists count as empty.
func (s *Service) HomeFor(ctx context.Context, year int, month time.Month) (Home, error) {
	if month < time.January || month > time.December {
		return Home{}, fmt.Errorf("%w: month %d", core.ErrInvalidDate, month)
	}

	txs, err := s.transactions.Read(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("dashboard transactions: %w", err)
	}
	tasks, err := s.tasks.Read(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("dashboard tasks: %w", err)
	}

	py, pm := PreviousMonth(year, month)
	h := Home{
		Totals:          MonthlyTotals(txs, year, month),
		PreviousBalance: MonthlyBalance(txs, py, pm),
		ByCategory:      ExpensesByCategory(txs, year, month),
		UrgentTasks:     UrgentOpenTasks(tasks),
		LatestExpenses:  LatestExpenses(txs, year, month, DefaultExpenseLimit),
	}
	if meal, ok := LastVisitedRecipe(ctx, s.lastMeal); ok {
		h.LastMeal = &meal
	}

	fields := applog.NewFields().WithPeriod(year, int(month))
	fields["transactions"] = len(txs)
	fields["tasks"] = len(tasks)
	s.logger.DebugContext(ctx, "Dashboard computed", fields.ToSlice()...)
	return h, nil
}
