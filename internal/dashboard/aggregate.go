// Package dashboard derives the home screen values from the persisted lists.
// Nothing computed here is ever stored.
package dashboard

import (
	"context"
	"sort"
	"time"

	"lifedeck/internal/core"
	"lifedeck/internal/store"
)

// DefaultExpenseLimit is how many expenses LatestExpenses returns when the
// caller does not ask for a specific number.
const DefaultExpenseLimit = 2

// Totals are the income and expense sums of one calendar month.
type Totals struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"` // 1-12
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Balance core.Money `json:"balance"`
}

// CategoryAmount is the expense total of one category within a month.
type CategoryAmount struct {
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
}

// MonthlyBalance returns income minus expenses for transactions dated in the
// given month. It is zero for empty or non-matching input.
func MonthlyBalance(txs []core.Transaction, year int, month time.Month) core.Money {
	return MonthlyTotals(txs, year, month).Balance
}

// MonthlyTotals sums income and expenses separately for the given month.
func MonthlyTotals(txs []core.Transaction, year int, month time.Month) Totals {
	t := Totals{Year: year, Month: month}
	for _, tx := range txs {
		if !tx.Date.InMonth(year, month) {
			continue
		}
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		default:
			continue
		}
		t.Balance = t.Balance.Add(tx.Signed())
	}
	return t
}

// ExpensesByCategory groups the month's expenses by category, largest first.
// Expenses without a category are grouped under "".
func ExpensesByCategory(txs []core.Transaction, year int, month time.Month) []CategoryAmount {
	sums := make(map[string]core.Money)
	for _, tx := range txs {
		if tx.Type != core.Expense || !tx.Date.InMonth(year, month) {
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// UrgentOpenTasks returns the tasks that are urgent and not done, keeping
// their list order.
func UrgentOpenTasks(tasks []core.Task) []core.Task {
	out := make([]core.Task, 0)
	for _, t := range tasks {
		if t.Urgent && !t.Done {
			out = append(out, t)
		}
	}
	return out
}

// LatestExpenses returns the month's expenses sorted by date descending,
// truncated to limit. Equal dates keep their list order. A limit <= 0 means
// DefaultExpenseLimit.
func LatestExpenses(txs []core.Transaction, year int, month time.Month, limit int) []core.Transaction {
	if limit <= 0 {
		limit = DefaultExpenseLimit
	}
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if tx.Type == core.Expense && tx.Date.InMonth(year, month) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LastVisitedRecipe returns the meal most recently opened, if any.
func LastVisitedRecipe(ctx context.Context, slot *store.Slot[core.Meal]) (core.Meal, bool) {
	if slot == nil {
		return core.Meal{}, false
	}
	return slot.Get(ctx)
}

// PreviousMonth returns the calendar month before (year, month).
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
