// Package memory is an in-process ledger mirror, used when no spreadsheet is
// configured and in tests.
package memory

import (
	"context"
	"sync"

	"lifedeck/internal/core"
	ports "lifedeck/internal/sheets"
)

var (
	_ ports.LedgerWriter = (*Ledger)(nil)
	_ ports.LedgerReader = (*Ledger)(nil)
)

// Ledger keeps the rendered rows of the last ReplaceLedger call, so what it
// returns went through the same row format as a real sheet.
type Ledger struct {
	mu     sync.Mutex
	rows   [][]interface{}
	writes int
	err    error
}

func New() *Ledger {
	return &Ledger{}
}

// FailWith makes subsequent calls return err; nil restores normal behaviour.
func (l *Ledger) FailWith(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

func (l *Ledger) ReplaceLedger(_ context.Context, txs []core.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.rows = ports.LedgerRows(txs)
	l.writes++
	return nil
}

func (l *Ledger) ReadLedger(_ context.Context) ([]core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return ports.ParseLedgerRows(l.rows)
}

// Writes reports how many times the ledger was replaced.
func (l *Ledger) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}
