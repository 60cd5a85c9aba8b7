// Package sheets defines the ports for mirroring the transaction ledger to a
// spreadsheet, plus the row format shared by every adapter.
package sheets

import (
	"context"

	"lifedeck/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerWriter replaces the mirrored ledger with the given transactions.
	LedgerWriter interface {
		ReplaceLedger(ctx context.Context, txs []core.Transaction) error
	}

	// LedgerReader reads the mirrored ledger back, e.g. to restore a device.
	LedgerReader interface {
		ReadLedger(ctx context.Context) ([]core.Transaction, error)
	}
)
