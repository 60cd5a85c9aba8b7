// Package worker keeps the spreadsheet mirror of the transaction ledger in
// step with the local store.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lifedeck/internal/amqp"
	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
	"lifedeck/internal/sheets"
	"lifedeck/internal/store"
)

// MirrorWorker copies the transactions list to a LedgerWriter whenever a
// change notice arrives, and on a fixed interval as a safety net.
type MirrorWorker struct {
	list   *store.PersistedList[core.Transaction]
	writer sheets.LedgerWriter
	logger *applog.Logger

	mu       sync.Mutex
	lastSync time.Time
	now      func() time.Time
}

func NewMirrorWorker(list *store.PersistedList[core.Transaction], writer sheets.LedgerWriter, logger *applog.Logger) *MirrorWorker {
	if logger == nil {
		logger = applog.Default(applog.ComponentWorker)
	}
	return &MirrorWorker{
		list:   list,
		writer: writer,
		logger: logger.WithComponent(applog.ComponentWorker),
		now:    time.Now,
	}
}

// HandleSlotChanged is the AMQP handler. Notices for other slots are
// acknowledged without work, as are notices older than the last completed
// sync, since that sync already read a newer snapshot.
func (w *MirrorWorker) HandleSlotChanged(ctx context.Context, msg *amqp.SlotChangedMessage) error {
	if msg.Key != w.list.Key() {
		w.logger.DebugContext(ctx, "Ignoring change to unmirrored slot", applog.FieldSlot, msg.Key)
		return nil
	}
	w.mu.Lock()
	last := w.lastSync
	w.mu.Unlock()
	if !msg.Timestamp.IsZero() && msg.Timestamp.Before(last) {
		w.logger.DebugContext(ctx, "Skipping notice already covered by a later sync",
			applog.FieldSlot, msg.Key,
			"notice_at", msg.Timestamp,
			"synced_at", last)
		return nil
	}
	return w.Sync(ctx)
}

// Sync mirrors the current transactions list. A storage read failure is
// returned so the notice is retried; an undecodable list mirrors as empty.
func (w *MirrorWorker) Sync(ctx context.Context) error {
	started := w.now()
	txs, err := w.list.Read(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", w.list.Key(), err)
	}
	if err := w.writer.ReplaceLedger(ctx, txs); err != nil {
		return fmt.Errorf("mirror %s: %w", w.list.Key(), err)
	}

	w.mu.Lock()
	if started.After(w.lastSync) {
		w.lastSync = started
	}
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Ledger synced",
		applog.FieldSlot, w.list.Key(),
		applog.FieldCount, len(txs),
		applog.FieldOperation, applog.OpSync)
	return nil
}

// RunPeriodic calls Sync every interval until ctx is done. Failures are
// logged and retried on the next tick.
func (w *MirrorWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "Periodic ledger sync started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Periodic ledger sync stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic ledger sync failed", applog.FieldError, err.Error())
			}
		}
	}
}

// Restore fills an empty transactions list from the mirror. A list that
// already holds records is left alone and Restore reports 0.
func (w *MirrorWorker) Restore(ctx context.Context, reader sheets.LedgerReader) (int, error) {
	remote, err := reader.ReadLedger(ctx)
	if err != nil {
		return 0, fmt.Errorf("read mirror: %w", err)
	}
	restored := 0
	_, err = w.list.Mutate(ctx, func(items []core.Transaction) ([]core.Transaction, error) {
		if len(items) > 0 {
			return items, nil
		}
		restored = len(remote)
		return remote, nil
	})
	if err != nil {
		return 0, err
	}
	w.logger.InfoContext(ctx, "Ledger restore finished", applog.FieldCount, restored)
	return restored, nil
}
