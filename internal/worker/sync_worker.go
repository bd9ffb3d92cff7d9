package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finpulse/internal/amqp"
	"finpulse/internal/core"
	"finpulse/internal/export"
	applog "finpulse/internal/log"
)

// Store is the storage surface the worker needs.
type Store interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	AllTransactions(ctx context.Context) ([]core.Transaction, error)
	PendingExports(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64) error
	SaveSnapshot(ctx context.Context, snap core.MetricsSnapshot, transactionCount int) error
}

// SyncWorker consumes transaction-created events, keeps the metrics
// snapshot history up to date and mirrors transactions to an external
// ledger when one is configured.
type SyncWorker struct {
	store     Store
	ledger    export.LedgerAppender
	baseline  float64
	batchSize int
}

func NewSyncWorker(store Store, ledger export.LedgerAppender, baseline float64, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		ledger:    ledger,
		baseline:  baseline,
		batchSize: batchSize,
	}
}

// HandleTransactionCreated processes a single transaction-created message.
func (w *SyncWorker) HandleTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	slog.InfoContext(ctx, "Processing transaction created message",
		"id", msg.ID,
		"version", msg.Version)

	txn, err := w.store.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.exportTransaction(ctx, txn); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}

	if err := w.RefreshSnapshot(ctx); err != nil {
		// The export succeeded and is recorded, a missed rollup is
		// recomputed on the next message.
		slog.ErrorContext(ctx, "Failed to refresh metrics snapshot", "error", err)
	}

	return nil
}

// ProcessPendingExports retries transactions that were never mirrored to
// the ledger. This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.store.PendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending exports: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, txn := range pending {
		if err := w.exportTransaction(ctx, txn); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", txn.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupCheck processes any backlog of pending exports at worker startup
// and recomputes the metrics snapshot. This recovers from missed AMQP
// messages or worker downtime.
func (w *SyncWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.PendingExports(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending exports for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return w.RefreshSnapshot(ctx)
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, txn := range pending {
		if err := w.exportTransaction(ctx, txn); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", txn.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return w.RefreshSnapshot(ctx)
}

// RefreshSnapshot recomputes the metrics rollup from all stored
// transactions and appends it to the snapshot history.
func (w *SyncWorker) RefreshSnapshot(ctx context.Context) error {
	txns, err := w.store.AllTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions for snapshot: %w", err)
	}

	snap := core.Snapshot(txns, w.baseline)
	if err := w.store.SaveSnapshot(ctx, snap, len(txns)); err != nil {
		return fmt.Errorf("save metrics snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Metrics snapshot saved",
		"transaction_count", len(txns),
		"net_cash_flow", snap.NetCashFlow,
		"current_balance", snap.CurrentBalance)

	return nil
}

func (w *SyncWorker) exportTransaction(ctx context.Context, txn core.Transaction) error {
	if w.ledger == nil {
		// No external ledger configured, nothing to mirror.
		if err := w.store.MarkExported(ctx, txn.ID); err != nil {
			return fmt.Errorf("mark exported: %w", err)
		}
		return nil
	}

	ref, err := w.ledger.Append(ctx, txn)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, txn.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error",
				applog.FieldTxnID, txn.ID,
				applog.FieldExportState, "error",
				applog.FieldError, markErr.Error())
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.store.MarkExported(ctx, txn.ID); err != nil {
		// The append actually worked, the pending sweep may duplicate
		// this row but the local database stays consistent.
		slog.ErrorContext(ctx, "Failed to mark as exported",
			applog.FieldTxnID, txn.ID,
			applog.FieldError, err.Error())
	}

	slog.InfoContext(ctx, "Transaction exported to ledger",
		applog.FieldTxnID, txn.ID,
		applog.FieldSheetsRef, ref,
		applog.FieldTxnDesc, txn.Description,
		applog.FieldAmount, txn.Amount)

	return nil
}
