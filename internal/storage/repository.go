package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finpulse/internal/core"

	_ "modernc.org/sqlite"
)

// Export states tracked per transaction for the ledger worker.
const (
	ExportPending = "pending"
	ExportDone    = "exported"
	ExportError   = "error"
)

// Dates are persisted as RFC3339 text so ordering in SQL matches
// chronological ordering.
const dateLayout = time.RFC3339Nano

// SQLiteRepository persists transactions and metrics snapshots.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies the database connection, used by readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateTransaction inserts a transaction and returns it with its
// assigned ID and creation time.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(description, amount, date, category, category_confidence,
			 is_anomaly, anomaly_score, merchant_name, pending, export_state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Description, t.Amount, t.Date.UTC().Format(dateLayout),
		t.CategoryOrDefault(), t.CategoryConfidence,
		t.IsAnomaly, t.AnomalyScore, t.MerchantName, t.Pending,
		ExportPending, t.CreatedAt.Format(dateLayout),
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	t.Category = t.CategoryOrDefault()

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"description", t.Description,
		"amount", t.Amount,
		"category", t.Category)

	return t, nil
}

const transactionColumns = `
	id, description, amount, date, category, category_confidence,
	is_anomaly, anomaly_score, merchant_name, pending, created_at`

// ListTransactions returns the newest transactions first, capped to
// limit.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		ORDER BY date DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// AllTransactions returns every transaction, oldest first, for metric
// and forecast computation.
func (r *SQLiteRepository) AllTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("load all transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetTransaction fetches one transaction by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// PendingExports returns transactions the worker has not mirrored to the
// external ledger yet, oldest first. Rows whose last attempt failed are
// included so the periodic sweep retries them.
func (r *SQLiteRepository) PendingExports(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE export_state IN (?, ?)
		ORDER BY id ASC
		LIMIT ?`, ExportPending, ExportError, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending exports: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// MarkExported records a successful ledger export.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_state = ? WHERE id = ?`, ExportDone, id); err != nil {
		return fmt.Errorf("mark transaction %d exported: %w", id, err)
	}
	return nil
}

// MarkExportError records a failed ledger export. The row stays visible
// to PendingExports and is retried on the next sweep.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_state = ? WHERE id = ?`, ExportError, id); err != nil {
		return fmt.Errorf("mark transaction %d export error: %w", id, err)
	}
	slog.WarnContext(ctx, "Transaction marked with export error", "id", id)
	return nil
}

// SaveSnapshot appends one metrics rollup row to the snapshot history.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, snap core.MetricsSnapshot, transactionCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metrics_snapshots
			(total_income, total_expenses, net_cash_flow, current_balance, transaction_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.TotalIncome, snap.TotalExpenses, snap.NetCashFlow, snap.CurrentBalance,
		transactionCount, time.Now().UTC().Format(dateLayout),
	)
	if err != nil {
		return fmt.Errorf("save metrics snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent metrics rollup, or sql.ErrNoRows
// wrapped when none exists yet.
func (r *SQLiteRepository) LatestSnapshot(ctx context.Context) (core.MetricsSnapshot, error) {
	var snap core.MetricsSnapshot
	err := r.db.QueryRowContext(ctx, `
		SELECT total_income, total_expenses, net_cash_flow, current_balance
		FROM metrics_snapshots
		ORDER BY id DESC
		LIMIT 1`).Scan(&snap.TotalIncome, &snap.TotalExpenses, &snap.NetCashFlow, &snap.CurrentBalance)
	if err != nil {
		return core.MetricsSnapshot{}, fmt.Errorf("load latest snapshot: %w", err)
	}
	return snap, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                core.Transaction
		dateStr, created string
	)
	err := row.Scan(&t.ID, &t.Description, &t.Amount, &dateStr,
		&t.Category, &t.CategoryConfidence,
		&t.IsAnomaly, &t.AnomalyScore, &t.MerchantName, &t.Pending, &created)
	if err != nil {
		return core.Transaction{}, err
	}

	if ts, err := time.Parse(dateLayout, dateStr); err == nil {
		t.Date = ts
	}
	if ts, err := time.Parse(dateLayout, created); err == nil {
		t.CreatedAt = ts
	}
	return t, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	txns := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}
