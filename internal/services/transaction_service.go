package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finpulse/internal/core"
)

// TransactionStore is the persistence surface the services need.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	AllTransactions(ctx context.Context) ([]core.Transaction, error)
}

// EventPublisher publishes transaction lifecycle events to the message
// broker for the background worker.
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, id, version int64) error
}

// TransactionService enriches incoming transactions (category, anomaly
// flags), persists them, and emits a created event. Persistence is
// local-first: a failed publish is logged and never fails the request.
type TransactionService struct {
	store       TransactionStore
	publisher   EventPublisher
	categorizer *Categorizer
}

func NewTransactionService(store TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:       store,
		publisher:   publisher,
		categorizer: NewCategorizer(),
	}
}

// Create validates, enriches, and stores a new transaction.
func (s *TransactionService) Create(ctx context.Context, description string, amount float64, date time.Time) (core.Transaction, error) {
	if date.IsZero() {
		date = time.Now().UTC()
	}

	txn := core.Transaction{
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Date:        date,
	}
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}

	txn.Category, txn.CategoryConfidence = s.categorizer.Predict(txn.Description)
	txn.IsAnomaly, txn.AnomalyScore = DetectAnomaly(txn.Amount)

	created, err := s.store.CreateTransaction(ctx, txn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishCreated(ctx, created.ID)
	return created, nil
}

// Import stores a batch of externally sourced transactions. Records
// arrive already normalized by the tolerant decoder; blanks left by the
// source are filled in here (category prediction, anomaly flags) before
// storing. Unlike Create, records are never rejected: the decoder's
// default substitutions (a zero amount for a wrong-typed field, say)
// are stored as-is. Returns the number of records stored.
func (s *TransactionService) Import(ctx context.Context, txns []core.Transaction) (int, error) {
	imported := 0
	for _, txn := range txns {
		if strings.TrimSpace(txn.Description) == "" {
			txn.Description = txn.CategoryOrDefault()
		}
		if txn.Category == "" || (txn.Category == core.Uncategorized && txn.CategoryConfidence == 0) {
			txn.Category, txn.CategoryConfidence = s.categorizer.Predict(txn.Description)
		}
		if !txn.IsAnomaly {
			txn.IsAnomaly, txn.AnomalyScore = DetectAnomaly(txn.Amount)
		}
		if txn.Date.IsZero() {
			txn.Date = time.Now().UTC()
		}

		created, err := s.store.CreateTransaction(ctx, txn)
		if err != nil {
			return imported, fmt.Errorf("import transaction %q: %w", txn.Description, err)
		}
		s.publishCreated(ctx, created.ID)
		imported++
	}
	return imported, nil
}

// demoTransactions are the fixed records used to seed a fresh demo
// environment. Day offsets are relative to the seed time.
var demoTransactions = []struct {
	description string
	amount      float64
	dayOffset   int
}{
	{"Salary Deposit", 4500, -30},
	{"Whole Foods", -85.32, -28},
	{"Starbucks", -6.75, -25},
	{"Amazon", -127.45, -24},
	{"Uber", -23.50, -20},
	{"Netflix", -15.99, -15},
	{"Target", -67.89, -10},
	{"Gas Station", -45.00, -7},
	{"Restaurant", -45.60, -3},
}

// SeedDemo inserts the demo data set and returns how many transactions
// were created.
func (s *TransactionService) SeedDemo(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	count := 0
	for _, d := range demoTransactions {
		txn := core.Transaction{
			Description: d.description,
			Amount:      d.amount,
			Date:        now.AddDate(0, 0, d.dayOffset),
		}
		txn.Category, txn.CategoryConfidence = s.categorizer.Predict(txn.Description)
		txn.IsAnomaly, txn.AnomalyScore = DetectAnomaly(txn.Amount)

		created, err := s.store.CreateTransaction(ctx, txn)
		if err != nil {
			return count, fmt.Errorf("seed transaction %q: %w", d.description, err)
		}
		s.publishCreated(ctx, created.ID)
		count++
	}
	return count, nil
}

func (s *TransactionService) publishCreated(ctx context.Context, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionCreated(ctx, id, 1); err != nil {
		slog.WarnContext(ctx, "Failed to publish transaction event",
			"id", id, "error", err)
	}
}
