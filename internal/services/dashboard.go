package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"finpulse/internal/core"
)

// transactionPageSize caps the detailed list shipped with the dashboard
// (and the /transactions endpoint), matching the API contract.
const transactionPageSize = 100

// DashboardView is one immutable snapshot of everything the dashboard
// renders. It is rebuilt whole on every update cycle so derived metrics
// stay reproducible from a single transaction set.
type DashboardView struct {
	Metrics      core.MetricsSnapshot `json:"metrics"`
	Breakdown    []core.CategoryTotal `json:"breakdown"`
	Transactions []core.Transaction   `json:"transactions"`
	Insights     []core.Insight       `json:"insights"`
	Forecast     []core.ForecastPoint `json:"forecast"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// DashboardService assembles dashboard views. The three reads
// (transactions, insights, forecast) run concurrently and independently;
// a failing leg degrades to an empty result and is logged, never fatal.
type DashboardService struct {
	store      TransactionStore
	forecaster *Forecaster
	baseline   float64
}

func NewDashboardService(store TransactionStore, forecaster *Forecaster, baseline float64) *DashboardService {
	return &DashboardService{
		store:      store,
		forecaster: forecaster,
		baseline:   baseline,
	}
}

// Transactions returns the latest page of transactions, newest first.
func (s *DashboardService) Transactions(ctx context.Context) ([]core.Transaction, error) {
	txns, err := s.store.ListTransactions(ctx, transactionPageSize)
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	return txns, nil
}

// Insights derives the advisory messages from the full transaction set.
func (s *DashboardService) Insights(ctx context.Context) ([]core.Insight, error) {
	txns, err := s.store.AllTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return BuildInsights(txns), nil
}

// Forecast projects the balance forward from the current balance.
func (s *DashboardService) Forecast(ctx context.Context) ([]core.ForecastPoint, error) {
	txns, err := s.store.AllTransactions(ctx)
	if err != nil {
		return nil, err
	}
	balance := core.Balance(txns, s.baseline)
	return s.forecaster.Forecast(txns, balance, time.Now()), nil
}

// Build assembles a complete view. All three legs always complete; a
// failed leg leaves its section empty. Metrics and breakdown are derived
// from the transaction leg's snapshot, so they are always mutually
// consistent.
func (s *DashboardService) Build(ctx context.Context) DashboardView {
	view := DashboardView{
		Breakdown:    []core.CategoryTotal{},
		Transactions: []core.Transaction{},
		Insights:     []core.Insight{},
		Forecast:     []core.ForecastPoint{},
		GeneratedAt:  time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)

	// Legs run on their own goroutines, so each carries its own recover
	// boundary; a panicking leg degrades to an empty section like any
	// other failure.
	leg := func(fn func()) func() error {
		return func() error {
			defer func() {
				if r := recover(); r != nil {
					slog.ErrorContext(gctx, "Dashboard leg panicked", "panic", r)
				}
			}()
			fn()
			return nil
		}
	}

	g.Go(leg(func() {
		all, err := s.store.AllTransactions(gctx)
		if err != nil {
			slog.WarnContext(gctx, "Dashboard transactions unavailable", "error", err)
			return
		}
		if all == nil {
			all = []core.Transaction{}
		}
		view.Metrics = core.Snapshot(all, s.baseline)
		view.Breakdown = core.CategoryBreakdown(all)
		view.Transactions = latestPage(all, transactionPageSize)
	}))

	g.Go(leg(func() {
		insights, err := s.Insights(gctx)
		if err != nil {
			slog.WarnContext(gctx, "Dashboard insights unavailable", "error", err)
			return
		}
		view.Insights = insights
	}))

	g.Go(leg(func() {
		forecast, err := s.Forecast(gctx)
		if err != nil {
			slog.WarnContext(gctx, "Dashboard forecast unavailable", "error", err)
			return
		}
		view.Forecast = forecast
	}))

	_ = g.Wait() // legs never return errors, they degrade
	return view
}

// latestPage flips an oldest-first sequence into the newest-first page
// the dashboard ships, capped at limit to match the /transactions list.
func latestPage(all []core.Transaction, limit int) []core.Transaction {
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	page := make([]core.Transaction, len(all))
	for i, t := range all {
		page[len(all)-1-i] = t
	}
	return page
}

// SafeBuild wraps Build in a recover boundary. Any panic in assembly is
// logged and replaced with an empty fallback view instead of taking the
// request down.
func (s *DashboardService) SafeBuild(ctx context.Context) (view DashboardView) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Dashboard assembly panicked", "panic", r)
			view = DashboardView{
				Breakdown:    []core.CategoryTotal{},
				Transactions: []core.Transaction{},
				Insights:     []core.Insight{},
				Forecast:     []core.ForecastPoint{},
				GeneratedAt:  time.Now().UTC(),
			}
		}
	}()
	return s.Build(ctx)
}
