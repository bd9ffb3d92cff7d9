// Package core holds the finpulse domain model and the derived-metrics
// engine that turns a transaction sequence into dashboard figures.
//
// Every function in this file is a pure transformation: no I/O, no
// mutation of the input slice, and no error paths. Malformed amounts
// (NaN, ±Inf) contribute zero to every sum.
package core

import "math"

// Income returns the sum of all positive amounts. The result is never
// negative.
func Income(txns []Transaction) float64 {
	var sum float64
	for _, t := range txns {
		if t.IsIncome() {
			sum += t.Amount
		}
	}
	return sum
}

// Expenses returns the absolute value of the sum of all negative
// amounts. The result is never negative.
func Expenses(txns []Transaction) float64 {
	var sum float64
	for _, t := range txns {
		if t.IsExpense() {
			sum += -t.Amount
		}
	}
	return sum
}

// NetCashFlow is Income minus Expenses. May be negative.
func NetCashFlow(txns []Transaction) float64 {
	return Income(txns) - Expenses(txns)
}

// Balance is the baseline (starting balance) plus the net cash flow.
func Balance(txns []Transaction, baseline float64) float64 {
	return baseline + NetCashFlow(txns)
}

// CategoryBreakdown groups expense amounts by category, substituting
// Uncategorized for blank categories. Amounts are summed first and each
// category total is rounded once at the end (half away from zero), so
// per-entry rounding error never accumulates.
//
// Output order is first-seen category order. The pie chart assigns
// palette colors by position, so the order must be deterministic for a
// given input.
func CategoryBreakdown(txns []Transaction) []CategoryTotal {
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		name := t.CategoryOrDefault()
		if _, seen := sums[name]; !seen {
			order = append(order, name)
		}
		sums[name] += -t.Amount
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryTotal{Name: name, Value: Round2(sums[name])})
	}
	return out
}

// Snapshot assembles the full metrics summary in a single call, reusing
// one income and one expense pass so the invariant
// NetCashFlow == TotalIncome - TotalExpenses holds exactly.
func Snapshot(txns []Transaction, baseline float64) MetricsSnapshot {
	income := Income(txns)
	expenses := Expenses(txns)
	net := income - expenses
	return MetricsSnapshot{
		TotalIncome:    income,
		TotalExpenses:  expenses,
		NetCashFlow:    net,
		CurrentBalance: baseline + net,
	}
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
