package services

import (
	"fmt"

	"finpulse/internal/core"
)

// savingsRateTarget is the savings rate (percent of income) above which
// the savings insight reports success rather than a warning.
const savingsRateTarget = 20.0

// BuildInsights derives advisory messages from a transaction sequence.
// It is a pure function: no transactions means no insights, and a
// failing upstream read simply yields an empty slice downstream.
func BuildInsights(txns []core.Transaction) []core.Insight {
	insights := make([]core.Insight, 0, 3)

	income := core.Income(txns)
	expenses := core.Expenses(txns)

	if income > 0 {
		rate := (income - expenses) / income * 100
		severity := core.SeverityWarning
		if rate > savingsRateTarget {
			severity = core.SeveritySuccess
		}
		insights = append(insights, core.Insight{
			Type:        "savings",
			Title:       "Savings Rate",
			Description: fmt.Sprintf("You're saving %.1f%% of your income", rate),
			Severity:    severity,
		})
	}

	if top, ok := topSpendingCategory(txns); ok {
		insights = append(insights, core.Insight{
			Type:        "spending",
			Title:       "Top Spending Category",
			Description: fmt.Sprintf("You spent $%.2f on %s", top.Value, top.Name),
			Severity:    core.SeverityInfo,
		})
	}

	if n := countAnomalies(txns); n > 0 {
		insights = append(insights, core.Insight{
			Type:        "anomaly",
			Title:       "Unusual Spending",
			Description: fmt.Sprintf("%d of your transactions look unusually large", n),
			Severity:    core.SeverityWarning,
		})
	}

	return insights
}

// topSpendingCategory returns the category with the largest expense
// total. Ties resolve to the earlier first-seen category, matching the
// deterministic breakdown order.
func topSpendingCategory(txns []core.Transaction) (core.CategoryTotal, bool) {
	breakdown := core.CategoryBreakdown(txns)
	if len(breakdown) == 0 {
		return core.CategoryTotal{}, false
	}
	top := breakdown[0]
	for _, ct := range breakdown[1:] {
		if ct.Value > top.Value {
			top = ct
		}
	}
	return top, true
}

func countAnomalies(txns []core.Transaction) int {
	n := 0
	for _, t := range txns {
		if t.IsAnomaly {
			n++
		}
	}
	return n
}
