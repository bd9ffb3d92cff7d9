package services

import (
	"strings"
	"testing"

	"finpulse/internal/core"
)

func findInsight(insights []core.Insight, typ string) (core.Insight, bool) {
	for _, in := range insights {
		if in.Type == typ {
			return in, true
		}
	}
	return core.Insight{}, false
}

func TestBuildInsightsSavingsRate(t *testing.T) {
	// 4500 income, 900 expenses: 80% savings rate.
	good := []core.Transaction{
		{Amount: 4500, Category: "Income"},
		{Amount: -900, Category: "Rent"},
	}
	in, ok := findInsight(BuildInsights(good), "savings")
	if !ok {
		t.Fatal("missing savings insight")
	}
	if in.Severity != core.SeveritySuccess {
		t.Fatalf("severity = %q, want success", in.Severity)
	}
	if !strings.Contains(in.Description, "80.0%") {
		t.Fatalf("description = %q, want 80.0%%", in.Description)
	}

	// 1000 income, 950 expenses: 5% rate warns.
	tight := []core.Transaction{
		{Amount: 1000, Category: "Income"},
		{Amount: -950, Category: "Rent"},
	}
	in, ok = findInsight(BuildInsights(tight), "savings")
	if !ok {
		t.Fatal("missing savings insight")
	}
	if in.Severity != core.SeverityWarning {
		t.Fatalf("severity = %q, want warning", in.Severity)
	}
}

func TestBuildInsightsNoIncomeNoSavings(t *testing.T) {
	txns := []core.Transaction{{Amount: -50, Category: "Food"}}
	if _, ok := findInsight(BuildInsights(txns), "savings"); ok {
		t.Fatal("savings insight reported without income")
	}
}

func TestBuildInsightsTopCategory(t *testing.T) {
	txns := []core.Transaction{
		{Amount: -50, Category: "Food"},
		{Amount: -120, Category: "Rent"},
		{Amount: -20, Category: "Food"},
	}
	in, ok := findInsight(BuildInsights(txns), "spending")
	if !ok {
		t.Fatal("missing spending insight")
	}
	if !strings.Contains(in.Description, "Rent") || !strings.Contains(in.Description, "$120.00") {
		t.Fatalf("description = %q, want Rent / $120.00", in.Description)
	}
	if in.Severity != core.SeverityInfo {
		t.Fatalf("severity = %q, want info", in.Severity)
	}
}

func TestBuildInsightsAnomalies(t *testing.T) {
	txns := []core.Transaction{
		{Amount: -900, Category: "Shopping", IsAnomaly: true},
		{Amount: -10, Category: "Food"},
	}
	in, ok := findInsight(BuildInsights(txns), "anomaly")
	if !ok {
		t.Fatal("missing anomaly insight")
	}
	if in.Severity != core.SeverityWarning {
		t.Fatalf("severity = %q, want warning", in.Severity)
	}

	calm := []core.Transaction{{Amount: -10, Category: "Food"}}
	if _, ok := findInsight(BuildInsights(calm), "anomaly"); ok {
		t.Fatal("anomaly insight reported without anomalies")
	}
}

func TestBuildInsightsEmpty(t *testing.T) {
	if got := BuildInsights(nil); len(got) != 0 {
		t.Fatalf("BuildInsights(nil) = %v, want empty", got)
	}
}
