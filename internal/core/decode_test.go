package core

import (
	"testing"
	"time"
)

func TestDecodeTransactionsNonArray(t *testing.T) {
	cases := []string{
		`{"error": "boom"}`,
		`"nope"`,
		`42`,
		`null`,
		``,
		`not json`,
	}
	for _, body := range cases {
		got := DecodeTransactions([]byte(body))
		if got == nil || len(got) != 0 {
			t.Fatalf("DecodeTransactions(%q) = %v, want empty slice", body, got)
		}
	}
}

func TestDecodeTransactionsTolerant(t *testing.T) {
	body := `[
		{"id": 1, "description": "Salary", "amount": 4500, "date": "2025-06-01T00:00:00Z", "category": "Income", "category_confidence": 0.85},
		{"description": "Mystery", "amount": "not-a-number"},
		{"id": "7", "description": "Groceries", "amount": "-85.32", "date": "2025-06-02"},
		{"amount": -10}
	]`
	got := DecodeTransactions([]byte(body))
	if len(got) != 4 {
		t.Fatalf("decoded %d records, want 4", len(got))
	}

	if got[0].ID != 1 || got[0].Amount != 4500 || got[0].Category != "Income" {
		t.Fatalf("first record mangled: %+v", got[0])
	}
	if got[0].Date.IsZero() {
		t.Fatal("RFC3339 date not parsed")
	}

	if got[1].Amount != 0 {
		t.Fatalf("mistyped amount = %v, want 0", got[1].Amount)
	}
	if got[1].Category != Uncategorized {
		t.Fatalf("missing category = %q, want %q", got[1].Category, Uncategorized)
	}

	if got[2].Amount != -85.32 {
		t.Fatalf("string amount = %v, want -85.32", got[2].Amount)
	}
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !got[2].Date.Equal(want) {
		t.Fatalf("date = %v, want %v", got[2].Date, want)
	}

	if got[3].Description != "" || got[3].Category != Uncategorized {
		t.Fatalf("minimal record mangled: %+v", got[3])
	}
}

func TestTransactionFromFieldsBooleans(t *testing.T) {
	fields := map[string]any{
		"description": "Big TV",
		"amount":      float64(-900),
		"is_anomaly":  true,
		"pending":     true,
	}
	tx := TransactionFromFields(fields)
	if !tx.IsAnomaly || !tx.Pending {
		t.Fatalf("booleans dropped: %+v", tx)
	}
}

func TestFloatFieldRejectsNaNStrings(t *testing.T) {
	fields := map[string]any{"amount": "NaN"}
	if got := FloatField(fields, "amount"); got != 0 {
		t.Fatalf("FloatField NaN string = %v, want 0", got)
	}
}
