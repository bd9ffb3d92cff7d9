package core

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	good := Transaction{Description: "Coffee", Amount: -4.5, Date: date}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Description: "", Amount: 1, Date: date},
		{Description: "   ", Amount: 1, Date: date},
		{Description: strings.Repeat("x", 201), Amount: 1, Date: date},
		{Description: "a", Amount: 0, Date: date},
		{Description: "a", Amount: math.NaN(), Date: date},
		{Description: "a", Amount: math.Inf(1), Date: date},
		{Description: "a", Amount: 1},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryOrDefault(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"Food", "Food"},
		{"", Uncategorized},
		{"   ", Uncategorized},
	}
	for _, tc := range cases {
		tx := Transaction{Category: tc.in}
		if got := tx.CategoryOrDefault(); got != tc.out {
			t.Fatalf("CategoryOrDefault(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestAmountDirection(t *testing.T) {
	if !(Transaction{Amount: 10}).IsIncome() {
		t.Fatal("positive amount should be income")
	}
	if !(Transaction{Amount: -10}).IsExpense() {
		t.Fatal("negative amount should be expense")
	}
	nan := Transaction{Amount: math.NaN()}
	if nan.IsIncome() || nan.IsExpense() {
		t.Fatal("NaN amount is neither income nor expense")
	}
	zero := Transaction{Amount: 0}
	if zero.IsIncome() || zero.IsExpense() {
		t.Fatal("zero amount is neither income nor expense")
	}
}
