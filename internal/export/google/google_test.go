package google

import (
	"context"
	"strings"
	"testing"

	"finpulse/internal/core"
)

func TestAppendRequiresInitializedClient(t *testing.T) {
	c := &Client{spreadsheetID: "sheet", sheetName: "Transactions"}

	// Rows arrive already persisted, decoder defaults included, so even
	// a zero-amount row must only trip the initialization check.
	_, err := c.Append(context.Background(), core.Transaction{ID: 1, Description: "imported", Amount: 0})
	if err == nil {
		t.Fatal("Append() on uninitialized client should fail")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("Append() error = %v, want initialization failure", err)
	}
}

func TestNewRejectsMissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{SheetName: "Transactions"})
	if err == nil {
		t.Fatal("New() without a spreadsheet ID should fail")
	}
}
