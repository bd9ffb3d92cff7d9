package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"finpulse/internal/core"
	ports "finpulse/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client mirrors transactions to a Google Sheets ledger. The local SQLite
// database stays the source of truth, the sheet is an append-only copy.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ ports.LedgerAppender = (*Client)(nil)

// Options configure the sheets client. CredentialsJSON takes precedence
// over CredentialsFile.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

// New creates a Sheets client with service account credentials.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Transactions"
	}

	credentialsJSON, err := loadCredentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets ledger client created",
		"spreadsheet_id", spreadsheetID,
		"sheet", sheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func loadCredentials(opts Options) ([]byte, error) {
	if json := strings.TrimSpace(opts.CredentialsJSON); json != "" {
		return []byte(json), nil
	}
	if file := strings.TrimSpace(opts.CredentialsFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	}
	// Fall back to the standard Google Cloud environment variable.
	if file := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read application credentials: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials")
}

// Append writes one transaction row to the ledger sheet and returns the
// updated range as the row reference. Rows arrive already persisted, so
// the only precondition checked here is an initialized client.
func (c *Client) Append(ctx context.Context, t core.Transaction) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{{
		t.ID,
		t.Date.Format("2006-01-02"),
		t.Description,
		t.Amount,
		t.CategoryOrDefault(),
		t.CategoryConfidence,
		t.IsAnomaly,
		time.Now().UTC().Format(time.RFC3339),
	}}}

	rng := fmt.Sprintf("%s!A:H", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Transaction mirrored to ledger",
		"id", t.ID,
		"sheets_ref", ref)

	return ref, nil
}
