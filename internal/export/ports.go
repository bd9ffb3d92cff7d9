package export

import (
	"context"

	"finpulse/internal/core"
)

// Ports for outbound ledger mirrors.
type (
	// LedgerAppender mirrors a transaction to an external ledger and
	// returns a reference to the written row.
	LedgerAppender interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)
