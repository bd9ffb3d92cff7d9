package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Uncategorized is the bucket used for transactions without a category.
const Uncategorized = "Uncategorized"

// Insight severities understood by the dashboard.
const (
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

type (
	// Transaction is a single dated monetary movement. Amount is signed:
	// income positive, expense negative.
	Transaction struct {
		ID                 int64     `json:"id"`
		Description        string    `json:"description"`
		Amount             float64   `json:"amount"`
		Date               time.Time `json:"date"`
		Category           string    `json:"category"`
		CategoryConfidence float64   `json:"category_confidence"`
		IsAnomaly          bool      `json:"is_anomaly"`
		AnomalyScore       float64   `json:"anomaly_score"`
		MerchantName       string    `json:"merchant_name,omitempty"`
		Pending            bool      `json:"pending"`
		CreatedAt          time.Time `json:"created_at"`
	}

	// CategoryTotal is one slice of the expense breakdown chart.
	CategoryTotal struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	// MetricsSnapshot holds the dashboard summary figures derived from a
	// transaction sequence plus the starting-balance baseline.
	MetricsSnapshot struct {
		TotalIncome    float64 `json:"totalIncome"`
		TotalExpenses  float64 `json:"totalExpenses"`
		NetCashFlow    float64 `json:"netCashFlow"`
		CurrentBalance float64 `json:"currentBalance"`
	}

	// ForecastPoint is one day of the predicted balance with its
	// uncertainty band.
	ForecastPoint struct {
		Date      string  `json:"date"`
		Predicted float64 `json:"predicted"`
		Upper     float64 `json:"upper"`
		Lower     float64 `json:"lower"`
	}

	// Insight is a short advisory message with a severity classification.
	Insight struct {
		Type        string `json:"type"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidDate        = errors.New("invalid date")
)

// Validate checks the fields a caller must supply when creating a
// transaction. Derived fields (category, anomaly flags) are not checked.
func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if t.Amount == 0 || !validAmount(t.Amount) {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// CategoryOrDefault returns the category, substituting Uncategorized for
// blank values.
func (t Transaction) CategoryOrDefault() string {
	if strings.TrimSpace(t.Category) == "" {
		return Uncategorized
	}
	return t.Category
}

// IsIncome reports whether the transaction adds money. NaN and infinite
// amounts count as neither income nor expense.
func (t Transaction) IsIncome() bool { return validAmount(t.Amount) && t.Amount > 0 }

// IsExpense reports whether the transaction spends money.
func (t Transaction) IsExpense() bool { return validAmount(t.Amount) && t.Amount < 0 }

func validAmount(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
