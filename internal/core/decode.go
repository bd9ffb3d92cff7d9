package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Wire formats accepted for transaction dates, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DecodeTransactions parses a JSON body that is expected to be an array
// of transactions. A non-array body decodes to an empty slice, and
// individual records never fail: missing or mistyped fields fall back to
// zero values and blank categories become Uncategorized.
func DecodeTransactions(data []byte) []Transaction {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []Transaction{}
	}

	out := make([]Transaction, 0, len(raw))
	for _, r := range raw {
		var fields map[string]any
		if err := json.Unmarshal(r, &fields); err != nil {
			continue
		}
		out = append(out, TransactionFromFields(fields))
	}
	return out
}

// TransactionFromFields builds a Transaction from loosely typed JSON
// fields, checking presence and type before every assignment rather than
// trusting the wire shape.
func TransactionFromFields(fields map[string]any) Transaction {
	t := Transaction{
		ID:                 int64(FloatField(fields, "id")),
		Description:        StringField(fields, "description"),
		Amount:             FloatField(fields, "amount"),
		Category:           StringField(fields, "category"),
		CategoryConfidence: FloatField(fields, "category_confidence"),
		AnomalyScore:       FloatField(fields, "anomaly_score"),
		MerchantName:       StringField(fields, "merchant_name"),
		Date:               TimeField(fields, "date"),
		CreatedAt:          TimeField(fields, "created_at"),
	}
	if b, ok := fields["is_anomaly"].(bool); ok {
		t.IsAnomaly = b
	}
	if b, ok := fields["pending"].(bool); ok {
		t.Pending = b
	}
	if strings.TrimSpace(t.Category) == "" {
		t.Category = Uncategorized
	}
	return t
}

// FloatField extracts a numeric field, tolerating absent values, JSON
// numbers, and numeric strings. Anything else (including NaN and ±Inf)
// yields 0.
func FloatField(fields map[string]any, key string) float64 {
	switch n := fields[key].(type) {
	case float64:
		if !validAmount(n) {
			return 0
		}
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || !validAmount(f) {
			return 0
		}
		return f
	}
	return 0
}

// StringField extracts a trimmed string field, or "" when absent or not
// a string.
func StringField(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// TimeField extracts a date field from any of the accepted wire layouts.
// Absent or unparseable values yield the zero time.
func TimeField(fields map[string]any, key string) time.Time {
	s, ok := fields[key].(string)
	if !ok {
		return time.Time{}
	}
	ts, _ := ParseDate(s)
	return ts
}

// ParseDate parses a date in any of the accepted wire layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
