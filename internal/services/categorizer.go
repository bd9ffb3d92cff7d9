package services

import "strings"

// Confidence levels reported by the keyword categorizer.
const (
	matchedConfidence = 0.85
	defaultConfidence = 0.65
	defaultCategory   = "Other"
)

type categoryRule struct {
	category string
	keywords []string
}

// Categorizer assigns a spending category to a transaction by matching
// keywords in its description. Rules are evaluated in a fixed order so
// that predictions are deterministic when keywords overlap.
type Categorizer struct {
	rules []categoryRule
}

func NewCategorizer() *Categorizer {
	return &Categorizer{rules: []categoryRule{
		{"Groceries", []string{"whole foods", "trader joe", "safeway", "kroger", "walmart", "grocery"}},
		{"Dining", []string{"restaurant", "cafe", "coffee", "starbucks", "mcdonald", "pizza", "chipotle"}},
		{"Transportation", []string{"uber", "lyft", "gas", "parking", "metro", "transit"}},
		{"Entertainment", []string{"netflix", "spotify", "hulu", "movie", "theater", "concert"}},
		{"Utilities", []string{"electric", "water", "internet", "phone", "verizon", "at&t"}},
		{"Shopping", []string{"amazon", "target", "best buy", "mall", "clothing"}},
		{"Healthcare", []string{"pharmacy", "doctor", "medical", "hospital", "cvs", "walgreens"}},
		{"Income", []string{"salary", "paycheck", "deposit", "transfer in", "direct dep"}},
	}}
}

// Predict returns the category for a description together with the
// classifier's confidence. Unmatched descriptions fall back to "Other"
// with lower confidence.
func (c *Categorizer) Predict(description string) (category string, confidence float64) {
	desc := strings.ToLower(description)
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.category, matchedConfidence
			}
		}
	}
	return defaultCategory, defaultConfidence
}
