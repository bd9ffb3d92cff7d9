package services

import (
	"math/rand"
	"time"

	"finpulse/internal/core"
)

const (
	// Daily rates are derived from the observed totals spread over a
	// 30-day window.
	observationWindowDays = 30

	// Gaussian noise applied to each day's balance walk.
	noiseStdDev = 10.0

	// Uncertainty band around the predicted balance.
	upperBandFactor = 1.15
	lowerBandFactor = 0.85
)

// Forecaster projects a daily balance for a fixed horizon using the
// average daily net cash flow plus Gaussian noise.
type Forecaster struct {
	horizon int
	rng     *rand.Rand
}

// NewForecaster creates a forecaster with a time-seeded noise source.
func NewForecaster(horizonDays int) *Forecaster {
	return NewForecasterWithSource(horizonDays, rand.NewSource(time.Now().UnixNano()))
}

// NewForecasterWithSource creates a forecaster with an explicit noise
// source, so projections are reproducible under test.
func NewForecasterWithSource(horizonDays int, src rand.Source) *Forecaster {
	if horizonDays <= 0 {
		horizonDays = 90
	}
	return &Forecaster{horizon: horizonDays, rng: rand.New(src)}
}

// Forecast walks the balance forward one day at a time starting from
// currentBalance. Each point carries an upper/lower uncertainty band and
// all values are rounded to two decimals for chart rendering.
func (f *Forecaster) Forecast(txns []core.Transaction, currentBalance float64, start time.Time) []core.ForecastPoint {
	dailyIncome := core.Income(txns) / observationWindowDays
	dailyExpenses := core.Expenses(txns) / observationWindowDays
	dailyNet := dailyIncome - dailyExpenses

	points := make([]core.ForecastPoint, 0, f.horizon)
	balance := currentBalance
	for i := 0; i < f.horizon; i++ {
		balance += dailyNet + f.rng.NormFloat64()*noiseStdDev
		points = append(points, core.ForecastPoint{
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			Predicted: core.Round2(balance),
			Upper:     core.Round2(balance * upperBandFactor),
			Lower:     core.Round2(balance * lowerBandFactor),
		})
	}
	return points
}

// Horizon returns the number of days the forecaster projects.
func (f *Forecaster) Horizon() int { return f.horizon }
