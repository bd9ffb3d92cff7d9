package services

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"finpulse/internal/core"
)

func forecastFixtures() []core.Transaction {
	return []core.Transaction{
		{Description: "Salary", Amount: 4500},
		{Description: "Rent", Amount: -1500},
		{Description: "Food", Amount: -600},
	}
}

func TestForecastShape(t *testing.T) {
	f := NewForecasterWithSource(90, rand.NewSource(1))
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	points := f.Forecast(forecastFixtures(), 5234.67, start)

	if len(points) != 90 {
		t.Fatalf("got %d points, want 90", len(points))
	}
	for i, p := range points {
		wantDate := start.AddDate(0, 0, i).Format("2006-01-02")
		if p.Date != wantDate {
			t.Fatalf("point %d date = %q, want %q", i, p.Date, wantDate)
		}
		// Balances stay positive with these fixtures, so the band
		// must bracket the prediction.
		if !(p.Upper >= p.Predicted && p.Predicted >= p.Lower) {
			t.Fatalf("point %d band inverted: %+v", i, p)
		}
		if math.Abs(p.Upper-core.Round2(p.Predicted*1.15)) > 0.05 {
			t.Fatalf("point %d upper %v not ~15%% above predicted %v", i, p.Upper, p.Predicted)
		}
		if math.Abs(p.Lower-core.Round2(p.Predicted*0.85)) > 0.05 {
			t.Fatalf("point %d lower %v not ~15%% below predicted %v", i, p.Lower, p.Predicted)
		}
	}
}

func TestForecastDeterministicWithSeed(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := NewForecasterWithSource(30, rand.NewSource(42)).Forecast(forecastFixtures(), 1000, start)
	b := NewForecasterWithSource(30, rand.NewSource(42)).Forecast(forecastFixtures(), 1000, start)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different forecasts")
	}
}

func TestForecastTrendsWithNetFlow(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Strong positive net flow: +100/day average dwarfs the noise,
	// so the projection must end well above where it started.
	saver := []core.Transaction{{Amount: 3000}}
	up := NewForecasterWithSource(60, rand.NewSource(7)).Forecast(saver, 1000, start)
	if up[len(up)-1].Predicted <= up[0].Predicted {
		t.Fatalf("positive flow should trend up: first %v, last %v",
			up[0].Predicted, up[len(up)-1].Predicted)
	}

	spender := []core.Transaction{{Amount: -3000}}
	down := NewForecasterWithSource(60, rand.NewSource(7)).Forecast(spender, 10000, start)
	if down[len(down)-1].Predicted >= down[0].Predicted {
		t.Fatalf("negative flow should trend down: first %v, last %v",
			down[0].Predicted, down[len(down)-1].Predicted)
	}
}

func TestForecasterDefaultHorizon(t *testing.T) {
	if h := NewForecasterWithSource(0, rand.NewSource(1)).Horizon(); h != 90 {
		t.Fatalf("default horizon = %d, want 90", h)
	}
	if h := NewForecasterWithSource(-5, rand.NewSource(1)).Horizon(); h != 90 {
		t.Fatalf("negative horizon = %d, want 90", h)
	}
}
