package analysis

import (
	"math"

	"tradebook/internal/models"
)

// Trend detection constants. The recent window is compared against lifetime
// aggregates; requiring twice the window size of history keeps the window
// from being the entire history.
const (
	TrendWindow          = 20
	TrendMinTrades       = 2 * TrendWindow
	TrendWinRateDropPts  = 15.0 // percentage points
	TrendProfitFactorMin = 0.7  // fraction of the lifetime profit factor
)

// Trend compares recent-window performance against the lifetime baseline.
type Trend struct {
	RecentWinRate      float64
	RecentProfitFactor float64
	LifetimeWinRate    float64
	LifetimePF         float64
	Degraded           bool
}

// DetectTrend evaluates whether recent performance has degraded versus the
// lifetime baseline. Returns nil when there is not enough history to compare.
func DetectTrend(trades []models.Trade) *Trend {
	if len(trades) < TrendMinTrades {
		return nil
	}

	lifetime := ComputeMetrics(trades)
	recent := ComputeMetrics(models.RecentN(trades, TrendWindow))

	t := &Trend{
		RecentWinRate:      recent.WinRate,
		RecentProfitFactor: recent.ProfitFactor,
		LifetimeWinRate:    lifetime.WinRate,
		LifetimePF:         lifetime.ProfitFactor,
	}

	if lifetime.WinRate-recent.WinRate > TrendWinRateDropPts {
		t.Degraded = true
	}
	if !math.IsInf(lifetime.ProfitFactor, 1) &&
		recent.ProfitFactor < TrendProfitFactorMin*lifetime.ProfitFactor {
		t.Degraded = true
	}

	return t
}
