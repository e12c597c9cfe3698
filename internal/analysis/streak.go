package analysis

import (
	"tradebook/internal/models"
)

// Streak thresholds. A run shorter than MinStreakLength is not reported at
// all; HighImpactStreak marks the point where a streak is worth interrupting
// the trader about.
const (
	MinStreakLength  = 3
	HighImpactStreak = 5
)

// DetectStreak finds the current trailing win or loss streak. The input may
// be in any order; detection always runs over the chronological ordering, so
// the result is identical for any permutation of the same trades.
//
// A zero-P&L trade breaks any streak. Returns nil when fewer than
// MinStreakLength trades exist or the trailing run is too short.
func DetectStreak(trades []models.Trade) *models.Streak {
	if len(trades) < MinStreakLength {
		return nil
	}

	sorted := models.Sorted(trades)
	last := sorted[len(sorted)-1]
	if last.PnL == 0 {
		return nil
	}

	streakType := models.StreakLoss
	if last.PnL > 0 {
		streakType = models.StreakWin
	}

	length := 0
	for i := len(sorted) - 1; i >= 0; i-- {
		pnl := sorted[i].PnL
		if streakType == models.StreakWin && pnl <= 0 {
			break
		}
		if streakType == models.StreakLoss && pnl >= 0 {
			break
		}
		length++
	}

	if length < MinStreakLength {
		return nil
	}
	return &models.Streak{Type: streakType, Length: length}
}

// HighImpact reports whether a streak is long enough to be called out as high
// impact in the report.
func HighImpact(s *models.Streak) bool {
	return s != nil && s.Length >= HighImpactStreak
}
