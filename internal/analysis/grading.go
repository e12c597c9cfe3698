package analysis

import (
	"math"

	"tradebook/internal/models"
)

// ConsistencyMinTrades is the minimum sample before the consistency score is
// meaningful; below it the score is reported as 0 (not graded).
const ConsistencyMinTrades = 5

// consistencyDecay shapes the CV-to-score curve. A coefficient of variation
// of 0 maps to 10, rising volatility decays the score exponentially.
const consistencyDecay = 0.6

// GradeWeights defines the weight of each sub-score in the overall grade.
type GradeWeights struct {
	ProfitFactor float64
	WinRate      float64
	Consistency  float64
}

// DefaultGradeWeights returns the default grading weights.
func DefaultGradeWeights() GradeWeights {
	return GradeWeights{
		ProfitFactor: 0.45,
		WinRate:      0.35,
		Consistency:  0.20,
	}
}

// ConsistencyScore converts per-trade P&L volatility into a 1-10 score.
// CV = stddev(pnl) / mean(|pnl|); low relative volatility scores high,
// independent of win/loss sign. Returns 0 below the minimum sample.
func ConsistencyScore(trades []models.Trade) int {
	if len(trades) < ConsistencyMinTrades {
		return 0
	}

	n := float64(len(trades))
	var sum, absSum float64
	for _, t := range trades {
		sum += t.PnL
		absSum += math.Abs(t.PnL)
	}
	mean := sum / n
	meanAbs := absSum / n
	if meanAbs == 0 {
		return 0
	}

	var variance float64
	for _, t := range trades {
		d := t.PnL - mean
		variance += d * d
	}
	variance /= n
	cv := math.Sqrt(variance) / meanAbs

	score := int(math.Round(10 * math.Exp(-consistencyDecay*cv)))
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// profitFactorScore maps a profit factor onto a 2-10 sub-score. An infinite
// profit factor (no losing trades) takes the top bracket.
func profitFactorScore(pf float64) float64 {
	switch {
	case math.IsInf(pf, 1):
		return 10
	case pf > 2:
		return 10
	case pf > 1.5:
		return 8
	case pf > 1.2:
		return 6
	case pf > 1:
		return 4
	default:
		return 2
	}
}

// winRateScore maps a win-rate percentage onto a 2-10 sub-score.
func winRateScore(wr float64) float64 {
	switch {
	case wr > 65:
		return 10
	case wr > 55:
		return 8
	case wr > 50:
		return 6
	case wr > 40:
		return 4
	default:
		return 2
	}
}

// Canned grade summaries. Presentation text, not computed.
var gradeSummaries = map[string]string{
	"A": "Excellent performance. Strong edge, disciplined execution, and consistent results.",
	"B": "Good performance. A solid edge is visible; tighten up consistency to reach the next level.",
	"C": "Average performance. The account is roughly breaking even; review your losing patterns.",
	"D": "Underperforming. Losses outweigh gains; reduce size and focus on your best setups.",
}

// Grade derives the letter grade from profit factor, win rate, and the
// consistency score using the default weights.
func Grade(pf, winRatePct float64, consistency int) models.PerformanceGrade {
	w := DefaultGradeWeights()
	total := w.ProfitFactor*profitFactorScore(pf) +
		w.WinRate*winRateScore(winRatePct) +
		w.Consistency*float64(consistency)

	var letter string
	switch {
	case total > 8.5:
		letter = "A"
	case total > 7:
		letter = "B"
	case total > 5:
		letter = "C"
	default:
		letter = "D"
	}

	return models.PerformanceGrade{
		Grade:   letter,
		Summary: gradeSummaries[letter],
	}
}
