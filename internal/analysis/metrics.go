// Package analysis provides the offline trading-performance analysis engine:
// lifetime metrics, tag and time-window attribution, streak and trend
// detection, and the consistency/grading model. Everything here is a pure,
// synchronous computation over an in-memory trade slice.
package analysis

import (
	"math"

	"tradebook/internal/models"
)

// Metrics holds lifetime aggregate metrics over a trade set.
type Metrics struct {
	TotalPnL     float64
	TradeCount   int
	WinCount     int
	LossCount    int
	WinRate      float64 // percent, 0-100
	GrossProfit  float64
	GrossLoss    float64 // negative or zero
	AvgWin       float64
	AvgLoss      float64 // negative or zero
	ProfitFactor float64 // +Inf when there are no losing trades
}

// ComputeMetrics aggregates lifetime metrics over the given trades.
func ComputeMetrics(trades []models.Trade) Metrics {
	m := Metrics{TradeCount: len(trades)}

	for _, t := range trades {
		m.TotalPnL += t.PnL
		if t.PnL > 0 {
			m.WinCount++
			m.GrossProfit += t.PnL
		} else if t.PnL < 0 {
			m.LossCount++
			m.GrossLoss += t.PnL
		}
	}

	if m.TradeCount > 0 {
		m.WinRate = float64(m.WinCount) / float64(m.TradeCount) * 100
	}
	if m.WinCount > 0 {
		m.AvgWin = m.GrossProfit / float64(m.WinCount)
	}
	if m.LossCount > 0 {
		m.AvgLoss = m.GrossLoss / float64(m.LossCount)
	}
	m.ProfitFactor = profitFactor(m.GrossProfit, m.GrossLoss)

	return m
}

// profitFactor is gross profit over gross loss magnitude, +Inf when nothing
// was lost.
func profitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss == 0 {
		return math.Inf(1)
	}
	return math.Abs(grossProfit) / math.Abs(grossLoss)
}

// winRate returns winCount/count as a percentage, 0 when count is 0.
func winRate(winCount, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(winCount) / float64(count) * 100
}
