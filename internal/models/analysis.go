package models

import (
	"encoding/json"
	"math"
)

// TagStat aggregates performance for one category-qualified tag. Derived on
// every analysis call, never persisted.
type TagStat struct {
	Tag        string  `json:"tag"`
	TotalPnL   float64 `json:"totalPnl"`
	TradeCount int     `json:"tradeCount"`
	WinCount   int     `json:"winCount"`
	WinRate    float64 `json:"winRate"`
}

// StreakType classifies a run of same-outcome trades.
type StreakType string

const (
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)

// Streak is a maximal trailing run of same-sign-outcome trades.
type Streak struct {
	Type   StreakType `json:"type"`
	Length int        `json:"length"`
}

// InsightTopic labels the area an actionable insight belongs to.
type InsightTopic string

const (
	TopicStrategy    InsightTopic = "strategy"
	TopicRisk        InsightTopic = "risk"
	TopicPerformance InsightTopic = "performance"
	TopicTiming      InsightTopic = "timing"
)

// Insight is a single actionable finding in the report.
type Insight struct {
	Pattern        string       `json:"pattern"`
	Recommendation string       `json:"recommendation"`
	RelatedTags    []string     `json:"relatedTags,omitempty"`
	Topic          InsightTopic `json:"topic"`
}

// Observation is a qualitative note in the report.
type Observation struct {
	Text  string       `json:"text"`
	Topic InsightTopic `json:"topic"`
}

// KeyMetrics holds the authoritative numeric results of an analysis. These are
// computed offline and are never overwritten by enrichment.
type KeyMetrics struct {
	ConsistencyScore int     `json:"consistencyScore"`
	ProfitFactor     float64 `json:"profitFactor"`
	WinRate          float64 `json:"winRate"`
	TotalPnL         float64 `json:"totalPnl"`
	TradeCount       int     `json:"tradeCount"`
	AvgWin           float64 `json:"avgWin"`
	AvgLoss          float64 `json:"avgLoss"`
}

// MarshalJSON encodes an infinite profit factor as null. A journal with no
// losing trades is valid input, but encoding/json rejects +Inf outright.
func (m KeyMetrics) MarshalJSON() ([]byte, error) {
	type alias KeyMetrics
	out := struct {
		alias
		ProfitFactor *float64 `json:"profitFactor"`
	}{alias: alias(m)}
	if !math.IsInf(m.ProfitFactor, 0) {
		out.ProfitFactor = &m.ProfitFactor
	}
	return json.Marshal(out)
}

// PerformanceGrade is the letter grade with its canned summary.
type PerformanceGrade struct {
	Grade   string `json:"grade"`
	Summary string `json:"summary"`
}

// TagPerformance holds the top profitable and unprofitable tag lists.
type TagPerformance struct {
	Profitable   []TagStat `json:"profitable"`
	Unprofitable []TagStat `json:"unprofitable"`
}

// AnalysisResult is the full performance report. Constructed fresh per analysis
// invocation and never mutated after return.
type AnalysisResult struct {
	OverallSummary     string           `json:"overallSummary"`
	Strengths          []string         `json:"strengths"`
	Weaknesses         []string         `json:"weaknesses"`
	ActionableInsights []Insight        `json:"actionableInsights"`
	KeyObservations    []Observation    `json:"keyObservations"`
	PerformanceGrade   PerformanceGrade `json:"performanceGrade"`
	KeyMetrics         KeyMetrics       `json:"keyMetrics"`
	TagPerformance     TagPerformance   `json:"tagPerformance"`
}
