package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"tradebook/internal/errors"
	"tradebook/internal/logging"
	"tradebook/internal/models"
)

// Enrichment carries the narrative fields an external service may contribute
// to a report. Numeric fields are deliberately absent: the offline computation
// is authoritative.
type Enrichment struct {
	Summary      string
	Insights     []models.Insight
	Observations []models.Observation
}

// Enricher is the optional external collaborator. Implementations must return
// an error for anything short of a fully valid response; the analyzer treats
// every failure the same and falls back to the offline result.
type Enricher interface {
	Enrich(ctx context.Context, trades []models.Trade) (*Enrichment, error)
}

// Options configures an Analyzer.
type Options struct {
	MinTrades     int // precondition threshold for Analyze
	GridStartHour int
	GridEndHour   int
}

// DefaultOptions returns the default analyzer options.
func DefaultOptions() Options {
	return Options{
		MinTrades:     5,
		GridStartHour: 7,
		GridEndHour:   17,
	}
}

// Analyzer composes the attribution engines, the grading model, and the
// optional enrichment step into a single report.
type Analyzer struct {
	opts     Options
	enricher Enricher // nil disables enrichment
	logger   zerolog.Logger
}

// NewAnalyzer creates an analyzer. The enricher may be nil.
func NewAnalyzer(opts Options, enricher Enricher, logger zerolog.Logger) *Analyzer {
	if opts.MinTrades < 1 {
		opts.MinTrades = 1
	}
	return &Analyzer{
		opts:     opts,
		enricher: enricher,
		logger:   logger,
	}
}

// Analyze converts a raw trade list into a structured performance report.
// Returns errors.ErrNotEnoughTrades when the journal is below the configured
// minimum, so callers can prompt for more trades rather than a different file.
func (a *Analyzer) Analyze(ctx context.Context, trades []models.Trade) (*models.AnalysisResult, error) {
	if len(trades) < a.opts.MinTrades {
		return nil, errors.Wrapf(errors.ErrNotEnoughTrades,
			"have %d trades, need %d", len(trades), a.opts.MinTrades)
	}

	metrics := ComputeMetrics(trades)
	consistency := ConsistencyScore(trades)
	grade := Grade(metrics.ProfitFactor, metrics.WinRate, consistency)

	keyMetrics := models.KeyMetrics{
		ConsistencyScore: consistency,
		ProfitFactor:     metrics.ProfitFactor,
		WinRate:          metrics.WinRate,
		TotalPnL:         metrics.TotalPnL,
		TradeCount:       metrics.TradeCount,
		AvgWin:           metrics.AvgWin,
		AvgLoss:          metrics.AvgLoss,
	}

	tagStats := AggregateTags(trades)
	tagPerf := models.TagPerformance{
		Profitable:   TopProfitable(tagStats, TopTagsReport),
		Unprofitable: TopUnprofitable(tagStats, TopTagsReport),
	}

	result := &models.AnalysisResult{
		OverallSummary:     overallSummary(metrics, grade),
		Strengths:          strengths(metrics),
		Weaknesses:         weaknesses(metrics),
		ActionableInsights: a.buildInsights(trades, tagStats),
		KeyObservations: []models.Observation{
			{Text: overallSummary(metrics, grade), Topic: models.TopicPerformance},
			{Text: riskProfile(metrics), Topic: models.TopicRisk},
		},
		PerformanceGrade: grade,
		KeyMetrics:       keyMetrics,
		TagPerformance:   tagPerf,
	}

	a.mergeEnrichment(ctx, trades, result, keyMetrics, grade, tagPerf)

	return result, nil
}

// buildInsights runs the insight generators in fixed priority order. Each
// generator contributes at most one insight with a fixed topic.
func (a *Analyzer) buildInsights(trades []models.Trade, tagStats map[string]*models.TagStat) []models.Insight {
	var insights []models.Insight

	if best := TopProfitable(tagStats, 1); len(best) > 0 {
		insights = append(insights, models.Insight{
			Pattern: fmt.Sprintf("Trades tagged %q are your biggest earner: %+.2f over %d trades (%.0f%% win rate).",
				best[0].Tag, best[0].TotalPnL, best[0].TradeCount, best[0].WinRate),
			Recommendation: fmt.Sprintf("Lean into the conditions behind %q; this setup is working.", best[0].Tag),
			RelatedTags:    []string{best[0].Tag},
			Topic:          models.TopicStrategy,
		})
	}

	if worst := TopUnprofitable(tagStats, 1); len(worst) > 0 {
		insights = append(insights, models.Insight{
			Pattern: fmt.Sprintf("Trades tagged %q are costing you: %+.2f over %d trades (%.0f%% win rate).",
				worst[0].Tag, worst[0].TotalPnL, worst[0].TradeCount, worst[0].WinRate),
			Recommendation: fmt.Sprintf("Pause or downsize trades matching %q until the pattern improves.", worst[0].Tag),
			RelatedTags:    []string{worst[0].Tag},
			Topic:          models.TopicStrategy,
		})
	}

	if mistake := WorstInCategory(tagStats, models.TagMistakes); mistake != nil {
		insights = append(insights, models.Insight{
			Pattern: fmt.Sprintf("The mistake %q has cost %+.2f across %d trades.",
				mistake.Tag, mistake.TotalPnL, mistake.TradeCount),
			Recommendation: "Add a pre-trade checklist item targeting this mistake before your next session.",
			RelatedTags:    []string{mistake.Tag},
			Topic:          models.TopicRisk,
		})
	}

	if trend := DetectTrend(trades); trend != nil && trend.Degraded {
		insights = append(insights, models.Insight{
			Pattern: fmt.Sprintf("Recent performance is degrading: win rate %.0f%% over the last %d trades vs %.0f%% lifetime.",
				trend.RecentWinRate, TrendWindow, trend.LifetimeWinRate),
			Recommendation: "Cut size and slow down until your recent results return to baseline.",
			Topic:          models.TopicPerformance,
		})
	}

	if golden := GoldenHour(trades); golden != nil {
		insights = append(insights, models.Insight{
			Pattern: fmt.Sprintf("Your best hour is %02d:00-%02d:00, averaging %+.2f per trade over %d trades.",
				golden.Hour, golden.Hour+1, golden.AvgPnL(), golden.Count),
			Recommendation: "Concentrate your trading around this hour and protect it from distractions.",
			Topic:          models.TopicTiming,
		})
	}

	return insights
}

// Fixed thresholds for the strengths/weaknesses checklist.
const (
	strongWinRate     = 55.0
	weakWinRate       = 45.0
	strongProfitRatio = 1.5
)

func strengths(m Metrics) []string {
	var out []string
	if m.WinRate > strongWinRate {
		out = append(out, fmt.Sprintf("Solid win rate of %.1f%%.", m.WinRate))
	}
	if m.ProfitFactor > strongProfitRatio {
		out = append(out, fmt.Sprintf("Healthy profit factor of %s.", formatPF(m.ProfitFactor)))
	}
	return out
}

func weaknesses(m Metrics) []string {
	var out []string
	if m.WinRate < weakWinRate {
		out = append(out, fmt.Sprintf("Win rate of %.1f%% is below break-even territory.", m.WinRate))
	}
	if !math.IsInf(m.ProfitFactor, 1) && m.ProfitFactor < 1 {
		out = append(out, fmt.Sprintf("Profit factor of %.2f means losses outweigh gains.", m.ProfitFactor))
	}
	return out
}

func overallSummary(m Metrics, grade models.PerformanceGrade) string {
	return fmt.Sprintf("%d trades, %+.2f net P&L, %.1f%% win rate, profit factor %s. Grade %s.",
		m.TradeCount, m.TotalPnL, m.WinRate, formatPF(m.ProfitFactor), grade.Grade)
}

// riskProfile labels the shape of the trader's outcomes from the ratio of
// average win to average loss combined with win rate. Five discrete buckets.
func riskProfile(m Metrics) string {
	if m.WinCount == 0 || m.LossCount == 0 {
		return "Risk profile: not enough of both wins and losses to characterize yet."
	}

	ratio := m.AvgWin / math.Abs(m.AvgLoss)
	switch {
	case ratio >= 2.0:
		return "Risk profile: home-run hitter. A few large wins carry many small losses; protect those outlier trades."
	case ratio >= 1.2 && m.WinRate >= 50:
		return "Risk profile: asymmetric edge. Wins are larger than losses and come often; a robust combination."
	case ratio >= 0.8 && m.WinRate >= 50:
		return "Risk profile: balanced. Wins and losses are similar in size; the win rate is doing the work."
	case ratio < 0.8 && m.WinRate >= 55:
		return "Risk profile: scalper. High win rate with small wins against larger losses; one bad day can erase a week."
	default:
		return "Risk profile: negative asymmetry. Losses run larger than wins without a win-rate edge; tighten stops."
	}
}

func formatPF(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞ (no losing trades)"
	}
	return fmt.Sprintf("%.2f", pf)
}

// mergeEnrichment calls the optional enrichment service and merges its
// narrative output. The authoritative fields are re-asserted afterward so no
// external response can shadow the offline computation; any failure leaves
// the offline result untouched.
func (a *Analyzer) mergeEnrichment(ctx context.Context, trades []models.Trade,
	result *models.AnalysisResult, keyMetrics models.KeyMetrics,
	grade models.PerformanceGrade, tagPerf models.TagPerformance) {

	if a.enricher == nil {
		return
	}

	start := time.Now()
	enr, err := a.enricher.Enrich(ctx, trades)
	if err != nil {
		logging.LogEnrichment(a.logger, time.Since(start), err)
		return
	}

	if enr.Summary != "" {
		result.OverallSummary = enr.Summary
	}
	result.ActionableInsights = append(result.ActionableInsights, enr.Insights...)
	result.KeyObservations = append(result.KeyObservations, enr.Observations...)

	// Offline numbers win, unconditionally.
	result.KeyMetrics = keyMetrics
	result.PerformanceGrade = grade
	result.TagPerformance = tagPerf

	logging.LogEnrichment(a.logger, time.Since(start), nil)
}
