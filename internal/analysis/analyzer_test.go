package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/internal/errors"
	"tradebook/internal/models"
)

// stubEnricher returns a canned enrichment, or an error when failing is set.
type stubEnricher struct {
	enrichment *Enrichment
	failing    bool
	calls      int
}

func (s *stubEnricher) Enrich(ctx context.Context, trades []models.Trade) (*Enrichment, error) {
	s.calls++
	if s.failing {
		return nil, fmt.Errorf("model unavailable")
	}
	return s.enrichment, nil
}

func newTestAnalyzer(enricher Enricher) *Analyzer {
	return NewAnalyzer(DefaultOptions(), enricher, zerolog.Nop())
}

func TestAnalyzeNotEnoughTrades(t *testing.T) {
	a := newTestAnalyzer(nil)

	_, err := a.Analyze(context.Background(), trs(100, -50))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotEnoughTrades))
}

func TestAnalyzeOfflineReport(t *testing.T) {
	a := newTestAnalyzer(nil)
	trades := trs(100, -50, 200, -50, 120, 80)

	result, err := a.Analyze(context.Background(), trades)

	require.NoError(t, err)
	assert.NotEmpty(t, result.OverallSummary)
	assert.Equal(t, 6, result.KeyMetrics.TradeCount)
	assert.InDelta(t, 400.0, result.KeyMetrics.TotalPnL, 1e-9)
	assert.Contains(t, []string{"A", "B", "C", "D"}, result.PerformanceGrade.Grade)
	assert.NotEmpty(t, result.KeyObservations)
}

func TestAnalyzeTagInsightsInPriorityOrder(t *testing.T) {
	a := newTestAnalyzer(nil)

	var trades []models.Trade
	for i := 0; i < MinTagSample; i++ {
		trades = append(trades, tagged(i, 100, models.TagStrategy, "Breakout"))
		trades = append(trades, tagged(10+i, -80, models.TagMistakes, "Chased"))
	}

	result, err := a.Analyze(context.Background(), trades)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.ActionableInsights), 3)
	assert.Equal(t, models.TopicStrategy, result.ActionableInsights[0].Topic)
	assert.Contains(t, result.ActionableInsights[0].Pattern, "strategy:Breakout")
	assert.Equal(t, models.TopicStrategy, result.ActionableInsights[1].Topic)
	assert.Contains(t, result.ActionableInsights[1].Pattern, "mistakes:Chased")
	assert.Equal(t, models.TopicRisk, result.ActionableInsights[2].Topic)
}

func TestAnalyzeEnrichmentMergesNarrativeOnly(t *testing.T) {
	enricher := &stubEnricher{enrichment: &Enrichment{
		Summary: "An external narrative summary.",
		Insights: []models.Insight{
			{Pattern: "External pattern", Recommendation: "External advice", Topic: models.TopicRisk},
		},
		Observations: []models.Observation{
			{Text: "External observation", Topic: models.TopicPerformance},
		},
	}}
	a := newTestAnalyzer(enricher)
	trades := trs(100, -50, 200, -50, 120, 80)

	offline, err := newTestAnalyzer(nil).Analyze(context.Background(), trades)
	require.NoError(t, err)

	enriched, err := a.Analyze(context.Background(), trades)
	require.NoError(t, err)

	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, "An external narrative summary.", enriched.OverallSummary)
	assert.Contains(t, enriched.KeyObservations, models.Observation{
		Text: "External observation", Topic: models.TopicPerformance,
	})

	// The numbers, grade, and tag lists never move.
	assert.Equal(t, offline.KeyMetrics, enriched.KeyMetrics)
	assert.Equal(t, offline.PerformanceGrade, enriched.PerformanceGrade)
	assert.Equal(t, offline.TagPerformance, enriched.TagPerformance)
}

func TestAnalyzeEnrichmentFailureIsSilent(t *testing.T) {
	enricher := &stubEnricher{failing: true}
	a := newTestAnalyzer(enricher)
	trades := trs(100, -50, 200, -50, 120, 80)

	offline, err := newTestAnalyzer(nil).Analyze(context.Background(), trades)
	require.NoError(t, err)

	result, err := a.Analyze(context.Background(), trades)

	require.NoError(t, err, "enrichment failure must never fail the analysis")
	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, offline.OverallSummary, result.OverallSummary)
	assert.Equal(t, offline.KeyMetrics, result.KeyMetrics)
	assert.Equal(t, offline.PerformanceGrade, result.PerformanceGrade)
}

func TestAnalyzeNoLossReportMarshalsToJSON(t *testing.T) {
	a := newTestAnalyzer(nil)

	result, err := a.Analyze(context.Background(), trs(10, 20, 30, 40, 50))
	require.NoError(t, err)
	require.True(t, math.IsInf(result.KeyMetrics.ProfitFactor, 1))

	data, err := json.Marshal(result)

	require.NoError(t, err, "the JSON output mode must survive a no-loss journal")
	assert.Contains(t, string(data), `"profitFactor":null`)
}

func TestAnalyzeEmptySummaryKeepsOfflineSummary(t *testing.T) {
	enricher := &stubEnricher{enrichment: &Enrichment{
		Observations: []models.Observation{{Text: "Only an observation", Topic: models.TopicRisk}},
	}}
	a := newTestAnalyzer(enricher)
	trades := trs(100, -50, 200, -50, 120)

	offline, err := newTestAnalyzer(nil).Analyze(context.Background(), trades)
	require.NoError(t, err)

	result, err := a.Analyze(context.Background(), trades)

	require.NoError(t, err)
	assert.Equal(t, offline.OverallSummary, result.OverallSummary)
}
