package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/internal/models"
)

func tagged(i int, pnl float64, category models.TagCategory, value string) models.Trade {
	t := tr(i, pnl)
	t.Tags.Set(category, value)
	return t
}

func TestAggregateTagsCountsEveryCategory(t *testing.T) {
	trade := tr(1, 100)
	trade.Tags.Set(models.TagStrategy, "Breakout")
	trade.Tags.Set(models.TagEmotions, "FOMO")
	trade.Tags.Set(models.TagEmotions, "Greed")

	stats := AggregateTags([]models.Trade{trade})

	require.Len(t, stats, 3)
	assert.Equal(t, 1, stats["strategy:Breakout"].TradeCount)
	assert.Equal(t, 1, stats["emotions:FOMO"].TradeCount)
	assert.Equal(t, 1, stats["emotions:Greed"].TradeCount)
	assert.InDelta(t, 100.0, stats["strategy:Breakout"].TotalPnL, 1e-9)
	assert.InDelta(t, 100.0, stats["strategy:Breakout"].WinRate, 1e-9)
}

// A tag with two trades is below the significance threshold and invisible in
// the top lists; the third trade makes it appear with the full aggregate.
func TestTagSignificanceThreshold(t *testing.T) {
	trades := []models.Trade{
		tagged(1, 100, models.TagStrategy, "Breakout"),
		tagged(2, 50, models.TagStrategy, "Breakout"),
	}

	top := TopProfitable(AggregateTags(trades), TopTagsReport)
	assert.Empty(t, top, "two trades must stay below the sample threshold")

	trades = append(trades, tagged(3, 75, models.TagStrategy, "Breakout"))
	top = TopProfitable(AggregateTags(trades), TopTagsReport)

	require.Len(t, top, 1)
	assert.Equal(t, "strategy:Breakout", top[0].Tag)
	assert.Equal(t, 3, top[0].TradeCount)
	assert.InDelta(t, 225.0, top[0].TotalPnL, 1e-9)
	assert.InDelta(t, 100.0, top[0].WinRate, 1e-9)
}

func TestTopProfitableOrderingAndTruncation(t *testing.T) {
	var trades []models.Trade
	mk := func(value string, pnl float64) {
		for i := 0; i < MinTagSample; i++ {
			trades = append(trades, tagged(len(trades), pnl, models.TagStrategy, value))
		}
	}
	mk("A", 10)
	mk("B", 30)
	mk("C", 20)
	mk("D", -5)

	top := TopProfitable(AggregateTags(trades), 2)

	require.Len(t, top, 2)
	assert.Equal(t, "strategy:B", top[0].Tag)
	assert.Equal(t, "strategy:C", top[1].Tag)
}

func TestTopUnprofitableExcludesWinners(t *testing.T) {
	var trades []models.Trade
	for i := 0; i < MinTagSample; i++ {
		trades = append(trades, tagged(i, -40, models.TagMistakes, "Chased entry"))
	}
	for i := 0; i < MinTagSample; i++ {
		trades = append(trades, tagged(10+i, 60, models.TagStrategy, "Breakout"))
	}

	stats := AggregateTags(trades)
	worst := TopUnprofitable(stats, TopTagsReport)

	require.Len(t, worst, 1)
	assert.Equal(t, "mistakes:Chased entry", worst[0].Tag)
	assert.InDelta(t, -120.0, worst[0].TotalPnL, 1e-9)
}

func TestTopListTieBreaksByTagName(t *testing.T) {
	var trades []models.Trade
	for i := 0; i < MinTagSample; i++ {
		trades = append(trades, tagged(i, 10, models.TagStrategy, "Zeta"))
		trades = append(trades, tagged(50+i, 10, models.TagTrigger, "Alpha"))
	}

	top := TopProfitable(AggregateTags(trades), 2)

	require.Len(t, top, 2)
	assert.Equal(t, "strategy:Zeta", top[0].Tag)
	assert.Equal(t, "trigger:Alpha", top[1].Tag)
}

func TestWorstInCategory(t *testing.T) {
	var trades []models.Trade
	for i := 0; i < MinTagSample; i++ {
		trades = append(trades, tagged(i, -30, models.TagMistakes, "Moved stop"))
		trades = append(trades, tagged(30+i, -80, models.TagMistakes, "Revenge trade"))
		trades = append(trades, tagged(60+i, -500, models.TagStrategy, "News"))
	}

	stats := AggregateTags(trades)
	worst := WorstInCategory(stats, models.TagMistakes)

	require.NotNil(t, worst)
	assert.Equal(t, "mistakes:Revenge trade", worst.Tag)

	assert.Nil(t, WorstInCategory(stats, models.TagSession))
}
