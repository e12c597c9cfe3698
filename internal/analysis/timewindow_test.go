package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/internal/models"
)

// timed builds a trade on a fixed date with the given clock time.
func timed(i int, clock string, pnl float64) models.Trade {
	t := tr(i, pnl)
	t.Time = clock
	return t
}

// onDate pins a timed trade to a specific calendar date.
func onDate(date, clock string, pnl float64) models.Trade {
	return models.Trade{
		ID:   fmt.Sprintf("d-%s-%s", date, clock),
		Date: date,
		Time: clock,
		PnL:  pnl,
		Tags: models.TagSet{},
	}
}

func TestHourlyBucketsSkipsUntimedTrades(t *testing.T) {
	trades := []models.Trade{
		timed(0, "09:15", 100),
		timed(1, "09:45", -20),
		timed(2, "14:30", 50),
		tr(3, 999), // no time, excluded
	}

	buckets := HourlyBuckets(trades)

	require.Len(t, buckets, 2)
	assert.Equal(t, 9, buckets[0].Hour)
	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 80.0, buckets[0].PnL, 1e-9)
	assert.Equal(t, 14, buckets[1].Hour)
}

func TestGoldenHourRequiresSampleAndProfit(t *testing.T) {
	var trades []models.Trade
	for i := 0; i < GoldenHourMinTrades-1; i++ {
		trades = append(trades, timed(i, "10:15", 100))
	}
	assert.Nil(t, GoldenHour(trades), "one trade short of the sample minimum")

	trades = append(trades, timed(len(trades), "10:45", 100))
	golden := GoldenHour(trades)
	require.NotNil(t, golden)
	assert.Equal(t, 10, golden.Hour)
	assert.InDelta(t, 100.0, golden.AvgPnL(), 1e-9)

	var losers []models.Trade
	for i := 0; i < GoldenHourMinTrades; i++ {
		losers = append(losers, timed(i, "11:15", -10))
	}
	assert.Nil(t, GoldenHour(losers), "a losing hour is never golden")
}

func TestGoldenHourPicksHighestAverage(t *testing.T) {
	var trades []models.Trade
	for i := 0; i < GoldenHourMinTrades; i++ {
		trades = append(trades, timed(i, "09:30", 40))
		trades = append(trades, timed(100+i, "15:30", 90))
	}

	golden := GoldenHour(trades)

	require.NotNil(t, golden)
	assert.Equal(t, 15, golden.Hour)
}

func TestTimeWindowContainsIsHalfOpen(t *testing.T) {
	w := TimeWindow{Name: "Mid-Morning", Start: "10:00", End: "12:00"}

	assert.True(t, w.Contains("10:00"))
	assert.True(t, w.Contains("11:59"))
	assert.False(t, w.Contains("12:00"))
	assert.False(t, w.Contains("09:59"))
}

func TestWindowStatsAssignsEachTradeOnce(t *testing.T) {
	trades := []models.Trade{
		timed(0, "08:30", 100),
		timed(1, "09:59", -40),
		timed(2, "10:00", 70),
		timed(3, "23:30", 999), // outside every window
		tr(4, 999),             // untimed
	}

	stats := WindowStats(trades, DefaultWindows)

	require.Len(t, stats, len(DefaultWindows))
	assert.Equal(t, 2, stats[0].Count, "Opening Bell holds both morning trades")
	assert.InDelta(t, 60.0, stats[0].PnL, 1e-9)
	assert.InDelta(t, 50.0, stats[0].WinRate, 1e-9)
	assert.Equal(t, 1, stats[1].Count)

	total := 0
	for _, s := range stats {
		total += s.Count
	}
	assert.Equal(t, 3, total, "each timed in-window trade lands in exactly one window")
}

func TestBestAndWorstWindowNeverCoincide(t *testing.T) {
	var trades []models.Trade
	// Opening Bell: profitable with enough sample.
	for i := 0; i < WindowMinTrades; i++ {
		trades = append(trades, timed(i, "08:30", 100))
	}
	// Lunch Lull: bleeding money.
	for i := 0; i < WindowMinTrades; i++ {
		trades = append(trades, timed(10+i, "12:30", -60))
	}

	stats := WindowStats(trades, DefaultWindows)
	best := BestWindow(stats)
	worst := WorstWindow(stats, best)

	require.NotNil(t, best)
	require.NotNil(t, worst)
	assert.Equal(t, "Opening Bell", best.Window.Name)
	assert.Equal(t, "Lunch Lull", worst.Window.Name)
	assert.NotEqual(t, best.Window.Name, worst.Window.Name)
}

func TestBestWindowRequiresSampleAndProfit(t *testing.T) {
	stats := WindowStats([]models.Trade{
		timed(0, "08:30", 100),
		timed(1, "08:45", 100),
	}, DefaultWindows)

	assert.Nil(t, BestWindow(stats), "two trades are below the window sample minimum")
}

func TestWeekdayHourGridFiltersWeekendsAndHours(t *testing.T) {
	trades := []models.Trade{
		onDate("2024-03-11", "09:30", 100), // Monday
		onDate("2024-03-11", "09:45", -20), // Monday, same cell
		onDate("2024-03-15", "14:30", 50),  // Friday
		onDate("2024-03-16", "10:30", 999), // Saturday, excluded
		onDate("2024-03-11", "05:30", 999), // before grid start, excluded
		onDate("2024-03-11", "", 999),      // untimed, excluded
	}

	cells := WeekdayHourGrid(trades, 7, 17)

	require.Len(t, cells, 2)
	assert.Equal(t, time.Monday, cells[0].Weekday)
	assert.Equal(t, 9, cells[0].Hour)
	assert.Equal(t, 2, cells[0].Count)
	assert.InDelta(t, 80.0, cells[0].PnL, 1e-9)
	assert.Equal(t, time.Friday, cells[1].Weekday)
	assert.Equal(t, 14, cells[1].Hour)
}
