package analysis

import (
	"sort"
	"time"

	"tradebook/internal/models"
)

// GoldenHourMinTrades is the minimum sample an hour bucket needs before it can
// qualify as the golden hour.
const GoldenHourMinTrades = 5

// WindowMinTrades is the minimum sample a named window needs before it can
// qualify as the best window.
const WindowMinTrades = 3

// HourBucket aggregates trades that opened within one local hour of day.
type HourBucket struct {
	Hour  int
	PnL   float64
	Count int
}

// AvgPnL returns the average P&L per trade in the bucket.
func (b HourBucket) AvgPnL() float64 {
	if b.Count == 0 {
		return 0
	}
	return b.PnL / float64(b.Count)
}

// HourlyBuckets aggregates timed trades into hour-of-day buckets. Trades
// without a time value are skipped. Only non-empty buckets are returned,
// sorted by hour.
func HourlyBuckets(trades []models.Trade) []HourBucket {
	byHour := make(map[int]*HourBucket)
	for _, t := range trades {
		h, ok := t.Hour()
		if !ok {
			continue
		}
		b, ok := byHour[h]
		if !ok {
			b = &HourBucket{Hour: h}
			byHour[h] = b
		}
		b.PnL += t.PnL
		b.Count++
	}

	out := make([]HourBucket, 0, len(byHour))
	for _, b := range byHour {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// GoldenHour returns the hour bucket with the highest average P&L among
// buckets with enough trades, or nil when no bucket qualifies or the best
// average is not positive.
func GoldenHour(trades []models.Trade) *HourBucket {
	var best *HourBucket
	for _, b := range HourlyBuckets(trades) {
		b := b
		if b.Count < GoldenHourMinTrades {
			continue
		}
		if best == nil || b.AvgPnL() > best.AvgPnL() {
			best = &b
		}
	}
	if best == nil || best.AvgPnL() <= 0 {
		return nil
	}
	return best
}

// GridCell is one non-empty weekday/hour cell of the performance grid.
type GridCell struct {
	Weekday time.Weekday
	Hour    int
	PnL     float64
	Count   int
}

// WeekdayHourGrid buckets timed trades by weekday and hour for visualization.
// Only trading-week days (Monday-Friday) and hours within [startHour, endHour]
// are included; empty cells are omitted rather than filled with zero.
func WeekdayHourGrid(trades []models.Trade, startHour, endHour int) []GridCell {
	type cellKey struct {
		day  time.Weekday
		hour int
	}
	cells := make(map[cellKey]*GridCell)

	for _, t := range trades {
		h, ok := t.Hour()
		if !ok || h < startHour || h > endHour {
			continue
		}
		date, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			continue
		}
		day := date.Weekday()
		if day == time.Saturday || day == time.Sunday {
			continue
		}
		key := cellKey{day: day, hour: h}
		c, ok := cells[key]
		if !ok {
			c = &GridCell{Weekday: day, Hour: h}
			cells[key] = c
		}
		c.PnL += t.PnL
		c.Count++
	}

	out := make([]GridCell, 0, len(cells))
	for _, c := range cells {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday != out[j].Weekday {
			return out[i].Weekday < out[j].Weekday
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

// TimeWindow is a named half-open clock interval [Start, End).
type TimeWindow struct {
	Name  string
	Start string // HH:MM inclusive
	End   string // HH:MM exclusive
}

// DefaultWindows covers the trading day in named slices.
var DefaultWindows = []TimeWindow{
	{Name: "Opening Bell", Start: "08:00", End: "10:00"},
	{Name: "Mid-Morning", Start: "10:00", End: "12:00"},
	{Name: "Lunch Lull", Start: "12:00", End: "14:00"},
	{Name: "Afternoon Drive", Start: "14:00", End: "16:00"},
	{Name: "Closing Hour", Start: "16:00", End: "18:00"},
}

// Contains reports half-open interval membership for an HH:MM clock value.
// HH:MM strings compare correctly as plain strings.
func (w TimeWindow) Contains(clock string) bool {
	return clock >= w.Start && clock < w.End
}

// WindowStat aggregates performance inside one named time window.
type WindowStat struct {
	Window   TimeWindow
	PnL      float64
	WinCount int
	Count    int
	WinRate  float64
}

// WindowStats assigns each timed trade to at most one window and aggregates
// per-window performance. Windows with zero trades are still returned so
// callers can render the full set.
func WindowStats(trades []models.Trade, windows []TimeWindow) []WindowStat {
	stats := make([]WindowStat, len(windows))
	for i, w := range windows {
		stats[i].Window = w
	}

	for _, t := range trades {
		if _, ok := t.Hour(); !ok {
			continue
		}
		for i := range stats {
			if stats[i].Window.Contains(t.Time) {
				stats[i].PnL += t.PnL
				stats[i].Count++
				if t.IsWin() {
					stats[i].WinCount++
				}
				break
			}
		}
	}

	for i := range stats {
		stats[i].WinRate = winRate(stats[i].WinCount, stats[i].Count)
	}
	return stats
}

// BestWindow returns the window with the highest win rate among windows with
// enough trades and positive total P&L, or nil when none qualifies.
func BestWindow(stats []WindowStat) *WindowStat {
	var best *WindowStat
	for i := range stats {
		s := &stats[i]
		if s.Count < WindowMinTrades || s.PnL <= 0 {
			continue
		}
		if best == nil || s.WinRate > best.WinRate {
			best = s
		}
	}
	return best
}

// WorstWindow returns the window with the most negative total P&L among
// windows that are losing money or winning less than half the time. The best
// window is excluded by name so the same window never reports as both.
func WorstWindow(stats []WindowStat, best *WindowStat) *WindowStat {
	var worst *WindowStat
	for i := range stats {
		s := &stats[i]
		if s.Count == 0 {
			continue
		}
		if best != nil && s.Window.Name == best.Window.Name {
			continue
		}
		if s.WinRate >= 50 && s.PnL >= 0 {
			continue
		}
		if worst == nil || s.PnL < worst.PnL {
			worst = s
		}
	}
	return worst
}
