package analysis

import (
	"sort"

	"tradebook/internal/models"
)

// MinTagSample is the minimum trade count before a tag is considered
// statistically meaningful. One-off tags are noise, not signal.
const MinTagSample = 3

// Top-list sizes for the UI summary and the full report.
const (
	TopTagsSummary = 3
	TopTagsReport  = 5
)

// AggregateTags maps every category-qualified tag key to its aggregate stats.
// A trade contributes to every tag value found across all of its categories.
func AggregateTags(trades []models.Trade) map[string]*models.TagStat {
	stats := make(map[string]*models.TagStat)

	for _, t := range trades {
		for _, key := range t.Tags.Flatten() {
			st, ok := stats[key]
			if !ok {
				st = &models.TagStat{Tag: key}
				stats[key] = st
			}
			st.TotalPnL += t.PnL
			st.TradeCount++
			if t.IsWin() {
				st.WinCount++
			}
		}
	}

	for _, st := range stats {
		st.WinRate = winRate(st.WinCount, st.TradeCount)
	}

	return stats
}

// SignificantTags filters out tags below the minimum sample threshold and
// returns the rest as a slice.
func SignificantTags(stats map[string]*models.TagStat) []models.TagStat {
	var out []models.TagStat
	for _, st := range stats {
		if st.TradeCount >= MinTagSample {
			out = append(out, *st)
		}
	}
	return out
}

// TopProfitable returns up to n significant tags with positive total P&L,
// most profitable first.
func TopProfitable(stats map[string]*models.TagStat, n int) []models.TagStat {
	var out []models.TagStat
	for _, st := range SignificantTags(stats) {
		if st.TotalPnL > 0 {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPnL != out[j].TotalPnL {
			return out[i].TotalPnL > out[j].TotalPnL
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopUnprofitable returns up to n significant tags with negative total P&L,
// most negative first.
func TopUnprofitable(stats map[string]*models.TagStat, n int) []models.TagStat {
	var out []models.TagStat
	for _, st := range SignificantTags(stats) {
		if st.TotalPnL < 0 {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPnL != out[j].TotalPnL {
			return out[i].TotalPnL < out[j].TotalPnL
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// WorstInCategory returns the significant tag with the most negative total
// P&L inside one category, or nil when the category has none in the red.
func WorstInCategory(stats map[string]*models.TagStat, category models.TagCategory) *models.TagStat {
	prefix := string(category) + ":"
	var worst *models.TagStat
	for _, st := range SignificantTags(stats) {
		st := st
		if len(st.Tag) <= len(prefix) || st.Tag[:len(prefix)] != prefix {
			continue
		}
		if st.TotalPnL >= 0 {
			continue
		}
		if worst == nil || st.TotalPnL < worst.TotalPnL ||
			(st.TotalPnL == worst.TotalPnL && st.Tag < worst.Tag) {
			worst = &st
		}
	}
	return worst
}
