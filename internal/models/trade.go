// Package models provides domain models for the trading journal.
package models

import (
	"sort"
	"strings"
)

// TradeType represents the direction of a trade.
type TradeType string

const (
	TradeLong  TradeType = "long"
	TradeShort TradeType = "short"
)

// Trade represents a single journaled trade.
// Trades are immutable once persisted; updates replace the whole record.
type Trade struct {
	ID     string
	Date   string // calendar date, YYYY-MM-DD, no timezone
	Time   string // local clock time, HH:MM, empty when unknown
	Pair   string // instrument symbol, upper-cased
	PnL    float64
	Type   TradeType // optional, empty when unknown
	Tags   TagSet
	Rating int    // 1-5, 0 when unset
	Notes  string // opaque to the analysis engine
	Photos [][]byte
}

// ChronoKey returns the chronological ordering key for the trade.
// An empty time sorts before any timed trade on the same date.
func (t *Trade) ChronoKey() string {
	return t.Date + " " + t.Time
}

// IsWin reports whether the trade closed with a strictly positive P&L.
func (t *Trade) IsWin() bool {
	return t.PnL > 0
}

// Hour returns the local hour of the trade (0-23) and whether a time is set.
func (t *Trade) Hour() (int, bool) {
	if len(t.Time) < 4 {
		return 0, false
	}
	h := 0
	for i := 0; i < len(t.Time) && t.Time[i] != ':'; i++ {
		c := t.Time[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		h = h*10 + int(c-'0')
	}
	if h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// SortChronological sorts trades in place by the composite date+time key, oldest
// first. Every component that needs "most recent N trades" goes through this,
// never through insertion order.
func SortChronological(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].ChronoKey() < trades[j].ChronoKey()
	})
}

// Sorted returns a chronologically sorted copy, leaving the input untouched.
func Sorted(trades []Trade) []Trade {
	out := make([]Trade, len(trades))
	copy(out, trades)
	SortChronological(out)
	return out
}

// RecentN returns the n most recent trades in chronological order.
func RecentN(trades []Trade, n int) []Trade {
	sorted := Sorted(trades)
	if len(sorted) <= n {
		return sorted
	}
	return sorted[len(sorted)-n:]
}

// NormalizePair upper-cases and trims an instrument symbol.
func NormalizePair(pair string) string {
	return strings.ToUpper(strings.TrimSpace(pair))
}
