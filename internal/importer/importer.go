// Package importer parses broker export files into journal trades. Two
// formats are supported: HTML account statements and XLSX trade reports.
// Row-level problems are logged and skipped; an import only fails when no
// qualifying table or section exists or zero valid trades survive.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tradebook/internal/models"
)

// Importer parses broker exports into []models.Trade.
type Importer struct {
	logger zerolog.Logger
}

// New creates an importer.
func New(logger zerolog.Logger) *Importer {
	return &Importer{logger: logger}
}

// Canonical columns both formats must provide, with the aliases brokers use.
// Matching is case-insensitive substring per alias.
var (
	aliasesOpenTime = []string{"open time", "time"}
	aliasesType     = []string{"type"}
	aliasesSymbol   = []string{"symbol", "instrument", "item"}
	aliasesProfit   = []string{"profit", "p/l", "pnl"}
)

// matchesAny reports whether the cell matches one of the column aliases.
func matchesAny(cell string, aliases []string) bool {
	c := strings.ToLower(strings.TrimSpace(cell))
	if c == "" {
		return false
	}
	for _, a := range aliases {
		if strings.Contains(c, a) {
			return true
		}
	}
	return false
}

// columnIndexes locates the four canonical columns in a header row.
// Returns ok=false unless all four are present.
func columnIndexes(row []string) (timeCol, typeCol, symbolCol, profitCol int, ok bool) {
	timeCol, typeCol, symbolCol, profitCol = -1, -1, -1, -1
	for i, cell := range row {
		switch {
		case timeCol < 0 && matchesAny(cell, aliasesOpenTime):
			timeCol = i
		case typeCol < 0 && matchesAny(cell, aliasesType):
			typeCol = i
		case symbolCol < 0 && matchesAny(cell, aliasesSymbol):
			symbolCol = i
		case profitCol < 0 && matchesAny(cell, aliasesProfit):
			profitCol = i
		}
	}
	ok = timeCol >= 0 && typeCol >= 0 && symbolCol >= 0 && profitCol >= 0
	return
}

// headerMatchCount counts how many canonical columns a row matches. Used to
// recognize a qualifying table before pinning down the exact header row.
func headerMatchCount(row []string) int {
	count := 0
	for _, aliases := range [][]string{aliasesOpenTime, aliasesType, aliasesSymbol, aliasesProfit} {
		for _, cell := range row {
			if matchesAny(cell, aliases) {
				count++
				break
			}
		}
	}
	return count
}

// parsePnL parses a broker-formatted money amount. Handles parenthesized
// accounting negatives and mixed thousands/decimal separators: whichever of
// the last comma or last period occurs later in the string is the decimal
// point, everything else is grouping.
func parsePnL(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}

	// Strip spaces and non-breaking spaces used as grouping.
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, s)

	lastComma := strings.LastIndex(s, ",")
	lastPeriod := strings.LastIndex(s, ".")

	var decimalSep byte
	switch {
	case lastComma < 0 && lastPeriod < 0:
		// Integer amount.
	case lastComma > lastPeriod:
		decimalSep = ','
	default:
		decimalSep = '.'
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == decimalSep && (i == lastComma || i == lastPeriod):
			b.WriteByte('.')
		case c == ',' || c == '.':
			// Grouping separator, drop it.
		default:
			return 0, fmt.Errorf("unexpected character %q in amount %q", c, s)
		}
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if negative {
		value = -value
	}
	return value, nil
}

// parseOpenTime splits a broker datetime cell into journal date and time.
// The date part normalizes "." and "/" separators to "-"; the time part is
// normalized to zero-padded HH:MM and may be absent.
func parseOpenTime(s string) (date, clock string, err error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return "", "", fmt.Errorf("empty datetime")
	}

	date = strings.NewReplacer(".", "-", "/", "-").Replace(fields[0])
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", "", fmt.Errorf("parsing date %q: %w", fields[0], err)
	}

	if len(fields) > 1 {
		if clock, err = parseClock(fields[1]); err != nil {
			return "", "", fmt.Errorf("parsing time %q: %w", fields[1], err)
		}
	}

	return date, clock, nil
}

// clockLayouts are tried in order; seconds are dropped.
var clockLayouts = []string{"15:04:05", "15:04"}

// parseClock normalizes a clock cell to zero-padded HH:MM. time.Parse accepts
// single-digit hours, so the parsed value is re-emitted rather than the raw
// input; an unpadded hour would sort after later afternoon trades on the
// composite date+time key.
func parseClock(s string) (string, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognized clock %q", s)
}

// tradeType maps a broker buy/sell direction to the journal trade type.
func tradeType(direction string) models.TradeType {
	if strings.EqualFold(strings.TrimSpace(direction), "sell") {
		return models.TradeShort
	}
	return models.TradeLong
}

// isTradeRow reports whether the type cell marks an actual trade. Statement
// tables interleave ledger rows (deposits, balance lines) whose type is
// something else entirely.
func isTradeRow(typeCell string) bool {
	t := strings.ToLower(strings.TrimSpace(typeCell))
	return t == "buy" || t == "sell"
}

// newTrade assembles a validated journal trade from parsed row values.
func newTrade(date, clock, symbol, direction string, pnl float64) models.Trade {
	return models.Trade{
		ID:   uuid.NewString(),
		Date: date,
		Time: clock,
		Pair: models.NormalizePair(symbol),
		PnL:  pnl,
		Type: tradeType(direction),
		Tags: models.TagSet{},
	}
}
