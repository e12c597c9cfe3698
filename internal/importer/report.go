package importer

import (
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tradebook/internal/errors"
	"tradebook/internal/logging"
	"tradebook/internal/models"
)

// Section labels in XLSX trade reports. The Positions section holds the
// closed trades; the next section label bounds it.
var (
	positionsLabel   = "positions"
	sectionEndLabels = []string{"orders", "deals", "summary"}
)

// Ledger row markers: rows tagged with these in the type or comment column
// are cash movements, not trades.
var ledgerMarkers = []string{"balance", "deposit", "withdrawal"}

// ParseReport parses an XLSX broker trade report. It locates the Positions
// section, finds its header row, and converts the data rows to trades.
func (im *Importer) ParseReport(r io.Reader) ([]models.Trade, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.NewImportError("report", "could not open the file as a spreadsheet", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewImportError("report", "the spreadsheet has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewImportError("report", "could not read the first sheet", err)
	}

	start, end, ok := positionsSection(rows)
	if !ok {
		return nil, errors.NewImportError("report",
			"no Positions section found; is this a trade report export?", nil)
	}

	headerIdx := -1
	var timeCol, typeCol, symbolCol, profitCol, commentCol int
	for i := start; i < end; i++ {
		if t, ty, sy, p, ok := columnIndexes(rows[i]); ok {
			headerIdx = i
			timeCol, typeCol, symbolCol, profitCol = t, ty, sy, p
			commentCol = findColumn(rows[i], []string{"comment"})
			break
		}
	}
	if headerIdx < 0 {
		return nil, errors.NewImportError("report",
			"the Positions section has no recognizable header row (Time, Symbol, Type, Profit)", nil)
	}

	var trades []models.Trade
	skipped := 0
	for i := headerIdx + 1; i < end; i++ {
		trade, err := im.parseReportRow(rows[i], i, timeCol, typeCol, symbolCol, profitCol, commentCol)
		if err != nil {
			if _, isRow := err.(*errors.RowError); isRow {
				skipped++
				logging.LogSkippedRow(im.logger, "report", i, err)
			}
			continue
		}
		if trade != nil {
			trades = append(trades, *trade)
		}
	}

	if len(trades) == 0 {
		return nil, errors.NewImportError("report",
			"the Positions section contained no valid trades", nil)
	}

	logging.LogImport(im.logger, "report", len(trades), skipped)

	return trades, nil
}

// positionsSection returns the row range (start exclusive of the label row,
// end exclusive) of the Positions section.
func positionsSection(rows [][]string) (start, end int, ok bool) {
	start = -1
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		first := strings.ToLower(strings.TrimSpace(row[0]))
		if start < 0 {
			if strings.Contains(first, positionsLabel) {
				start = i + 1
			}
			continue
		}
		for _, label := range sectionEndLabels {
			if strings.Contains(first, label) {
				return start, i, true
			}
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	return start, len(rows), true
}

// findColumn returns the index of the first cell matching the aliases, or -1.
func findColumn(row []string, aliases []string) int {
	for i, cell := range row {
		if matchesAny(cell, aliases) {
			return i
		}
	}
	return -1
}

// parseReportRow converts one Positions data row. Returns nil trade, nil
// error for ledger rows and zero-P&L rows.
func (im *Importer) parseReportRow(row []string, idx, timeCol, typeCol, symbolCol, profitCol, commentCol int) (*models.Trade, error) {
	maxCol := timeCol
	for _, c := range []int{typeCol, symbolCol, profitCol} {
		if c > maxCol {
			maxCol = c
		}
	}
	if len(row) <= maxCol {
		return nil, nil
	}

	if isLedgerRow(row[typeCol]) {
		return nil, nil
	}
	if commentCol >= 0 && commentCol < len(row) && isLedgerRow(row[commentCol]) {
		return nil, nil
	}
	if !isTradeRow(row[typeCol]) {
		return nil, nil
	}

	symbol := strings.TrimSpace(row[symbolCol])
	if symbol == "" {
		return nil, nil
	}

	date, clock, err := parseReportTime(row[timeCol])
	if err != nil {
		return nil, errors.NewRowError(idx, "time", "unparseable datetime", err)
	}

	pnl, err := parsePnL(row[profitCol])
	if err != nil {
		return nil, errors.NewRowError(idx, "profit", "unparseable amount", err)
	}
	if pnl == 0 {
		return nil, nil
	}

	trade := newTrade(date, clock, symbol, row[typeCol], pnl)
	return &trade, nil
}

// isLedgerRow reports whether a cell marks a cash movement row.
func isLedgerRow(cell string) bool {
	c := strings.ToLower(strings.TrimSpace(cell))
	if c == "" {
		return false
	}
	for _, marker := range ledgerMarkers {
		if strings.Contains(c, marker) {
			return true
		}
	}
	return false
}

// reportTimeLayouts are tried in order after separator normalization.
var reportTimeLayouts = []string{
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

// parseReportTime parses a report datetime cell. Report exports use dotted
// dates ("2024.03.15 10:30:00"); dots are normalized to slashes before the
// generic layouts are tried.
func parseReportTime(s string) (date, clock string, err error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ".", "/")

	var parsed time.Time
	for _, layout := range reportTimeLayouts {
		if parsed, err = time.Parse(layout, normalized); err == nil {
			date = parsed.Format("2006-01-02")
			if strings.Contains(normalized, ":") {
				clock = parsed.Format("15:04")
			}
			return date, clock, nil
		}
	}
	return "", "", err
}
