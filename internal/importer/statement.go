package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"tradebook/internal/errors"
	"tradebook/internal/logging"
	"tradebook/internal/models"
)

// statementTableMinMatches is how many of the four canonical columns a table
// must show somewhere before it is considered the trades table.
const statementTableMinMatches = 3

// ParseStatement parses an HTML broker account statement and returns the
// trades it contains. Non-trade ledger rows (deposits, balance entries) are
// filtered by their type cell; malformed rows are logged and skipped.
func (im *Importer) ParseStatement(r io.Reader) ([]models.Trade, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.NewImportError("statement", "could not parse the file as HTML", err)
	}

	tables := extractTables(doc)
	if len(tables) == 0 {
		return nil, errors.NewImportError("statement",
			"no tables found in the file; is this a broker statement export?", nil)
	}

	rows, headerIdx := findTradesTable(tables)
	if rows == nil {
		return nil, errors.NewImportError("statement",
			"no trades table found; expected columns like Open Time, Type, Symbol and Profit", nil)
	}

	timeCol, typeCol, symbolCol, profitCol, ok := columnIndexes(rows[headerIdx])
	if !ok {
		// findTradesTable only returns a header row with all four columns,
		// so this is unreachable; keep the user-facing error anyway.
		return nil, errors.NewImportError("statement",
			"trades table is missing a required column (Open Time, Type, Symbol or Profit)", nil)
	}

	var trades []models.Trade
	skipped := 0
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		trade, err := im.parseStatementRow(row, i, timeCol, typeCol, symbolCol, profitCol)
		if err != nil {
			if _, isRow := err.(*errors.RowError); isRow {
				skipped++
				logging.LogSkippedRow(im.logger, "statement", i, err)
			}
			continue
		}
		if trade != nil {
			trades = append(trades, *trade)
		}
	}

	if len(trades) == 0 {
		return nil, errors.NewImportError("statement",
			"the trades table contained no valid trades", nil)
	}

	logging.LogImport(im.logger, "statement", len(trades), skipped)

	return trades, nil
}

// parseStatementRow converts one table row. A nil trade with nil error means
// the row is a non-trade ledger row or a zero-P&L row, silently ignored.
func (im *Importer) parseStatementRow(row []string, idx, timeCol, typeCol, symbolCol, profitCol int) (*models.Trade, error) {
	maxCol := timeCol
	for _, c := range []int{typeCol, symbolCol, profitCol} {
		if c > maxCol {
			maxCol = c
		}
	}
	if len(row) <= maxCol {
		return nil, nil // spacer or section row, not data
	}

	if !isTradeRow(row[typeCol]) {
		return nil, nil
	}

	symbol := strings.TrimSpace(row[symbolCol])
	if symbol == "" {
		return nil, nil
	}

	date, clock, err := parseOpenTime(row[timeCol])
	if err != nil {
		return nil, errors.NewRowError(idx, "open time", "unparseable datetime", err)
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

// findTradesTable picks the table qualifying as the trades table: some row
// matches at least three canonical columns, and a row with all four present
// becomes the header. Returns the table rows and the header row index, or
// nil when no table qualifies.
func findTradesTable(tables [][][]string) ([][]string, int) {
	for _, rows := range tables {
		qualifies := false
		for _, row := range rows {
			if headerMatchCount(row) >= statementTableMinMatches {
				qualifies = true
				break
			}
		}
		if !qualifies {
			continue
		}
		for i, row := range rows {
			if _, _, _, _, ok := columnIndexes(row); ok {
				return rows, i
			}
		}
	}
	return nil, 0
}

// extractTables walks the HTML tree and returns every table as rows of cell
// text. Nested tables are flattened into their own entries.
func extractTables(doc *html.Node) [][][]string {
	var tables [][][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			if rows := extractRows(n); len(rows) > 0 {
				tables = append(tables, rows)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tables
}

func extractRows(table *html.Node) [][]string {
	var rows [][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if cells := extractCells(n); len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}

	return rows
}

func extractCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, nodeText(c))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
