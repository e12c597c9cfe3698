package importer

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/internal/errors"
	"tradebook/internal/models"
)

const statementFixture = `<html><body>
<table>
  <tr><td>Account</td><td>12345</td></tr>
  <tr><td>Name</td><td>Demo Trader</td></tr>
</table>
<table>
  <tr><th>Ticket</th><th>Open Time</th><th>Type</th><th>Size</th><th>Item</th><th>Profit</th></tr>
  <tr><td>1001</td><td>2024.03.11 09:30:00</td><td>buy</td><td>0.10</td><td>eurusd</td><td>125.50</td></tr>
  <tr><td>1002</td><td>2024.03.11 14:15:00</td><td>sell</td><td>0.20</td><td>GBPUSD</td><td>(42.10)</td></tr>
  <tr><td>1003</td><td>2024.03.12 10:00:00</td><td>balance</td><td></td><td></td><td>500.00</td></tr>
  <tr><td>1004</td><td>2024.03.12 11:30:00</td><td>buy</td><td>0.10</td><td>EURUSD</td><td>0.00</td></tr>
  <tr><td>1005</td><td>not a date</td><td>buy</td><td>0.10</td><td>EURUSD</td><td>10.00</td></tr>
  <tr><td>1006</td><td>2024.03.13 16:45:00</td><td>sell</td><td>0.30</td><td>USDJPY</td><td>1 234,56</td></tr>
</table>
</body></html>`

func newTestImporter() *Importer {
	return New(zerolog.Nop())
}

func TestParseStatement(t *testing.T) {
	trades, err := newTestImporter().ParseStatement(strings.NewReader(statementFixture))

	require.NoError(t, err)
	require.Len(t, trades, 3, "ledger, zero-P&L, and malformed rows are excluded")

	assert.Equal(t, "2024-03-11", trades[0].Date)
	assert.Equal(t, "09:30", trades[0].Time)
	assert.Equal(t, "EURUSD", trades[0].Pair, "symbols are normalized upper-case")
	assert.Equal(t, models.TradeLong, trades[0].Type)
	assert.InDelta(t, 125.50, trades[0].PnL, 1e-9)
	assert.NotEmpty(t, trades[0].ID)

	assert.Equal(t, models.TradeShort, trades[1].Type)
	assert.InDelta(t, -42.10, trades[1].PnL, 1e-9, "parenthesized amounts are negative")

	assert.Equal(t, "USDJPY", trades[2].Pair)
	assert.InDelta(t, 1234.56, trades[2].PnL, 1e-9, "space grouping with comma decimal")
}

func TestParseStatementNoTables(t *testing.T) {
	_, err := newTestImporter().ParseStatement(strings.NewReader("<html><body><p>hello</p></body></html>"))

	var importErr *errors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, "statement", importErr.Format)
}

func TestParseStatementMissingProfitColumn(t *testing.T) {
	fixture := `<html><body><table>
	  <tr><th>Open Time</th><th>Type</th><th>Symbol</th><th>Size</th></tr>
	  <tr><td>2024.03.11 09:30:00</td><td>buy</td><td>EURUSD</td><td>0.10</td></tr>
	</table></body></html>`

	_, err := newTestImporter().ParseStatement(strings.NewReader(fixture))

	var importErr *errors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Contains(t, importErr.Message, "no trades table")
}

func TestParseStatementOnlyLedgerRows(t *testing.T) {
	fixture := `<html><body><table>
	  <tr><th>Open Time</th><th>Type</th><th>Symbol</th><th>Profit</th></tr>
	  <tr><td>2024.03.11 09:30:00</td><td>balance</td><td></td><td>500.00</td></tr>
	  <tr><td>2024.03.12 09:30:00</td><td>deposit</td><td></td><td>1000.00</td></tr>
	</table></body></html>`

	_, err := newTestImporter().ParseStatement(strings.NewReader(fixture))

	var importErr *errors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Contains(t, importErr.Message, "no valid trades")
}

func TestParseStatementSkipsAccountSummaryTable(t *testing.T) {
	// The summary table above the trades table must not be mistaken for it.
	trades, err := newTestImporter().ParseStatement(strings.NewReader(statementFixture))

	require.NoError(t, err)
	for _, trade := range trades {
		assert.NotEqual(t, "12345", trade.Pair)
	}
}
