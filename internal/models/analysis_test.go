package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyMetricsMarshalFiniteProfitFactor(t *testing.T) {
	m := KeyMetrics{ProfitFactor: 1.75, WinRate: 60, TradeCount: 10}

	data, err := json.Marshal(m)

	require.NoError(t, err)
	assert.Contains(t, string(data), `"profitFactor":1.75`)
}

func TestKeyMetricsMarshalInfiniteProfitFactor(t *testing.T) {
	m := KeyMetrics{ProfitFactor: math.Inf(1), WinRate: 100, TradeCount: 5}

	data, err := json.Marshal(m)

	require.NoError(t, err, "a no-loss journal is valid input")
	assert.Contains(t, string(data), `"profitFactor":null`)
	assert.Contains(t, string(data), `"winRate":100`)
}
