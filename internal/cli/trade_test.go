package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/internal/models"
)

func tradeFlagsCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addTradeFlags(cmd)
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

func TestTradeFromFlagsNormalizesTime(t *testing.T) {
	cmd := tradeFlagsCmd(t, map[string]string{"time": "8:30"})
	trade := &models.Trade{Tags: models.TagSet{}}

	_, err := tradeFromFlags(cmd, trade)

	require.NoError(t, err)
	assert.Equal(t, "08:30", trade.Time, "unpadded hours must not reach the composite date+time key")
}

func TestTradeFromFlagsRejectsBadTime(t *testing.T) {
	cmd := tradeFlagsCmd(t, map[string]string{"time": "25:00"})

	_, err := tradeFromFlags(cmd, &models.Trade{Tags: models.TagSet{}})

	assert.Error(t, err)
}

func TestTradeFromFlagsRejectsBadDate(t *testing.T) {
	cmd := tradeFlagsCmd(t, map[string]string{"date": "15-03-2024"})

	_, err := tradeFromFlags(cmd, &models.Trade{Tags: models.TagSet{}})

	assert.Error(t, err)
}
