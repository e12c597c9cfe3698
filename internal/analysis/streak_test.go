package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/internal/models"
)

func TestDetectStreakLosses(t *testing.T) {
	s := DetectStreak(trs(100, -10, -20, -30))

	require.NotNil(t, s)
	assert.Equal(t, models.StreakLoss, s.Type)
	assert.Equal(t, 3, s.Length)
}

func TestDetectStreakWins(t *testing.T) {
	s := DetectStreak(trs(-50, 10, 20, 30, 40))

	require.NotNil(t, s)
	assert.Equal(t, models.StreakWin, s.Type)
	assert.Equal(t, 4, s.Length)
}

func TestDetectStreakTooShort(t *testing.T) {
	assert.Nil(t, DetectStreak(trs(-10, 100, 200)), "a 2-trade run is not a streak")
	assert.Nil(t, DetectStreak(trs(100, 200)), "fewer trades than the minimum")
}

func TestDetectStreakZeroPnLBreaks(t *testing.T) {
	assert.Nil(t, DetectStreak(trs(10, 20, 30, 0)), "zero P&L on the last trade means no streak")
	s := DetectStreak(trs(0, 10, 20, 30))
	require.NotNil(t, s)
	assert.Equal(t, 3, s.Length, "zero P&L bounds the run")
}

// Detection runs over chronological order, so any permutation of the same
// trades produces the same streak.
func TestDetectStreakOrderIndependent(t *testing.T) {
	trades := trs(100, -10, -20, -30, -40)
	reversed := make([]models.Trade, len(trades))
	for i, tt := range trades {
		reversed[len(trades)-1-i] = tt
	}

	a := DetectStreak(trades)
	b := DetectStreak(reversed)

	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, *a, *b)
}

func TestHighImpact(t *testing.T) {
	assert.False(t, HighImpact(nil))
	assert.False(t, HighImpact(&models.Streak{Type: models.StreakLoss, Length: 4}))
	assert.True(t, HighImpact(&models.Streak{Type: models.StreakLoss, Length: 5}))
	assert.True(t, HighImpact(&models.Streak{Type: models.StreakWin, Length: 9}))
}
