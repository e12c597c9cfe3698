package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportErrorUnwraps(t *testing.T) {
	cause := fmt.Errorf("underlying parse failure")
	err := NewImportError("statement", "no tables found", cause)

	assert.Contains(t, err.Error(), "statement")
	assert.Contains(t, err.Error(), "no tables found")
	assert.True(t, Is(err, cause))

	var importErr *ImportError
	require.True(t, As(error(err), &importErr))
	assert.Equal(t, "statement", importErr.Format)
}

func TestRowErrorMessage(t *testing.T) {
	err := NewRowError(7, "profit", "unparseable amount", nil)

	assert.Contains(t, err.Error(), "row 7")
	assert.Contains(t, err.Error(), "profit")
}

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrapf(ErrNotEnoughTrades, "have %d trades, need %d", 2, 5)

	assert.True(t, Is(err, ErrNotEnoughTrades))
	assert.Contains(t, err.Error(), "have 2 trades, need 5")
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
}
