package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTradeDate = time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

func testPair() PairConfig {
	return PairConfig{
		LongSymbol:    "NVDA",
		ShortSymbol:   "AVGO",
		LongNotional:  1_000_000,
		ShortNotional: 1_000_000,
		Deposit:       1_000_000,
	}
}

func TestOpenPair(t *testing.T) {
	t.Parallel()

	pos, day0, err := OpenPair(testPair(), testTradeDate, 100, 50)
	require.NoError(t, err)

	assert.InDelta(t, 10_000, pos.LongShares, 1e-9)
	assert.InDelta(t, 20_000, pos.ShortShares, 1e-9)

	// Deposit funds the long purchase and is credited the short proceeds.
	assert.InDelta(t, 1_000_000, day0.Cash, 1e-9)
	assert.InDelta(t, 1_000_000, day0.Equity, 1e-9)
	assert.Zero(t, day0.Contribution)
	assert.Zero(t, day0.InterestCash)
	assert.Zero(t, day0.BorrowFee)
	assert.True(t, math.IsNaN(day0.DailyReturn))
	assert.True(t, day0.Date.Equal(testTradeDate))
}

func TestOpenPairDeterministic(t *testing.T) {
	t.Parallel()

	posA, day0A, err := OpenPair(testPair(), testTradeDate, 123.45, 67.89)
	require.NoError(t, err)
	posB, day0B, err := OpenPair(testPair(), testTradeDate, 123.45, 67.89)
	require.NoError(t, err)

	assert.Equal(t, posA, posB)
	assert.Equal(t, day0A.Cash, day0B.Cash)
	assert.Equal(t, day0A.Equity, day0B.Equity)
}

func TestOpenPairInvalidEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		entryLong  float64
		entryShort float64
	}{
		{"zero_long", 0, 50},
		{"negative_long", -100, 50},
		{"zero_short", 100, 0},
		{"nan_long", math.NaN(), 50},
		{"inf_short", 100, math.Inf(1)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := OpenPair(testPair(), testTradeDate, tt.entryLong, tt.entryShort)
			assert.ErrorIs(t, err, ErrInvalidEntry)
		})
	}
}

func TestOpenPairNonFiniteNotional(t *testing.T) {
	t.Parallel()

	pair := testPair()
	pair.Deposit = math.NaN()
	_, _, err := OpenPair(pair, testTradeDate, 100, 50)
	assert.ErrorIs(t, err, ErrInvalidEntry)
}
