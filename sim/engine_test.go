package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marginsim/market"
	"marginsim/rates"
)

func day(dateStr string, long, short, rate float64, calDays int) market.Day {
	d, err := market.ParseDate(dateStr)
	if err != nil {
		panic(err)
	}
	return market.Day{Date: d, PriceLong: long, PriceShort: short, BaseRate: rate, CalDays: calDays}
}

func TestStepCashInterestACT360(t *testing.T) {
	t.Parallel()

	// 500,000 at a 2% credit rate over a 3-day gap on ACT/360.
	e := NewEngine(Position{}, DefaultAccrualConfig())

	prev := State{Cash: 500_000, Equity: 500_000}
	prevDay := day("2024-10-04", 100, 50, 0.025, 1)
	today := day("2024-10-07", 100, 50, 0.025, 3)

	st := e.Step(prev, prevDay, today, rates.Fix{Credit: 0.02, Debit: 0.03, Borrow: 0})

	assert.InDelta(t, 83.33, st.InterestCash, 0.005)
	assert.Zero(t, st.BorrowFee)
}

func TestStepDebitInterestOnNegativeCash(t *testing.T) {
	t.Parallel()

	e := NewEngine(Position{LongShares: 10_000}, DefaultAccrualConfig())

	prev := State{Cash: -360_000, Equity: 500_000}
	prevDay := day("2024-10-01", 100, 50, 0.05, 1)
	today := day("2024-10-02", 100, 50, 0.05, 1)

	st := e.Step(prev, prevDay, today, rates.Fix{Credit: 0.02, Debit: 0.06, Borrow: 0})

	// -360,000 * 6% / 360 = -60 for one day.
	assert.InDelta(t, -60, st.InterestCash, 1e-9)
}

func TestStepBorrowFeeUsesYesterdayShortValue(t *testing.T) {
	t.Parallel()

	e := NewEngine(Position{ShortShares: 20_000}, DefaultAccrualConfig())

	prev := State{Cash: 0, Equity: 100_000}
	prevDay := day("2024-10-01", 100, 50, 0.05, 1) // short MV yesterday = 1,000,000
	today := day("2024-10-02", 100, 90, 0.05, 1)   // today's jump must not matter

	st := e.Step(prev, prevDay, today, rates.Fix{Credit: 0, Debit: 0, Borrow: 0.005})

	// -1,000,000 * 0.5% / 360
	assert.InDelta(t, -13.888889, st.BorrowFee, 1e-5)
	assert.LessOrEqual(t, st.BorrowFee, 0.0)
}

func TestStepMarginCall(t *testing.T) {
	t.Parallel()

	cfg := DefaultAccrualConfig()
	e := NewEngine(Position{LongShares: 10_000, ShortShares: 10_000}, cfg)

	// Interim equity 150,000 + 600,000 - 400,000 = 350,000 against a
	// 400,000 requirement on 1,000,000 gross.
	prev := State{Cash: 150_000, Equity: 500_000}
	prevDay := day("2024-10-01", 70, 45, 0.05, 1)
	today := day("2024-10-02", 60, 40, 0.05, 1)

	st := e.Step(prev, prevDay, today, rates.Fix{})

	assert.InDelta(t, 50_001.00, st.Contribution, 1e-9)
	assert.InDelta(t, 400_001.00, st.Equity, 1e-9)
	assert.InDelta(t, 200_001.00, st.Cash, 1e-9)

	// Return is net of the same-day injection.
	assert.InDelta(t, (350_000.0-500_000.0)/500_000.0, st.DailyReturn, 1e-12)
}

func TestStepReturnPurity(t *testing.T) {
	t.Parallel()

	// The same market move, with and without the margin-call top-up,
	// must produce the identical daily return.
	pos := Position{LongShares: 10_000, ShortShares: 10_000}
	prev := State{Cash: 150_000, Equity: 500_000}
	prevDay := day("2024-10-01", 70, 45, 0.05, 1)
	today := day("2024-10-02", 60, 40, 0.05, 1)

	withCall := NewEngine(pos, DefaultAccrualConfig()).Step(prev, prevDay, today, rates.Fix{})

	noCallCfg := DefaultAccrualConfig()
	noCallCfg.MaintenanceRatio = 0
	withoutCall := NewEngine(pos, noCallCfg).Step(prev, prevDay, today, rates.Fix{})

	assert.Greater(t, withCall.Contribution, 0.0)
	assert.Zero(t, withoutCall.Contribution)
	assert.InDelta(t, withoutCall.DailyReturn, withCall.DailyReturn, 1e-12)
}

func TestStepZeroPriorEquityReturnUndefined(t *testing.T) {
	t.Parallel()

	e := NewEngine(Position{LongShares: 100}, DefaultAccrualConfig())

	prev := State{Cash: 0, Equity: 0}
	prevDay := day("2024-10-01", 10, 10, 0.05, 1)
	today := day("2024-10-02", 11, 10, 0.05, 1)

	st := e.Step(prev, prevDay, today, rates.Fix{})
	assert.True(t, math.IsNaN(st.DailyReturn))
}

func testSeries() market.Series {
	return market.Series{
		day("2024-09-30", 98, 51, 0.05, 0),
		day("2024-10-01", 100, 50, 0.05, 1),
		day("2024-10-02", 101, 49, 0.05, 1),
		day("2024-10-03", 99, 50, 0.048, 1),
		day("2024-10-04", 102, 48, 0.048, 1),
		day("2024-10-07", 103, 47, 0.05, 3),
	}
}

func TestSimulateReferenceScenario(t *testing.T) {
	t.Parallel()

	ledger, err := Simulate(testSeries(), testTradeDate, testPair(), DefaultAccrualConfig())
	require.NoError(t, err)
	require.Len(t, ledger.Rows, 5)

	// Day zero: trade date, no accruals.
	r0 := ledger.Rows[0]
	assert.InDelta(t, 1_000_000, r0.Cash, 1e-9)
	assert.InDelta(t, 1_000_000, r0.Equity, 1e-9)
	assert.True(t, math.IsNaN(r0.DailyReturn))

	// Day one, hand-computed: credit = 5% - 50bps = 4.5% on 1,000,000,
	// borrow = 50bps on yesterday's 1,000,000 short value, one day each.
	r1 := ledger.Rows[1]
	assert.InDelta(t, 125.0, r1.InterestCash, 1e-9)
	assert.InDelta(t, -13.888889, r1.BorrowFee, 1e-5)
	assert.InDelta(t, 1_000_111.111111, r1.Cash, 1e-4)
	assert.InDelta(t, 1_030_111.111111, r1.Equity, 1e-4)
	assert.Zero(t, r1.Contribution)
	assert.InDelta(t, 0.030111111, r1.DailyReturn, 1e-8)

	// Weekend gap accrues three calendar days.
	r4 := ledger.Rows[4]
	assert.Equal(t, 3, r4.CalDays)
}

func TestSimulateNoLookAhead(t *testing.T) {
	t.Parallel()

	base := testSeries()
	ledgerA, err := Simulate(base, testTradeDate, testPair(), DefaultAccrualConfig())
	require.NoError(t, err)

	// Perturb the final day; every earlier state must be bit-identical.
	perturbed := make(market.Series, len(base))
	copy(perturbed, base)
	perturbed[len(perturbed)-1].PriceLong = 1
	perturbed[len(perturbed)-1].PriceShort = 500
	perturbed[len(perturbed)-1].BaseRate = 0.20

	ledgerB, err := Simulate(perturbed, testTradeDate, testPair(), DefaultAccrualConfig())
	require.NoError(t, err)

	require.Len(t, ledgerB.Rows, len(ledgerA.Rows))
	for i := 0; i < len(ledgerA.Rows)-1; i++ {
		a, b := ledgerA.Rows[i], ledgerB.Rows[i]
		assert.Equal(t, a.Cash, b.Cash, "cash row %d", i)
		assert.Equal(t, a.Equity, b.Equity, "equity row %d", i)
		assert.Equal(t, a.Contribution, b.Contribution, "contribution row %d", i)
	}
}

func TestSimulateContributionMonotonicity(t *testing.T) {
	t.Parallel()

	// A collapsing long leg forces repeated margin calls; after every
	// margin step equity must cover the requirement, strictly by the
	// buffer whenever a call fired.
	series := market.Series{
		day("2024-10-01", 100, 50, 0.05, 0),
		day("2024-10-02", 80, 55, 0.05, 1),
		day("2024-10-03", 60, 60, 0.05, 1),
		day("2024-10-04", 45, 65, 0.05, 1),
		day("2024-10-07", 30, 70, 0.05, 3),
	}

	cfg := DefaultAccrualConfig()
	ledger, err := Simulate(series, testTradeDate, testPair(), cfg)
	require.NoError(t, err)

	called := 0
	for i, r := range ledger.Rows {
		if i == 0 {
			continue
		}
		required := cfg.MaintenanceRatio * r.GrossExposure()
		assert.GreaterOrEqual(t, r.Equity, required, "row %d", i)
		if r.Contribution > 0 {
			called++
			assert.InDelta(t, cfg.Buffer, r.Equity-required, 1e-6, "row %d clears by the buffer", i)
		}
	}
	assert.Greater(t, called, 0, "scenario should force at least one margin call")
}

func TestSimulateMissingTradeDate(t *testing.T) {
	t.Parallel()

	missing := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC) // a Saturday
	_, err := Simulate(testSeries(), missing, testPair(), DefaultAccrualConfig())
	assert.ErrorIs(t, err, ErrMissingTradeDate)
}

func TestSimulateRejectsNaNSeries(t *testing.T) {
	t.Parallel()

	series := testSeries()
	series[3].BaseRate = math.NaN()

	_, err := Simulate(series, testTradeDate, testPair(), DefaultAccrualConfig())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base rate")
}

func TestLedgerAccessors(t *testing.T) {
	t.Parallel()

	ledger, err := Simulate(testSeries(), testTradeDate, testPair(), DefaultAccrualConfig())
	require.NoError(t, err)

	assert.True(t, ledger.Start().Equal(testTradeDate))
	assert.True(t, ledger.End().Equal(time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, ledger.Rows[len(ledger.Rows)-1].Equity, ledger.FinalEquity())

	// Day zero's NaN return is excluded.
	assert.Len(t, ledger.Returns(), len(ledger.Rows)-1)
}

func TestAccrualConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*AccrualConfig)
	}{
		{"ratio_negative", func(c *AccrualConfig) { c.MaintenanceRatio = -0.1 }},
		{"ratio_one", func(c *AccrualConfig) { c.MaintenanceRatio = 1.0 }},
		{"buffer_negative", func(c *AccrualConfig) { c.Buffer = -1 }},
		{"zero_basis", func(c *AccrualConfig) { c.DayCount = 0 }},
		{"negative_spread", func(c *AccrualConfig) { c.Schedule.CreditSpread = -0.001 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultAccrualConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultAccrualConfig().Validate())
}
