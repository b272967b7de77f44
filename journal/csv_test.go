package journal

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marginsim/sim"
)

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runsPath := filepath.Join(dir, "runs.csv")
	ledgerPath := filepath.Join(dir, "ledger.csv")

	j, err := NewCSV(runsPath, ledgerPath)
	require.NoError(t, err)

	run := testRun("R1")
	run.Sharpe = math.NaN()
	require.NoError(t, j.RecordRun(run))

	require.NoError(t, j.RecordLedger(LedgerRecord{
		RunID:       "R1",
		Date:        time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		PriceLong:   100,
		PriceShort:  50,
		BaseRate:    0.05,
		Cash:        1_000_000,
		Equity:      1_000_000,
		DailyReturn: math.NaN(),
	}))
	require.NoError(t, j.Close())

	rf, err := os.Open(runsPath)
	require.NoError(t, err)
	defer rf.Close()

	recs, err := csv.NewReader(rf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "run_id", recs[0][0])
	assert.Equal(t, "R1", recs[1][0])
	assert.Equal(t, "NVDA", recs[1][1])
	// Undefined Sharpe is an empty field, not "NaN".
	assert.Equal(t, "", recs[1][10])

	lf, err := os.Open(ledgerPath)
	require.NoError(t, err)
	defer lf.Close()

	rows, err := csv.NewReader(lf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-10-01", rows[1][1])
	assert.Equal(t, "1000000.000000", rows[1][6])
	assert.Equal(t, "", rows[1][11])
}

func TestLedgerRecords(t *testing.T) {
	t.Parallel()

	ledger := &sim.Ledger{Rows: []sim.Row{{
		Date:        time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		PriceLong:   100,
		PriceShort:  50,
		BaseRate:    0.05,
		Cash:        1_000_000,
		Equity:      1_000_000,
		DailyReturn: math.NaN(),
	}}}

	recs := LedgerRecords("R9", ledger)
	require.Len(t, recs, 1)
	assert.Equal(t, "R9", recs[0].RunID)
	assert.InDelta(t, 100, recs[0].PriceLong, 1e-12)
	assert.True(t, math.IsNaN(recs[0].DailyReturn))
}
