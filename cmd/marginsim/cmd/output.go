package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/olekukonko/tablewriter"

	"marginsim/journal"
	"marginsim/market"
)

func printRuns(w io.Writer, runs []journal.RunRecord) {
	table := tablewriter.NewWriter(w)
	table.Header("Run", "Pair", "Start", "End", "Days", "Final Equity", "Contributions", "Avg Ret", "Vol", "Sharpe")

	for _, r := range runs {
		table.Append(
			r.RunID,
			fmt.Sprintf("%s/%s", r.LongSymbol, r.ShortSymbol),
			r.Start.Format(market.DateFormat),
			r.End.Format(market.DateFormat),
			fmt.Sprintf("%d", r.Days),
			money(r.FinalEquity),
			money(r.TotalContributions),
			num(r.MeanDailyReturn, 6),
			num(r.Volatility, 6),
			num(r.Sharpe, 2),
		)
	}
	table.Render()
}

func printLedger(w io.Writer, rows []journal.LedgerRecord) {
	table := tablewriter.NewWriter(w)
	table.Header("Date", "Long", "Short", "Rate", "Cash", "Equity", "Contrib", "Interest", "Borrow", "Return")

	for _, r := range rows {
		table.Append(
			r.Date.Format(market.DateFormat),
			num(r.PriceLong, 2),
			num(r.PriceShort, 2),
			num(r.BaseRate, 4),
			money(r.Cash),
			money(r.Equity),
			money(r.Contribution),
			money(r.InterestCash),
			money(r.BorrowFee),
			num(r.DailyReturn, 6),
		)
	}
	table.Render()
}

func money(x float64) string {
	if math.IsNaN(x) {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", x)
}

func num(x float64, prec int) string {
	if math.IsNaN(x) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, x)
}
