// Package marketdata acquires the raw inputs for a simulation: daily close
// quotes per symbol and overnight reference-rate fixings, from local CSV
// files (optionally compressed) or from the Stooq and FRED CSV endpoints.
package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"marginsim/market"
)

// ReadQuotes parses a daily-quote CSV with a header row containing at
// least Date and Close columns (the Stooq download format).
func ReadQuotes(r io.Reader) ([]market.Quote, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read quote header: %w", err)
	}

	dateCol, closeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("quote CSV needs Date and Close columns, got %v", header)
	}

	var out []market.Quote
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read quote row: %w", err)
		}

		date, err := market.ParseDate(rec[dateCol])
		if err != nil {
			return nil, err
		}
		close, err := strconv.ParseFloat(rec[closeCol], 64)
		if err != nil {
			return nil, fmt.Errorf("row %s: bad close %q: %w", rec[dateCol], rec[closeCol], err)
		}
		out = append(out, market.Quote{Date: date, Close: close})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("quote CSV has no data rows")
	}
	return out, nil
}

// ReadFixings parses a two-column rate CSV (date, value) with a header row,
// the FRED fredgraph.csv format. Unpublished observations ("." or empty)
// are dropped; alignment backward-fills across them later. When percent is
// true values are divided by 100, since FRED publishes rates in percent.
func ReadFixings(r io.Reader, percent bool) ([]market.Fixing, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read fixing header: %w", err)
	}

	var out []market.Fixing
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read fixing row: %w", err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("fixing row %v: want date,value", rec)
		}

		raw := strings.TrimSpace(rec[1])
		if raw == "" || raw == "." {
			continue
		}

		date, err := market.ParseDate(rec[0])
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %s: bad rate %q: %w", rec[0], raw, err)
		}
		if percent {
			v /= 100
		}
		out = append(out, market.Fixing{Date: date, Rate: v})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("fixing CSV has no published observations")
	}
	return out, nil
}
