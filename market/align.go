package market

import (
	"fmt"
	"sort"
	"time"
)

// Align joins two daily quote series and a reference-rate fixing series into
// one Series ready for the accrual engine.
//
// Trading days are the intersection of the long and short quote dates (a day
// without both closes is dropped). Rate fixings are matched by date; a day
// without a same-day fixing takes the next published fixing (backward fill,
// the usual treatment for an overnight rate published with a lag), and days
// past the last fixing reuse it. CalDays is the calendar-day gap between
// consecutive trading days, 0 on the first record.
func Align(long, short []Quote, fixings []Fixing) (Series, error) {
	if len(long) == 0 || len(short) == 0 {
		return nil, fmt.Errorf("align: both quote series must be non-empty")
	}
	if len(fixings) == 0 {
		return nil, fmt.Errorf("align: fixing series must be non-empty")
	}

	long = sortedQuotes(long)
	short = sortedQuotes(short)

	fix := make([]Fixing, len(fixings))
	copy(fix, fixings)
	for i := range fix {
		fix[i].Date = Midnight(fix[i].Date)
	}
	sort.Slice(fix, func(i, j int) bool { return fix[i].Date.Before(fix[j].Date) })

	shortByDate := make(map[time.Time]float64, len(short))
	for _, q := range short {
		shortByDate[q.Date] = q.Close
	}

	var out Series
	var prevDate time.Time
	for _, q := range long {
		sc, ok := shortByDate[q.Date]
		if !ok {
			continue
		}

		day := Day{
			Date:       q.Date,
			PriceLong:  q.Close,
			PriceShort: sc,
			BaseRate:   rateOn(fix, q.Date),
		}
		if len(out) > 0 {
			day.CalDays = calendarDays(prevDate, q.Date)
		}
		out = append(out, day)
		prevDate = q.Date
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("align: long and short series share no trading days")
	}
	return out, nil
}

// rateOn returns the fixing for date, backward-filling from the next
// published fixing when the date itself has none. fix must be sorted.
func rateOn(fix []Fixing, date time.Time) float64 {
	i := sort.Search(len(fix), func(i int) bool { return !fix[i].Date.Before(date) })
	if i == len(fix) {
		return fix[len(fix)-1].Rate
	}
	return fix[i].Rate
}

func sortedQuotes(in []Quote) []Quote {
	out := make([]Quote, len(in))
	copy(out, in)
	for i := range out {
		out[i].Date = Midnight(out[i].Date)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
