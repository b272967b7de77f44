package marketdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"marginsim/market"
)

const (
	// DefaultStooqURL serves daily OHLC history as CSV, no API key needed.
	DefaultStooqURL = "https://stooq.com/q/d/l/"

	// DefaultFREDURL serves reference-rate observations as CSV.
	DefaultFREDURL = "https://fred.stlouisfed.org/graph/fredgraph.csv"
)

// Client downloads daily closes and rate fixings. Requests share a polite
// rate limiter so a fetch of several series does not hammer the endpoints.
type Client struct {
	stooqURL   string
	fredURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client against the public Stooq and FRED endpoints.
func NewClient() *Client {
	return &Client{
		stooqURL: DefaultStooqURL,
		fredURL:  DefaultFREDURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
}

// NewClientWithURLs creates a client against custom endpoints (tests).
func NewClientWithURLs(stooqURL, fredURL string) *Client {
	c := NewClient()
	c.stooqURL = stooqURL
	c.fredURL = fredURL
	return c
}

// DailyCloses fetches the daily close history for symbol over [start, end].
// Plain US tickers are mapped to Stooq's ".us" convention.
func (c *Client) DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]market.Quote, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	q := url.Values{}
	q.Set("s", stooqSymbol(symbol))
	q.Set("d1", start.Format("20060102"))
	q.Set("d2", end.Format("20060102"))
	q.Set("i", "d")

	body, err := c.get(ctx, c.stooqURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch closes for %s: %w", symbol, err)
	}
	defer body.Close()

	quotes, err := ReadQuotes(body)
	if err != nil {
		return nil, fmt.Errorf("parse closes for %s: %w", symbol, err)
	}
	return quotes, nil
}

// RateFixings fetches a FRED reference-rate series (e.g. "SOFR") over
// [start, end]. FRED publishes rates in percent; values are returned as
// decimal fractions.
func (c *Client) RateFixings(ctx context.Context, series string, start, end time.Time) ([]market.Fixing, error) {
	if series == "" {
		return nil, fmt.Errorf("rate series is required")
	}

	q := url.Values{}
	q.Set("id", series)
	q.Set("cosd", start.Format(market.DateFormat))
	q.Set("coed", end.Format(market.DateFormat))

	body, err := c.get(ctx, c.fredURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch fixings for %s: %w", series, err)
	}
	defer body.Close()

	fixings, err := ReadFixings(body, true)
	if err != nil {
		return nil, fmt.Errorf("parse fixings for %s: %w", series, err)
	}
	return fixings, nil
}

func (c *Client) get(ctx context.Context, u string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// stooqSymbol lowercases the ticker and appends the ".us" market suffix
// when none is given.
func stooqSymbol(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if !strings.Contains(s, ".") {
		s += ".us"
	}
	return s
}
