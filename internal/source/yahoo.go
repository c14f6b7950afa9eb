package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"nextbar/internal/domain"
	"nextbar/internal/util"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo fetches daily bars, venue timezone metadata, and symbol matches from
// the Yahoo Finance public API. It also implements venue.MetadataLookup.
type Yahoo struct {
	baseURL string
	client  *http.Client
	limiter *util.RateLimiter
	retries int
	log     *slog.Logger
}

// YahooOpts configures a Yahoo source. Zero values select defaults.
type YahooOpts struct {
	BaseURL         string
	Timeout         time.Duration
	Retries         int
	RateLimitPerMin int
}

// NewYahoo creates a Yahoo source.
func NewYahoo(opts YahooOpts) *Yahoo {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYahooBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.RateLimitPerMin <= 0 {
		opts.RateLimitPerMin = 60
	}
	return &Yahoo{
		baseURL: opts.BaseURL,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: util.NewRateLimiter(opts.RateLimitPerMin),
		retries: opts.Retries,
		log:     slog.Default().With("source", "yahoo"),
	}
}

func (y *Yahoo) Name() string { return "yahoo" }

// chartResponse mirrors the Yahoo v8 chart payload. OHLCV arrays carry JSON
// nulls on holidays and half-populated rows, hence the pointer elements.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ExchangeName         string `json:"exchangeName"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// rangeFor picks the smallest Yahoo range parameter covering the lookback.
func rangeFor(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

// DailyBars fetches up to lookbackDays daily bars for symbol. Bar timestamps
// are UTC instants decoded from epoch seconds.
func (y *Yahoo) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]domain.Bar, error) {
	chart, err := y.fetchChart(ctx, symbol, "1d", rangeFor(lookbackDays))
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]domain.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		b := domain.Bar{
			Symbol:    symbol,
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      deref(quote.Open, i),
			High:      deref(quote.High, i),
			Low:       deref(quote.Low, i),
			Close:     deref(quote.Close, i),
			Volume:    volumeAt(quote.Volume, i),
		}
		// Fully null rows are holiday placeholders. Partially null rows
		// keep their NaN fields and are dropped by Sanitize.
		if math.IsNaN(b.Open) && math.IsNaN(b.High) && math.IsNaN(b.Low) && math.IsNaN(b.Close) {
			continue
		}
		bars = append(bars, b)
	}

	if len(bars) > lookbackDays {
		bars = bars[len(bars)-lookbackDays:]
	}
	return bars, nil
}

// Timezone returns the exchange timezone reported by the chart metadata.
// Implements venue.MetadataLookup.
func (y *Yahoo) Timezone(ctx context.Context, symbol string) (string, error) {
	chart, err := y.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return "", err
	}
	tz := chart.Chart.Result[0].Meta.ExchangeTimezoneName
	if tz == "" {
		return "", fmt.Errorf("yahoo: no timezone in metadata for %s", symbol)
	}
	return tz, nil
}

func (y *Yahoo) fetchChart(ctx context.Context, symbol, interval, rng string) (*chartResponse, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		y.baseURL, url.PathEscape(symbol), interval, rng)

	var chart chartResponse
	err := util.Retry(ctx, y.retries, 500*time.Millisecond, func() error {
		var c chartResponse
		if err := y.getJSON(ctx, u, &c); err != nil {
			return err
		}
		chart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty result for %s", symbol)
	}
	return &chart, nil
}

// searchResponse mirrors the Yahoo v1 search payload.
type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Search queries the Yahoo autocomplete endpoint.
func (y *Yahoo) Search(ctx context.Context, query string) ([]SymbolMatch, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=10&newsCount=0",
		y.baseURL, url.QueryEscape(query))

	var resp searchResponse
	if err := y.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	matches := make([]SymbolMatch, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.ShortName
		if name == "" {
			name = q.LongName
		}
		matches = append(matches, SymbolMatch{
			Symbol:   q.Symbol,
			Name:     name,
			Exchange: q.Exchange,
			Type:     q.QuoteType,
		})
	}
	return matches, nil
}

func (y *Yahoo) getJSON(ctx context.Context, u string, v any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// deref reads a nullable OHLC element. A missing value becomes NaN so the
// row fails the completeness check instead of masquerading as a zero price.
func deref(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return math.NaN()
	}
	return *vals[i]
}

// volumeAt reads a nullable volume element. Volume is optional, so a missing
// value is zero rather than NaN.
func volumeAt(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}
