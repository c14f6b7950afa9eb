package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"nextbar/internal/domain"
)

// Alpaca fetches daily bars for plain US equity symbols via the Alpaca
// market-data API. Suffix and index tickers are outside Alpaca's universe;
// the Router keeps them on Yahoo.
type Alpaca struct {
	client *marketdata.Client
	log    *slog.Logger
}

// NewAlpaca creates an Alpaca source. dataURL may be empty for the default
// endpoint.
func NewAlpaca(apiKey, apiSecret, dataURL string) *Alpaca {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return &Alpaca{
		client: marketdata.NewClient(opts),
		log:    slog.Default().With("source", "alpaca"),
	}
}

func (a *Alpaca) Name() string { return "alpaca" }

// DailyBars fetches daily bars over the trailing lookback window. Alpaca
// bar timestamps are UTC instants.
func (a *Alpaca) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]domain.Bar, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)

	raw, err := a.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca GetBars %s: %w", symbol, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars := make([]domain.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, domain.Bar{
			Symbol:    symbol,
			Timestamp: b.Timestamp.UTC(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    float64(b.Volume),
		})
	}
	return bars, nil
}
