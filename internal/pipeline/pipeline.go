// Package pipeline chains venue resolution, bar fetch, session selection,
// calendar advancement, and prediction into one per-request run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nextbar/internal/calendar"
	"nextbar/internal/domain"
	"nextbar/internal/predict"
	"nextbar/internal/session"
	"nextbar/internal/source"
	"nextbar/internal/venue"
)

// ErrEmptyTicker rejects blank input before any external call.
var ErrEmptyTicker = errors.New("ticker is required")

// Result is the full pipeline output for one ticker.
type Result struct {
	Ticker      string
	Venue       string
	Timezone    string
	SessionDate time.Time // venue-local date of the completed session
	Bar         domain.Bar
	BestEffort  bool
	TargetDate  time.Time
	Predicted   decimal.Decimal
	Method      string
}

// Runner is the pipeline entry point. The cache decorator and the HTTP
// layer depend on this rather than the concrete Pipeline.
type Runner interface {
	Run(ctx context.Context, ticker string) (*Result, error)
}

// Pipeline wires the concrete collaborators. Construct with New.
type Pipeline struct {
	src          source.BarSource
	venues       *venue.Resolver
	strategy     predict.Strategy
	lookbackDays int
	fetchTimeout time.Duration
	now          func() time.Time
	log          *slog.Logger
}

// Opts configures a Pipeline. Zero values select defaults: 14-day lookback,
// 15s fetch timeout, previous-close strategy, wall-clock now.
type Opts struct {
	LookbackDays int
	FetchTimeout time.Duration
	Strategy     predict.Strategy
	Now          func() time.Time
}

// New creates a Pipeline over the given bar source and venue resolver.
func New(src source.BarSource, venues *venue.Resolver, opts Opts) *Pipeline {
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 14
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	if opts.Strategy == nil {
		opts.Strategy = predict.PreviousClose{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		src:          src,
		venues:       venues,
		strategy:     opts.Strategy,
		lookbackDays: opts.LookbackDays,
		fetchTimeout: opts.FetchTimeout,
		now:          opts.Now,
		log:          slog.Default().With("component", "pipeline"),
	}
}

// Run resolves the ticker's venue, fetches and cleans its daily bars,
// selects the latest completed session, and produces the prediction for the
// next open date.
//
// Failure modes map to the domain sentinels: source failures wrap
// domain.ErrFetchFailed, an empty series is domain.ErrNoData, and a series
// whose every row is missing OHLC fields is domain.ErrIncompleteSeries.
func (p *Pipeline) Run(ctx context.Context, raw string) (*Result, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" {
		return nil, ErrEmptyTicker
	}

	desc := p.venues.Resolve(ctx, ticker)

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	bars, err := p.src.DailyBars(fetchCtx, ticker, p.lookbackDays)
	if err != nil {
		if ctx.Err() != nil {
			// Caller went away; don't dress cancellation up as a source fault.
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	clean := source.Sanitize(bars)
	if len(clean) == 0 {
		if len(bars) > 0 {
			return nil, domain.ErrIncompleteSeries
		}
		return nil, domain.ErrNoData
	}

	sel, err := session.Select(clean, desc, p.now())
	if err != nil {
		return nil, err
	}

	target := calendar.NextOpenDate(sel.LocalDate, desc)
	value := p.strategy.Predict(sel.Bar)

	p.log.Debug("pipeline run",
		"ticker", ticker,
		"venue", desc.Name,
		"session", sel.LocalDate.Format("2006-01-02"),
		"target", target.Format("2006-01-02"),
	)

	return &Result{
		Ticker:      ticker,
		Venue:       desc.Name,
		Timezone:    desc.Timezone,
		SessionDate: sel.LocalDate,
		Bar:         sel.Bar,
		BestEffort:  sel.BestEffort,
		TargetDate:  target,
		Predicted:   value,
		Method:      p.strategy.Method(),
	}, nil
}
