package domain

import "errors"

// Sentinel errors for the pipeline. Venue resolution has no error mode: it
// always falls back to the default venue.
var (
	// ErrNoData means the source returned an empty series, or nothing
	// survived cleaning.
	ErrNoData = errors.New("no bar data")

	// ErrIncompleteSeries means rows were returned but every one was
	// missing a required OHLC field.
	ErrIncompleteSeries = errors.New("bars missing required OHLC fields")

	// ErrFetchFailed wraps market-data source failures, including timeouts.
	ErrFetchFailed = errors.New("market data fetch failed")
)
