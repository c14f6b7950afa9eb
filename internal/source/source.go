// Package source fetches daily OHLCV bars and symbol matches from external
// market-data providers.
package source

import (
	"context"
	"sort"

	"nextbar/internal/domain"
)

// BarSource fetches daily bars for a symbol over a trailing lookback window.
// Implementations must honour context cancellation; a cancelled fetch is
// abandoned, not retried.
type BarSource interface {
	DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]domain.Bar, error)
	Name() string
}

// Searcher resolves free text to candidate ticker symbols.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SymbolMatch, error)
}

// SymbolMatch is one autocomplete candidate.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// Sanitize drops bars with missing or non-finite OHLC fields, sorts the rest
// by timestamp, and collapses exact-timestamp duplicates keeping the last
// occurrence. Per-date deduplication happens later, after timezone
// conversion in the session selector.
func Sanitize(bars []domain.Bar) []domain.Bar {
	out := make([]domain.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Usable() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })

	dedup := out[:0]
	for _, b := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Timestamp.Equal(b.Timestamp) {
			dedup[n-1] = b
			continue
		}
		dedup = append(dedup, b)
	}
	return dedup
}
