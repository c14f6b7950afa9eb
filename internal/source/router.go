package source

import (
	"context"
	"strings"

	"nextbar/internal/domain"
)

// Router sends plain US equity symbols to one source and everything else
// (suffix tickers, '^' indices) to a fallback. With no US source configured
// it degrades to the fallback for all symbols.
type Router struct {
	us       BarSource // may be nil
	fallback BarSource
}

// NewRouter creates a Router. us may be nil.
func NewRouter(us, fallback BarSource) *Router {
	return &Router{us: us, fallback: fallback}
}

func (r *Router) Name() string { return "router" }

// DailyBars dispatches to the source covering the symbol.
func (r *Router) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]domain.Bar, error) {
	if r.us != nil && isPlainUS(symbol) {
		return r.us.DailyBars(ctx, symbol, lookbackDays)
	}
	return r.fallback.DailyBars(ctx, symbol, lookbackDays)
}

// isPlainUS reports whether the symbol looks like a bare US equity ticker:
// no market suffix, no index marker.
func isPlainUS(symbol string) bool {
	return symbol != "" &&
		!strings.HasPrefix(symbol, "^") &&
		!strings.Contains(symbol, ".") &&
		!strings.Contains(symbol, "=")
}
