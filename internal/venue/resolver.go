package venue

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// MetadataLookup supplies a timezone hint for tickers that match no known
// suffix. The market-data source implements this; the lookup may be slow or
// unavailable, so the resolver bounds it with a timeout and treats any
// failure as "no hint".
type MetadataLookup interface {
	Timezone(ctx context.Context, symbol string) (string, error)
}

// Resolver resolves tickers to venue descriptors. The zero value is not
// usable; construct with NewResolver.
type Resolver struct {
	meta    MetadataLookup // nil disables the metadata fallback
	timeout time.Duration
	log     *slog.Logger
}

// NewResolver creates a Resolver. meta may be nil. timeout bounds each
// metadata lookup; zero or negative selects a 2s default.
func NewResolver(meta MetadataLookup, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Resolver{
		meta:    meta,
		timeout: timeout,
		log:     slog.Default().With("component", "venue"),
	}
}

// Resolve maps a raw ticker to its venue. It never fails: unknown tickers,
// including index tickers (leading '^', which carry no suffix), resolve via
// the metadata hint when one is available, and to the default US venue
// otherwise.
func (r *Resolver) Resolve(ctx context.Context, ticker string) Descriptor {
	t := strings.ToUpper(strings.TrimSpace(ticker))

	for _, e := range suffixTable {
		if strings.HasSuffix(t, e.suffix) {
			return e.desc
		}
	}

	if r.meta != nil {
		if d, ok := r.lookup(ctx, t); ok {
			return d
		}
	}

	return Default
}

// lookup asks the metadata collaborator for a timezone hint, bounded by the
// resolver timeout. The hint replaces only the timezone; default US hours
// and week apply since the source reports no session times.
func (r *Resolver) lookup(ctx context.Context, symbol string) (Descriptor, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tz, err := r.meta.Timezone(ctx, symbol)
	if err != nil || tz == "" {
		if err != nil {
			r.log.Debug("metadata lookup failed", "symbol", symbol, "error", err)
		}
		return Descriptor{}, false
	}
	if _, err := time.LoadLocation(tz); err != nil {
		r.log.Debug("metadata returned unknown zone", "symbol", symbol, "zone", tz)
		return Descriptor{}, false
	}

	d := Default
	d.Name = "OTHER"
	d.Timezone = tz
	return d, true
}
