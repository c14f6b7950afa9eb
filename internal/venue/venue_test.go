package venue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResolveSuffixes(t *testing.T) {
	r := NewResolver(nil, 0)

	cases := []struct {
		ticker   string
		name     string
		timezone string
	}{
		{"RELIANCE.NS", "NSE", "Asia/Kolkata"},
		{"reliance.ns", "NSE", "Asia/Kolkata"}, // case-insensitive
		{"TCS.BO", "BSE", "Asia/Kolkata"},
		{"VOD.L", "LSE", "Europe/London"},
		{"SAP.DE", "XETRA", "Europe/Berlin"},
		{"MC.PA", "Euronext Paris", "Europe/Paris"},
		{"7203.T", "TSE", "Asia/Tokyo"},
		{"0700.HK", "HKEX", "Asia/Hong_Kong"},
		{"600519.SS", "SSE", "Asia/Shanghai"},
		{"000001.SZ", "SZSE", "Asia/Shanghai"},
		{"005930.KS", "KRX", "Asia/Seoul"},
		{"BHP.AX", "ASX", "Australia/Sydney"},
		{"RY.TO", "TSX", "America/Toronto"},
		{"PETR4.SA", "B3", "America/Sao_Paulo"},
		{"TEVA.TA", "TASE", "Asia/Jerusalem"},
		{"2222.SR", "Tadawul", "Asia/Riyadh"},
	}
	for _, tc := range cases {
		t.Run(tc.ticker, func(t *testing.T) {
			d := r.Resolve(context.Background(), tc.ticker)
			if d.Name != tc.name {
				t.Errorf("Resolve(%q).Name = %q, want %q", tc.ticker, d.Name, tc.name)
			}
			if d.Timezone != tc.timezone {
				t.Errorf("Resolve(%q).Timezone = %q, want %q", tc.ticker, d.Timezone, tc.timezone)
			}
		})
	}
}

func TestResolveLongerSuffixWinsOverT(t *testing.T) {
	r := NewResolver(nil, 0)

	// .TO, .TA, and .TW are declared before .T; a Toronto ticker must not
	// resolve to Tokyo.
	if d := r.Resolve(context.Background(), "SHOP.TO"); d.Name != "TSX" {
		t.Errorf("SHOP.TO resolved to %q, want TSX", d.Name)
	}
	if d := r.Resolve(context.Background(), "2330.TW"); d.Name != "TWSE" {
		t.Errorf("2330.TW resolved to %q, want TWSE", d.Name)
	}
}

func TestResolveDefaults(t *testing.T) {
	r := NewResolver(nil, 0)

	for _, ticker := range []string{"AAPL", "msft", " TSLA ", "^GSPC", "^DJI"} {
		d := r.Resolve(context.Background(), ticker)
		if d.Name != "US" {
			t.Errorf("Resolve(%q) = %q, want default US venue", ticker, d.Name)
		}
		if d.Timezone != "America/New_York" {
			t.Errorf("Resolve(%q).Timezone = %q", ticker, d.Timezone)
		}
		if d.SessionStart != 9*60+30 || d.SessionEnd != 16*60 {
			t.Errorf("Resolve(%q) hours = %d-%d, want 570-960", ticker, d.SessionStart, d.SessionEnd)
		}
	}
}

type stubMeta struct {
	tz  string
	err error
}

func (s stubMeta) Timezone(context.Context, string) (string, error) {
	return s.tz, s.err
}

func TestResolveMetadataHint(t *testing.T) {
	r := NewResolver(stubMeta{tz: "Europe/Dublin"}, time.Second)

	d := r.Resolve(context.Background(), "UNKNOWN")
	if d.Timezone != "Europe/Dublin" {
		t.Errorf("Timezone = %q, want Europe/Dublin", d.Timezone)
	}
	if !d.OpenWeekdays.Has(time.Monday) || d.OpenWeekdays.Has(time.Saturday) {
		t.Error("metadata-resolved venue should keep the default Mon-Fri week")
	}
}

func TestResolveIndexUsesMetadataHint(t *testing.T) {
	r := NewResolver(stubMeta{tz: "Asia/Tokyo"}, time.Second)

	// An index marker means "no suffix", not "skip the lookup".
	d := r.Resolve(context.Background(), "^N225")
	if d.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q, want Asia/Tokyo", d.Timezone)
	}

	r = NewResolver(stubMeta{err: errors.New("boom")}, time.Second)
	if d := r.Resolve(context.Background(), "^GSPC"); d.Name != "US" {
		t.Errorf("got %q, want default venue when metadata fails", d.Name)
	}
}

func TestResolveMetadataFailure(t *testing.T) {
	cases := map[string]MetadataLookup{
		"error":        stubMeta{err: errors.New("boom")},
		"empty":        stubMeta{},
		"unknown zone": stubMeta{tz: "Nowhere/Nope"},
	}
	for name, meta := range cases {
		t.Run(name, func(t *testing.T) {
			r := NewResolver(meta, time.Second)
			if d := r.Resolve(context.Background(), "UNKNOWN"); d.Name != "US" {
				t.Errorf("got %q, want default venue on metadata %s", d.Name, name)
			}
		})
	}
}

func TestTableInvariants(t *testing.T) {
	for _, e := range Table() {
		if e.Desc.SessionStart >= e.Desc.SessionEnd {
			t.Errorf("%s: session start %d not before end %d", e.Suffix, e.Desc.SessionStart, e.Desc.SessionEnd)
		}
		if e.Desc.OpenWeekdays.Empty() {
			t.Errorf("%s: empty weekday set", e.Suffix)
		}
		if _, err := time.LoadLocation(e.Desc.Timezone); err != nil {
			t.Errorf("%s: timezone %q does not load: %v", e.Suffix, e.Desc.Timezone, err)
		}
	}
}

func TestWeekdays(t *testing.T) {
	if !MonFri.Has(time.Wednesday) || MonFri.Has(time.Sunday) {
		t.Error("MonFri membership wrong")
	}
	if !SunThu.Has(time.Sunday) || SunThu.Has(time.Friday) {
		t.Error("SunThu membership wrong")
	}
	if !WeekdaySet().Empty() {
		t.Error("empty set should report Empty")
	}
}
