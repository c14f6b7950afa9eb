package domain

import (
	"math"
	"testing"
	"time"
)

func TestBarUsable(t *testing.T) {
	base := Bar{
		Symbol:    "AAPL",
		Timestamp: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Open:      100, High: 102, Low: 99, Close: 101,
		Volume: 1_000_000,
	}

	if !base.Usable() {
		t.Fatal("complete bar should be usable")
	}

	cases := []struct {
		name   string
		mutate func(*Bar)
	}{
		{"nan open", func(b *Bar) { b.Open = math.NaN() }},
		{"nan high", func(b *Bar) { b.High = math.NaN() }},
		{"nan low", func(b *Bar) { b.Low = math.NaN() }},
		{"nan close", func(b *Bar) { b.Close = math.NaN() }},
		{"inf close", func(b *Bar) { b.Close = math.Inf(1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := base
			tc.mutate(&b)
			if b.Usable() {
				t.Errorf("bar with %s should not be usable", tc.name)
			}
		})
	}

	// Volume is optional: NaN volume does not make the bar unusable.
	b := base
	b.Volume = math.NaN()
	if !b.Usable() {
		t.Error("bar with NaN volume should still be usable")
	}
}
