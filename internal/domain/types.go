// Package domain defines the core types shared across the nextbar pipeline:
// daily OHLCV bars, session selections, and prediction outputs.
package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Bar is a single daily OHLCV row for a symbol. Timestamps from sources that
// carry no zone information are reinterpreted as UTC at the source boundary
// (see session.NormalizeUTC).
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Usable reports whether the bar carries a complete, finite OHLC set. Bars
// failing this check are dropped before session selection.
func (b Bar) Usable() bool {
	for _, v := range [4]float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SessionSelection pairs the bar chosen as the most recently completed
// session with its venue-local calendar date.
type SessionSelection struct {
	Bar Bar

	// LocalDate is midnight of the bar's calendar date in the venue timezone.
	LocalDate time.Time

	// BestEffort is set when the only available bar is dated venue-local
	// today before session close. The session may still be in progress;
	// callers must not treat the bar as confirmed complete.
	BestEffort bool
}

// Prediction is the terminal output of the pipeline: a forecast value for
// the next trading date after a completed session.
type Prediction struct {
	TargetDate time.Time
	Value      decimal.Decimal
	Method     string
}
