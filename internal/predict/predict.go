// Package predict defines the prediction strategy contract and the default
// previous-close strategy.
package predict

import (
	"github.com/shopspring/decimal"

	"nextbar/internal/domain"
)

// Strategy turns a completed session's bar into a forecast value for the
// next trading date.
type Strategy interface {
	Predict(bar domain.Bar) decimal.Decimal
	Method() string
}

// PreviousClose forecasts the next close as the completed session's close,
// unchanged. A placeholder for a trained model with the same contract.
type PreviousClose struct{}

// Predict returns the bar's close.
func (PreviousClose) Predict(bar domain.Bar) decimal.Decimal {
	return decimal.NewFromFloat(bar.Close)
}

// Method identifies the strategy in responses and stored records.
func (PreviousClose) Method() string { return "previous_day_model" }
