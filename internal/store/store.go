// Package store persists served predictions and archived daily bars.
package store

import (
	"context"
	"time"

	"nextbar/internal/domain"
)

// PredictionRecord is one served prediction, as persisted.
type PredictionRecord struct {
	ID          string
	Ticker      string
	Venue       string
	SessionDate time.Time // venue-local date of the completed session
	Close       float64
	TargetDate  time.Time
	Predicted   string // decimal string, exact as served
	Method      string
	CreatedAt   time.Time
}

// PredictionStore persists and retrieves served predictions.
type PredictionStore interface {
	// Save inserts a prediction record.
	Save(ctx context.Context, rec *PredictionRecord) error

	// Recent returns up to limit records for the ticker, newest first.
	Recent(ctx context.Context, ticker string, limit int) ([]PredictionRecord, error)

	Close() error
}

// BarStore persists and retrieves daily bar data.
type BarStore interface {
	// WriteBars persists a batch of bars, merging with existing data.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns bars for the symbol within [start, end].
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all symbols with archived bars.
	ListSymbols(ctx context.Context) ([]string, error)
}
