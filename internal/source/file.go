package source

import (
	"context"
	"time"

	"nextbar/internal/domain"
	"nextbar/internal/store"
)

// FileSource serves daily bars from a local bar archive. Useful for offline
// replay of series previously written by `nextbar-cli archive`.
type FileSource struct {
	Store store.BarStore
	Now   func() time.Time // nil means time.Now
}

// NewFileSource creates a FileSource over the given archive.
func NewFileSource(s store.BarStore) *FileSource {
	return &FileSource{Store: s}
}

func (f *FileSource) Name() string { return "file" }

// DailyBars reads archived bars within the trailing lookback window.
func (f *FileSource) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]domain.Bar, error) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	end := now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)
	return f.Store.ReadBars(ctx, symbol, start, end)
}
