// Package session selects the daily bar that represents the most recently
// completed trading session at a venue, as of a given instant.
package session

import (
	"sort"
	"time"

	"nextbar/internal/calendar"
	"nextbar/internal/domain"
	"nextbar/internal/venue"
)

// NormalizeUTC reinterprets bar timestamps as UTC instants. Sources that
// decode epoch seconds already produce UTC; for anything else this makes the
// assume-UTC boundary policy explicit instead of leaving it to whatever zone
// the decoder happened to attach.
func NormalizeUTC(bars []domain.Bar) []domain.Bar {
	out := make([]domain.Bar, len(bars))
	copy(out, bars)
	for i := range out {
		out[i].Timestamp = out[i].Timestamp.UTC()
	}
	return out
}

// localBar pairs a bar with its venue-local calendar date.
type localBar struct {
	bar  domain.Bar
	date time.Time // venue-local midnight
}

// Select returns the bar for the latest fully completed session and its
// venue-local date.
//
// Bars are normalized to UTC, converted into the venue timezone, truncated
// to local dates, deduplicated per date (last bar wins), and sorted. The
// last bar dated strictly before venue-local today wins. A bar dated today
// is selected only when venue-local now is at or past session close; before
// close the selector steps back one bar, or keeps the today bar as a
// best-effort result when it is the only one. Bars dated after today are
// discarded.
//
// Returns domain.ErrNoData when nothing survives cleaning.
func Select(bars []domain.Bar, d venue.Descriptor, now time.Time) (domain.SessionSelection, error) {
	loc := d.Location()
	localNow := now.In(loc)
	today := calendar.DateOf(localNow)

	cleaned := localize(NormalizeUTC(bars), loc, today)
	if len(cleaned) == 0 {
		return domain.SessionSelection{}, domain.ErrNoData
	}

	last := cleaned[len(cleaned)-1]
	if !last.date.Equal(today) {
		return domain.SessionSelection{Bar: last.bar, LocalDate: last.date}, nil
	}

	// Last bar is dated today: usable only once the session has closed.
	if !localNow.Before(calendar.SessionClose(today, d)) {
		return domain.SessionSelection{Bar: last.bar, LocalDate: last.date}, nil
	}
	if len(cleaned) >= 2 {
		prev := cleaned[len(cleaned)-2]
		return domain.SessionSelection{Bar: prev.bar, LocalDate: prev.date}, nil
	}

	// Only an in-progress same-day bar exists (thin or newly listed
	// ticker). Better than nothing, but not confirmed complete.
	return domain.SessionSelection{Bar: last.bar, LocalDate: last.date, BestEffort: true}, nil
}

// localize converts bars into venue-local dates, drops unusable and
// future-dated bars, deduplicates per date keeping the last seen bar, and
// returns the result sorted by date.
func localize(bars []domain.Bar, loc *time.Location, today time.Time) []localBar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })

	byDate := make(map[time.Time]domain.Bar, len(bars))
	for _, b := range bars {
		if !b.Usable() {
			continue
		}
		date := calendar.DateOf(b.Timestamp.In(loc))
		if date.After(today) {
			continue
		}
		byDate[date] = b
	}

	out := make([]localBar, 0, len(byDate))
	for date, b := range byDate {
		out = append(out, localBar{bar: b, date: date})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out
}
