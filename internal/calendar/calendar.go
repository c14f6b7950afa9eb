// Package calendar advances dates across a venue's weekly trading calendar.
// It models only the weekly open-day set; exchange holidays are deliberately
// not consulted, so a returned date may be a holiday.
package calendar

import (
	"time"

	"nextbar/internal/venue"
)

// NextOpenDate returns the first date after from on which the venue is open.
// from should be a venue-local date (time-of-day is ignored). Terminates
// within 7 iterations since the open-day set is non-empty.
func NextOpenDate(from time.Time, d venue.Descriptor) time.Time {
	next := DateOf(from)
	for {
		next = next.AddDate(0, 0, 1)
		if d.OpenWeekdays.Has(next.Weekday()) {
			return next
		}
	}
}

// IsOpenDay reports whether the venue trades on the given date's weekday.
func IsOpenDay(date time.Time, d venue.Descriptor) bool {
	return d.OpenWeekdays.Has(date.Weekday())
}

// SessionClose returns the instant the venue's session closes on the given
// date, in the date's location.
func SessionClose(date time.Time, d venue.Descriptor) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		d.SessionEnd/60, d.SessionEnd%60, 0, 0, date.Location())
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
