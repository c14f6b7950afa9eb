package calendar

import (
	"testing"
	"time"

	"nextbar/internal/venue"
)

// 2025-03-07 is a Friday.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOpenDateMonFri(t *testing.T) {
	cases := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{"wednesday to thursday", date(2025, 3, 5), date(2025, 3, 6)},
		{"friday to monday", date(2025, 3, 7), date(2025, 3, 10)},
		{"saturday to monday", date(2025, 3, 8), date(2025, 3, 10)},
		{"sunday to monday", date(2025, 3, 9), date(2025, 3, 10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextOpenDate(tc.from, venue.Default)
			if !got.Equal(tc.want) {
				t.Errorf("NextOpenDate(%s) = %s, want %s",
					tc.from.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
		})
	}
}

func TestNextOpenDateSunThu(t *testing.T) {
	tase := venue.Descriptor{
		Name: "TASE", Timezone: "Asia/Jerusalem",
		SessionStart: 9*60 + 30, SessionEnd: 17*60 + 15,
		OpenWeekdays: venue.SunThu,
	}

	// Thursday 2025-03-06 advances to Sunday 2025-03-09.
	got := NextOpenDate(date(2025, 3, 6), tase)
	if !got.Equal(date(2025, 3, 9)) {
		t.Errorf("Thursday advanced to %s, want Sunday 2025-03-09", got.Format("2006-01-02"))
	}
}

func TestNextOpenDateIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2025, 3, 7, 18, 45, 12, 0, time.UTC) // Friday evening
	got := NextOpenDate(from, venue.Default)
	if !got.Equal(date(2025, 3, 10)) {
		t.Errorf("got %s, want Monday 2025-03-10", got.Format("2006-01-02"))
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Error("result should be a midnight date")
	}
}

func TestNextOpenDateTerminates(t *testing.T) {
	// One open day a week is the worst case: at most 7 steps.
	d := venue.Descriptor{
		Name: "weekly", Timezone: "UTC",
		SessionStart: 9 * 60, SessionEnd: 17 * 60,
		OpenWeekdays: venue.WeekdaySet(time.Wednesday),
	}
	got := NextOpenDate(date(2025, 3, 5), d) // from a Wednesday
	if got.Weekday() != time.Wednesday {
		t.Errorf("got %s, want a Wednesday", got.Weekday())
	}
	if got.Sub(date(2025, 3, 5)) != 7*24*time.Hour {
		t.Errorf("got %s, want exactly one week later", got.Format("2006-01-02"))
	}
}

func TestSessionClose(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	day := time.Date(2025, 3, 5, 0, 0, 0, 0, loc)

	close := SessionClose(day, venue.Default)
	if close.Hour() != 16 || close.Minute() != 0 {
		t.Errorf("SessionClose = %s, want 16:00 local", close.Format("15:04"))
	}
	if close.Location() != loc {
		t.Error("SessionClose should stay in the date's location")
	}
}

func TestIsOpenDay(t *testing.T) {
	if IsOpenDay(date(2025, 3, 8), venue.Default) { // Saturday
		t.Error("Saturday should be closed on a Mon-Fri venue")
	}
	if !IsOpenDay(date(2025, 3, 10), venue.Default) { // Monday
		t.Error("Monday should be open on a Mon-Fri venue")
	}
}
