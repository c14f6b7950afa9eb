// Package venue maps ticker symbols to the exchange they trade on: timezone,
// daily session hours, and weekly open days. Resolution is total — a ticker
// that matches nothing falls back to the default US venue.
package venue

import (
	"sync"
	"time"
)

// Weekdays is a set of time.Weekday values encoded as a bitmask.
type Weekdays uint8

// WeekdaySet builds a Weekdays set from the given days.
func WeekdaySet(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w |= 1 << uint(d)
	}
	return w
}

// Has reports whether d is a member of the set.
func (w Weekdays) Has(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

// Empty reports whether the set has no members.
func (w Weekdays) Empty() bool { return w == 0 }

// Common trading weeks.
var (
	MonFri = WeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	SunThu = WeekdaySet(time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday)
)

// Descriptor describes one venue's calendar rules. Descriptors are immutable
// values: SessionStart < SessionEnd within a single calendar day, and
// OpenWeekdays is never empty.
type Descriptor struct {
	Name     string
	Timezone string // IANA zone identifier

	// SessionStart and SessionEnd are minutes after venue-local midnight.
	SessionStart int
	SessionEnd   int

	OpenWeekdays Weekdays
}

var locCache sync.Map // timezone string → *time.Location

// Location returns the venue's *time.Location. An unknown zone resolves to
// UTC rather than failing; the suffix table only carries loadable zones, so
// this path is reachable only for metadata-supplied descriptors.
func (d Descriptor) Location() *time.Location {
	if v, ok := locCache.Load(d.Timezone); ok {
		return v.(*time.Location)
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		loc = time.UTC
	}
	locCache.Store(d.Timezone, loc)
	return loc
}

// hm converts hours and minutes to minutes-of-day.
func hm(h, m int) int { return h*60 + m }

// Default is the total fallback: US equities on NYSE/Nasdaq hours.
var Default = Descriptor{
	Name:         "US",
	Timezone:     "America/New_York",
	SessionStart: hm(9, 30),
	SessionEnd:   hm(16, 0),
	OpenWeekdays: MonFri,
}

type suffixEntry struct {
	suffix string
	desc   Descriptor
}

// suffixTable maps Yahoo-style ticker suffixes to venues, checked in
// declaration order against the ticker's trailing characters. Longer
// suffixes sharing a prefix with shorter ones (.TO/.TA/.TW vs .T) are
// declared first so the first match is the intended one.
var suffixTable = []suffixEntry{
	{".NS", Descriptor{"NSE", "Asia/Kolkata", hm(9, 15), hm(15, 30), MonFri}},
	{".BO", Descriptor{"BSE", "Asia/Kolkata", hm(9, 15), hm(15, 30), MonFri}},
	{".L", Descriptor{"LSE", "Europe/London", hm(8, 0), hm(16, 30), MonFri}},
	{".DE", Descriptor{"XETRA", "Europe/Berlin", hm(9, 0), hm(17, 30), MonFri}},
	{".F", Descriptor{"FRA", "Europe/Berlin", hm(8, 0), hm(20, 0), MonFri}},
	{".PA", Descriptor{"Euronext Paris", "Europe/Paris", hm(9, 0), hm(17, 30), MonFri}},
	{".AS", Descriptor{"Euronext Amsterdam", "Europe/Amsterdam", hm(9, 0), hm(17, 30), MonFri}},
	{".BR", Descriptor{"Euronext Brussels", "Europe/Brussels", hm(9, 0), hm(17, 30), MonFri}},
	{".MI", Descriptor{"Borsa Italiana", "Europe/Rome", hm(9, 0), hm(17, 30), MonFri}},
	{".MC", Descriptor{"BME", "Europe/Madrid", hm(9, 0), hm(17, 30), MonFri}},
	{".SW", Descriptor{"SIX", "Europe/Zurich", hm(9, 0), hm(17, 30), MonFri}},
	{".ST", Descriptor{"Nasdaq Stockholm", "Europe/Stockholm", hm(9, 0), hm(17, 30), MonFri}},
	{".OL", Descriptor{"Oslo Bors", "Europe/Oslo", hm(9, 0), hm(16, 20), MonFri}},
	{".CO", Descriptor{"Nasdaq Copenhagen", "Europe/Copenhagen", hm(9, 0), hm(17, 0), MonFri}},
	{".HE", Descriptor{"Nasdaq Helsinki", "Europe/Helsinki", hm(10, 0), hm(18, 30), MonFri}},
	{".HK", Descriptor{"HKEX", "Asia/Hong_Kong", hm(9, 30), hm(16, 0), MonFri}},
	{".SS", Descriptor{"SSE", "Asia/Shanghai", hm(9, 30), hm(15, 0), MonFri}},
	{".SZ", Descriptor{"SZSE", "Asia/Shanghai", hm(9, 30), hm(15, 0), MonFri}},
	{".KS", Descriptor{"KRX", "Asia/Seoul", hm(9, 0), hm(15, 30), MonFri}},
	{".KQ", Descriptor{"KOSDAQ", "Asia/Seoul", hm(9, 0), hm(15, 30), MonFri}},
	{".TW", Descriptor{"TWSE", "Asia/Taipei", hm(9, 0), hm(13, 30), MonFri}},
	{".SI", Descriptor{"SGX", "Asia/Singapore", hm(9, 0), hm(17, 0), MonFri}},
	{".TA", Descriptor{"TASE", "Asia/Jerusalem", hm(9, 30), hm(17, 15), SunThu}},
	{".SR", Descriptor{"Tadawul", "Asia/Riyadh", hm(10, 0), hm(15, 0), SunThu}},
	{".TO", Descriptor{"TSX", "America/Toronto", hm(9, 30), hm(16, 0), MonFri}},
	{".V", Descriptor{"TSXV", "America/Toronto", hm(9, 30), hm(16, 0), MonFri}},
	{".T", Descriptor{"TSE", "Asia/Tokyo", hm(9, 0), hm(15, 0), MonFri}},
	{".AX", Descriptor{"ASX", "Australia/Sydney", hm(10, 0), hm(16, 0), MonFri}},
	{".NZ", Descriptor{"NZX", "Pacific/Auckland", hm(10, 0), hm(16, 45), MonFri}},
	{".SA", Descriptor{"B3", "America/Sao_Paulo", hm(10, 0), hm(17, 30), MonFri}},
	{".MX", Descriptor{"BMV", "America/Mexico_City", hm(8, 30), hm(15, 0), MonFri}},
	{".JO", Descriptor{"JSE", "Africa/Johannesburg", hm(9, 0), hm(17, 0), MonFri}},
}

// Table returns a copy of the suffix table entries as (suffix, Descriptor)
// pairs in declaration order.
func Table() []struct {
	Suffix string
	Desc   Descriptor
} {
	out := make([]struct {
		Suffix string
		Desc   Descriptor
	}, len(suffixTable))
	for i, e := range suffixTable {
		out[i].Suffix = e.suffix
		out[i].Desc = e.desc
	}
	return out
}
