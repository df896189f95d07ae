package domain

import (
	"fmt"
	"time"

	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
)

// Period is the aggregation window of a report.
type Period string

// Period constants.
const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Valid returns true if the period is a recognized value.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return true
	default:
		return false
	}
}

// ParsePeriod validates a raw granularity string.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.Valid() {
		return "", domainerrors.InvalidArgumentf("invalid period %q: must be week, month or year", s)
	}
	return p, nil
}

// DateRange is an inclusive range of calendar dates. Both ends are midnight UTC.
type DateRange struct {
	From time.Time
	To   time.Time
}


// String formats the range as "from..to".
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", FormatDate(r.From), FormatDate(r.To))
}

// Range returns the inclusive calendar range of granularity p containing ref.
// Weeks start on Monday (ISO 8601). Only the calendar date of ref is used.
func (p Period) Range(ref time.Time) (DateRange, error) {
	year, month, day := ref.Date()

	switch p {
	case PeriodWeek:
		today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		offset := (int(today.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
		monday := today.AddDate(0, 0, -offset)
		return DateRange{From: monday, To: monday.AddDate(0, 0, 6)}, nil
	case PeriodMonth:
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// Day 0 of the next month normalizes to the last day of this one.
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		return DateRange{From: first, To: last}, nil
	case PeriodYear:
		return DateRange{
			From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}, nil
	default:
		return DateRange{}, domainerrors.InvalidArgumentf("invalid period %q: must be week, month or year", p)
	}
}

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Date truncates t to its calendar date at midnight UTC, ignoring t's zone.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domainerrors.InvalidArgumentf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MealZone is the fixed UTC+9 offset used to turn a meal date into an instant.
var MealZone = time.FixedZone("UTC+9", 9*60*60)

// EatenAt combines a meal date with midnight in MealZone.
func EatenAt(recordedAt time.Time) time.Time {
	y, m, d := recordedAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, MealZone)
}
