package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the ISO date format used for lookup keys and form values.
const DayLayout = "2006-01-02"

// TimeLabel is one bookable time of day, e.g. "09:00 AM". Labels are opaque:
// they are compared as strings and never parsed.
type TimeLabel string

func (t TimeLabel) String() string { return string(t) }

// Day is a calendar date without a time-of-day component.
type Day struct {
	year  int
	month time.Month
	day   int
}

func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

func (d Day) IsZero() bool { return d == Day{} }

func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Day) Key() string { return d.Time().Format(DayLayout) }

func (d Day) String() string { return d.Key() }

func (d Day) Year() int { return d.year }

func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Day) AddDays(n int) Day { return DayOf(d.Time().AddDate(0, 0, n)) }

func (d Day) Before(o Day) bool { return d.Time().Before(o.Time()) }

// StartOfWeek returns the Monday of the week containing d.
func (d Day) StartOfWeek() Day {
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-back)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.Key()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// BookingKey identifies one reservable slot.
type BookingKey struct {
	Day  Day
	Time TimeLabel
}

func (k BookingKey) String() string {
	return fmt.Sprintf("%s at %s", k.Day.Key(), k.Time)
}
