package schedule

import (
	"errors"

	"scheduleandpay/internal/domain"
)

// DaysPerWeek is the number of days rendered per calendar page.
const DaysPerWeek = 7

// maxWeekOffset is more weeks than years 1 through 9999 hold, small enough
// that offset*DaysPerWeek cannot overflow.
const maxWeekOffset = 10000 * 53

var ErrOffsetOutOfRange = errors.New("week offset out of range")

type DaySlots struct {
	Date    domain.Day         `json:"date"`
	DayName string             `json:"day_name"`
	Slots   []domain.TimeLabel `json:"slots"`
}

type Week struct {
	Offset int        `json:"week_offset"`
	Start  domain.Day `json:"start"`
	End    domain.Day `json:"end"`
	Days   []DaySlots `json:"days"`
}

// WeekDays returns the Monday-first week containing today shifted by offset weeks.
func WeekDays(today domain.Day, offset int) []domain.Day {
	start := today.AddDays(offset * DaysPerWeek).StartOfWeek()
	days := make([]domain.Day, DaysPerWeek)
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// CheckOffset reports ErrOffsetOutOfRange when the week offset weeks away
// from today falls outside years 1 through 9999.
func CheckOffset(today domain.Day, offset int) error {
	if offset > maxWeekOffset || offset < -maxWeekOffset {
		return ErrOffsetOutOfRange
	}
	start := today.AddDays(offset * DaysPerWeek).StartOfWeek()
	end := start.AddDays(DaysPerWeek - 1)
	if start.Year() < 1 || end.Year() > 9999 {
		return ErrOffsetOutOfRange
	}
	return nil
}

// Available returns hours minus booked, in the order of hours.
func Available(hours, booked []domain.TimeLabel) []domain.TimeLabel {
	taken := make(map[domain.TimeLabel]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}
	out := make([]domain.TimeLabel, 0, len(hours))
	for _, h := range hours {
		if _, ok := taken[h]; ok {
			continue
		}
		out = append(out, h)
	}
	return out
}

// BuildWeek computes the free slots of every day of the requested week.
// booked is keyed by Day.Key(). Neither input is modified.
func BuildWeek(today domain.Day, offset int, hours []domain.TimeLabel, booked map[string][]domain.TimeLabel) Week {
	days := WeekDays(today, offset)
	week := Week{
		Offset: offset,
		Start:  days[0],
		End:    days[len(days)-1],
		Days:   make([]DaySlots, 0, len(days)),
	}
	for _, d := range days {
		week.Days = append(week.Days, DaySlots{
			Date:    d,
			DayName: d.Weekday().String(),
			Slots:   Available(hours, booked[d.Key()]),
		})
	}
	return week
}
