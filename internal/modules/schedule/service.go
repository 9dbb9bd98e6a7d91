package schedule

import (
	"context"
	"time"

	"scheduleandpay/internal/domain"
)

type Service struct {
	hours    HoursReader
	bookings BookingReader
	loc      *time.Location
	now      Clock
}

func NewService(hours HoursReader, bookings BookingReader, loc *time.Location, now Clock) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		hours:    hours,
		bookings: bookings,
		loc:      loc,
		now:      now,
	}
}

// Today is the current calendar date in the business time zone.
func (s *Service) Today() domain.Day {
	return domain.DayOf(s.now().In(s.loc))
}

// Week returns availability for the week offset weeks away from the current one.
// Offsets that leave years 1 through 9999 return ErrOffsetOutOfRange.
func (s *Service) Week(ctx context.Context, offset int) (*Week, error) {
	today := s.Today()
	if err := CheckOffset(today, offset); err != nil {
		return nil, err
	}
	booked, err := s.bookings.BookedLabels(ctx, WeekDays(today, offset))
	if err != nil {
		return nil, err
	}
	w := BuildWeek(today, offset, s.hours.Get(), booked)
	return &w, nil
}
