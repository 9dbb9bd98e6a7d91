package booking

import (
	"context"

	"scheduleandpay/internal/domain"
)

// ReservationRepository must make Create an atomic test-and-set on the
// reservation's BookingKey, returning repository.ErrSlotTaken when it is
// already booked.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByReference(ctx context.Context, ref string) (*domain.Reservation, error)
	ListByDay(ctx context.Context, day domain.Day) ([]domain.Reservation, error)
}

type HoursReader interface {
	Get() []domain.TimeLabel
}

// Notifier delivers confirmations without blocking or failing the booking.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, r domain.Reservation, paymentURL string)
}

// Publisher announces newly taken slots to open schedule pages.
type Publisher interface {
	SlotBooked(key domain.BookingKey)
}
