package hours

import (
	"context"

	"scheduleandpay/internal/domain"
)

// Repository persists the hours list next to the bookings.
type Repository interface {
	LoadHours(ctx context.Context) ([]domain.TimeLabel, error)
	SaveHours(ctx context.Context, labels []domain.TimeLabel) error
}

type AdminChecker interface {
	IsAdmin(user *domain.Identity) bool
}

// Publisher is told about every successful change.
type Publisher interface {
	HoursUpdated(hours []domain.TimeLabel)
}
