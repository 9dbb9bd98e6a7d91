package schedule

import (
	"context"
	"time"

	"scheduleandpay/internal/domain"
)

type HoursReader interface {
	Get() []domain.TimeLabel
}

type BookingReader interface {
	BookedLabels(ctx context.Context, days []domain.Day) (map[string][]domain.TimeLabel, error)
}

// Clock returns the current instant.
type Clock func() time.Time
