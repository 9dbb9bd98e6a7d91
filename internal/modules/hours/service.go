package hours

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/repository"
)

// Service owns the ordered list of bookable time labels. It starts with the
// defaults, is replaced by the persisted list on Load and can only be changed
// by the administrator.
type Service struct {
	repo   Repository
	gate   AdminChecker
	events Publisher

	mu    sync.RWMutex
	hours []domain.TimeLabel
}

func NewService(repo Repository, gate AdminChecker, events Publisher) *Service {
	return &Service{
		repo:   repo,
		gate:   gate,
		events: events,
		hours:  domain.DefaultHoursCopy(),
	}
}

// Load reads the persisted hours. A store that never saved any keeps the defaults.
func (s *Service) Load(ctx context.Context) error {
	stored, err := s.repo.LoadHours(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	hours := domain.NormalizeHours(domain.LabelStrings(stored))
	if err := domain.ValidateHours(hours); err != nil {
		return fmt.Errorf("stored hours: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hours = hours
	return nil
}

// Get returns a copy of the current hours in display order.
func (s *Service) Get() []domain.TimeLabel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TimeLabel, len(s.hours))
	copy(out, s.hours)
	return out
}

// Set normalizes labels, persists them and makes them current. Non-admin
// callers get ErrForbidden and labels too long to reserve get ErrInvalidHours;
// in both cases, as on a failed save, the current hours stay untouched.
func (s *Service) Set(ctx context.Context, actor *domain.Identity, labels []string) ([]domain.TimeLabel, error) {
	if !s.gate.IsAdmin(actor) {
		return nil, ErrForbidden
	}

	next := domain.NormalizeHours(labels)
	if err := domain.ValidateHours(next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}

	s.mu.Lock()
	if err := s.repo.SaveHours(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.hours = next
	s.mu.Unlock()

	if s.events != nil {
		s.events.HoursUpdated(next)
	}

	out := make([]domain.TimeLabel, len(next))
	copy(out, next)
	return out, nil
}

// SetFromText accepts the comma separated admin form value.
func (s *Service) SetFromText(ctx context.Context, actor *domain.Identity, text string) ([]domain.TimeLabel, error) {
	return s.Set(ctx, actor, domain.SplitHours(text))
}

// Reset restores the default hours.
func (s *Service) Reset(ctx context.Context, actor *domain.Identity) ([]domain.TimeLabel, error) {
	return s.Set(ctx, actor, nil)
}
