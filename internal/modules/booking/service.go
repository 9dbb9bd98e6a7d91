package booking

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"time"

	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/pkg/validator"
	"scheduleandpay/internal/repository"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type Service struct {
	reservations ReservationRepository
	hours        HoursReader
	notifier     Notifier
	events       Publisher
	paymentLink  string
	now          func() time.Time
}

func NewService(
	reservations ReservationRepository,
	hours HoursReader,
	notifier Notifier,
	events Publisher,
	paymentLink string,
) *Service {
	return &Service{
		reservations: reservations,
		hours:        hours,
		notifier:     notifier,
		events:       events,
		paymentLink:  paymentLink,
		now:          time.Now,
	}
}

// Reserve books one slot. The reservation is stored before anything else
// happens; notification and live updates follow only on success.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (*Confirmation, error) {
	req.trim()
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}

	day, err := domain.ParseDay(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	label := domain.TimeLabel(req.Time)
	if !domain.ContainsLabel(s.hours.Get(), label) {
		return nil, ErrUnknownTimeLabel
	}

	res := &domain.Reservation{
		Reference: uuid.NewString(),
		Day:       day,
		Time:      label,
		Contact: domain.Contact{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
		CreatedAt: s.now().UTC(),
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrNotAvailable
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ReservationConfirmed(ctx, *res, s.paymentLink)
	}
	if s.events != nil {
		s.events.SlotBooked(res.Key())
	}

	return s.confirmation(*res), nil
}

func (s *Service) GetByReference(ctx context.Context, ref string) (*Confirmation, error) {
	if _, err := uuid.Parse(ref); err != nil {
		return nil, ErrNotFound
	}
	res, err := s.reservations.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.confirmation(*res), nil
}

// ListDay returns the day's reservations in hours order. Labels no longer
// configured go last.
func (s *Service) ListDay(ctx context.Context, day domain.Day) ([]domain.Reservation, error) {
	list, err := s.reservations.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return []domain.Reservation{}, nil
	}

	rank := make(map[domain.TimeLabel]int)
	for i, h := range s.hours.Get() {
		rank[h] = i
	}
	pos := func(l domain.TimeLabel) int {
		if i, ok := rank[l]; ok {
			return i
		}
		return len(rank)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return pos(list[i].Time) < pos(list[j].Time)
	})
	return list, nil
}

func (s *Service) confirmation(res domain.Reservation) *Confirmation {
	return &Confirmation{
		Reservation: res,
		Slot:        res.Slot(),
		PaymentURL:  s.paymentLink,
		PaymentQR:   paymentQR(s.paymentLink),
	}
}

// paymentQR encodes url as a PNG data URI, or "" when there is nothing to encode.
func paymentQR(url string) string {
	if url == "" {
		return ""
	}
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
