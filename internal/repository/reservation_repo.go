package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"scheduleandpay/internal/domain"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
	// mu serializes the check-then-insert; the unique index backs it up
	// when several processes share one database.
	mu sync.Mutex
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Reference string    `gorm:"column:reference;size:36;uniqueIndex"`
	Day       string    `gorm:"column:day;size:10;not null;uniqueIndex:idx_reservation_slot"`
	TimeLabel string    `gorm:"column:time_label;size:32;not null;uniqueIndex:idx_reservation_slot"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) (*domain.Reservation, error) {
	day, err := domain.ParseDay(m.Day)
	if err != nil {
		return nil, err
	}
	return &domain.Reservation{
		ID:        m.ID,
		Reference: m.Reference,
		Day:       day,
		Time:      domain.TimeLabel(m.TimeLabel),
		Contact: domain.Contact{
			Name:  m.Name,
			Email: m.Email,
			Phone: m.Phone,
		},
		CreatedAt: m.CreatedAt,
	}, nil
}

func toReservationModel(r *domain.Reservation) reservationModel {
	return reservationModel{
		ID:        r.ID,
		Reference: r.Reference,
		Day:       r.Day.Key(),
		TimeLabel: string(r.Time),
		Name:      r.Contact.Name,
		Email:     r.Contact.Email,
		Phone:     r.Contact.Phone,
		CreatedAt: r.CreatedAt,
	}
}

// Create records r unless its slot is already booked, in which case
// ErrSlotTaken is returned and nothing is written.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := toReservationModel(res)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		err := tx.Model(&reservationModel{}).
			Where("day = ? AND time_label = ?", m.Day, m.TimeLabel).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		// Слот уже занят: первая бронь остаётся
		if cnt > 0 {
			return ErrSlotTaken
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		// Гонку между процессами ловит уникальный индекс (day, time_label)
		if errors.Is(err, ErrSlotTaken) || isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("create reservation: %w", err)
	}

	created, err := toDomainReservation(m)
	if err != nil {
		return err
	}
	*res = *created
	return nil
}

// BookedLabels returns the booked time labels of each given day keyed by
// Day.Key(). Days without bookings are absent from the map.
func (r *ReservationRepository) BookedLabels(ctx context.Context, days []domain.Day) (map[string][]domain.TimeLabel, error) {
	out := make(map[string][]domain.TimeLabel)
	if len(days) == 0 {
		return out, nil
	}
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, d.Key())
	}

	var rows []reservationModel
	err := r.db.WithContext(ctx).
		Select("day", "time_label").
		Where("day IN ?", keys).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("booked labels: %w", err)
	}
	for _, row := range rows {
		out[row.Day] = append(out[row.Day], domain.TimeLabel(row.TimeLabel))
	}
	return out, nil
}

func (r *ReservationRepository) ListByDay(ctx context.Context, day domain.Day) ([]domain.Reservation, error) {
	var rows []reservationModel
	err := r.db.WithContext(ctx).
		Where("day = ?", day.Key()).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, row := range rows {
		res, err := toDomainReservation(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, nil
}

func (r *ReservationRepository) GetByReference(ctx context.Context, ref string) (*domain.Reservation, error) {
	var m reservationModel
	err := r.db.WithContext(ctx).Where("reference = ?", ref).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainReservation(m)
}
