package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scheduleandpay/internal/domain"

	"gorm.io/gorm"
)

// hoursSettingID is the only row of the hours_settings table.
const hoursSettingID = 1

type HoursRepository struct {
	db *gorm.DB
}

func NewHoursRepository(db *gorm.DB) *HoursRepository {
	return &HoursRepository{db: db}
}

type hoursSettingModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Labels    []string  `gorm:"column:labels;type:text;serializer:json"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (hoursSettingModel) TableName() string { return "hours_settings" }

// LoadHours returns ErrNotFound when the hours were never saved.
func (r *HoursRepository) LoadHours(ctx context.Context) ([]domain.TimeLabel, error) {
	var m hoursSettingModel
	err := r.db.WithContext(ctx).First(&m, hoursSettingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load hours: %w", err)
	}

	out := make([]domain.TimeLabel, 0, len(m.Labels))
	for _, l := range m.Labels {
		out = append(out, domain.TimeLabel(l))
	}
	return out, nil
}

func (r *HoursRepository) SaveHours(ctx context.Context, labels []domain.TimeLabel) error {
	m := hoursSettingModel{
		ID:     hoursSettingID,
		Labels: domain.LabelStrings(labels),
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("save hours: %w", err)
	}
	return nil
}

// Models lists the gorm models to migrate.
func Models() []interface{} {
	return []interface{}{&reservationModel{}, &hoursSettingModel{}}
}
