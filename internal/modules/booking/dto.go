package booking

import (
	"strings"

	"scheduleandpay/internal/domain"
)

type ReserveRequest struct {
	Name  string `form:"name" json:"name" validate:"required,max=100"`
	Email string `form:"email" json:"email" validate:"required,email,max=254"`
	Phone string `form:"phone" json:"phone" validate:"required,max=32"`
	Date  string `form:"date" json:"date" validate:"required"`
	Time  string `form:"time" json:"time" validate:"required,max=32"` // domain.MaxTimeLabelLength
}

func (r *ReserveRequest) trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
}

// Confirmation is what the customer sees after a successful reservation.
type Confirmation struct {
	Reservation domain.Reservation `json:"reservation"`
	Slot        string             `json:"slot"`
	PaymentURL  string             `json:"payment_url"`
	PaymentQR   string             `json:"payment_qr,omitempty"`
}
