package domain

import "time"

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Reservation is created once per BookingKey and never mutated.
type Reservation struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	Day       Day       `json:"date"`
	Time      TimeLabel `json:"time"`
	Contact   Contact   `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

func (r Reservation) Key() BookingKey {
	return BookingKey{Day: r.Day, Time: r.Time}
}

// Slot is the human readable "day at time" description.
func (r Reservation) Slot() string {
	return r.Key().String()
}
