package scheduling

import "time"

type Booking struct {
	ID           string    `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	GuestName    string    `db:"guest_name" json:"guest_name"`
	GuestEmail   string    `db:"guest_email" json:"guest_email"`
	Observations string    `db:"observations" json:"observations,omitempty"`
	Date         time.Time `db:"date" json:"date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Slot is one candidate booking hour on a calendar date. It is derived from
// the weekly schedule and the bookings of that date, never stored.
type Slot struct {
	Hour        int  `json:"hour"`
	IsAvailable bool `json:"isAvailable"`
}

type CreateBookingRequest struct {
	Name         string    `json:"name" binding:"required,min=3"`
	Email        string    `json:"email" binding:"required,email"`
	Observations string    `json:"observations"`
	Date         time.Time `json:"date" binding:"required"`
}

type AvailabilityResponse struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}
