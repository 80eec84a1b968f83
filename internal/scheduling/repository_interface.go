package scheduling

import (
	"context"
	"time"
)

type Repository interface {
	// InsertIfAbsent atomically commits the booking unless one already
	// exists for the same (user, hour); in that case it returns
	// ErrSlotConflict and leaves the store untouched.
	InsertIfAbsent(ctx context.Context, booking *Booking) (*Booking, error)
	FindByUserAndDate(ctx context.Context, userID int, date time.Time) (*Booking, error)
	ListForDate(ctx context.Context, userID int, date time.Time) ([]Booking, error)
}
