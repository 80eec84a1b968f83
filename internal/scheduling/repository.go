package scheduling

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// InsertIfAbsent relies on the unique constraint on (user_id, date): the
// losing writer of a race gets no row back from ON CONFLICT DO NOTHING and
// is told the slot is taken. Check and insert are one statement, so there is
// no window for a second writer to slip through.
func (r *repository) InsertIfAbsent(ctx context.Context, booking *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (id, user_id, guest_name, guest_email, observations, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT bookings_user_id_date_key DO NOTHING
		RETURNING id, user_id, guest_name, guest_email, observations, date, created_at
	`

	var created Booking
	err := r.db.GetContext(ctx, &created, query,
		booking.ID, booking.UserID, booking.GuestName, booking.GuestEmail, booking.Observations, booking.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotConflict
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID int, date time.Time) (*Booking, error) {
	query := `
		SELECT id, user_id, guest_name, guest_email, observations, date, created_at
		FROM bookings
		WHERE user_id = $1 AND date = $2
	`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, userID, date)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) ListForDate(ctx context.Context, userID int, date time.Time) ([]Booking, error) {
	dayStart := startOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT id, user_id, guest_name, guest_email, observations, date, created_at
		FROM bookings
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
