package schedule

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetWeeklyIntervals(ctx context.Context, userID int) ([]WeekDayInterval, error) {
	query := `
		SELECT week_day, start_time_in_minutes, end_time_in_minutes
		FROM weekly_intervals
		WHERE user_id = $1
		ORDER BY week_day
	`

	var intervals []WeekDayInterval
	err := r.db.SelectContext(ctx, &intervals, query, userID)
	if err != nil {
		return nil, err
	}

	return intervals, nil
}

// ReplaceWeeklyIntervals swaps the whole weekly set in one transaction so
// readers never observe a mix of old and new week days.
func (r *repository) ReplaceWeeklyIntervals(ctx context.Context, userID int, intervals []WeekDayInterval) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_intervals WHERE user_id = $1`, userID); err != nil {
		return err
	}

	insert := `
		INSERT INTO weekly_intervals (user_id, week_day, start_time_in_minutes, end_time_in_minutes)
		VALUES ($1, $2, $3, $4)
	`
	for _, interval := range intervals {
		if _, err := tx.ExecContext(ctx, insert, userID, interval.WeekDay, interval.StartTimeInMinutes, interval.EndTimeInMinutes); err != nil {
			return err
		}
	}

	return tx.Commit()
}
