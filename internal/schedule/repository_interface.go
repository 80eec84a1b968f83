package schedule

import "context"

type Repository interface {
	GetWeeklyIntervals(ctx context.Context, userID int) ([]WeekDayInterval, error)
	ReplaceWeeklyIntervals(ctx context.Context, userID int, intervals []WeekDayInterval) error
}
