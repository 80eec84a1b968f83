package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ViniDB27/ignite-call/internal/metrics"
)

const minutesPerDay = 24 * 60

// ErrValidation is the base error for malformed interval sets. The specific
// errors below wrap it so callers can match the whole family with errors.Is.
var (
	ErrValidation       = errors.New("invalid weekly intervals")
	ErrNoIntervals      = fmt.Errorf("%w: at least one week day must be enabled", ErrValidation)
	ErrIntervalTooShort = fmt.Errorf("%w: interval must span at least one hour", ErrValidation)
	ErrInvalidWeekDay   = fmt.Errorf("%w: week day must be between 0 and 6", ErrValidation)
	ErrOutOfRange       = fmt.Errorf("%w: interval times must be within the day", ErrValidation)
	ErrDuplicateWeekDay = fmt.Errorf("%w: only one interval per week day is allowed", ErrValidation)
)

type Service interface {
	GetWeeklyIntervals(ctx context.Context, userID int) ([]WeekDayInterval, error)
	ReplaceWeeklyIntervals(ctx context.Context, userID int, intervals []WeekDayInterval) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetWeeklyIntervals(ctx context.Context, userID int) ([]WeekDayInterval, error) {
	return s.repo.GetWeeklyIntervals(ctx, userID)
}

func (s *service) ReplaceWeeklyIntervals(ctx context.Context, userID int, intervals []WeekDayInterval) error {
	if err := ValidateIntervals(intervals); err != nil {
		metrics.RecordIntervalReplacement("invalid")
		return err
	}

	sorted := make([]WeekDayInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].WeekDay < sorted[j].WeekDay
	})

	if err := s.repo.ReplaceWeeklyIntervals(ctx, userID, sorted); err != nil {
		metrics.RecordIntervalReplacement("error")
		return err
	}

	metrics.RecordIntervalReplacement("success")
	return nil
}

func ValidateIntervals(intervals []WeekDayInterval) error {
	if len(intervals) == 0 {
		return ErrNoIntervals
	}

	seen := make(map[int]bool, len(intervals))
	for _, interval := range intervals {
		if interval.WeekDay < 0 || interval.WeekDay > 6 {
			return ErrInvalidWeekDay
		}
		if seen[interval.WeekDay] {
			return ErrDuplicateWeekDay
		}
		seen[interval.WeekDay] = true

		if interval.StartTimeInMinutes < 0 || interval.EndTimeInMinutes > minutesPerDay {
			return ErrOutOfRange
		}
		if interval.EndTimeInMinutes-interval.StartTimeInMinutes < 60 {
			return ErrIntervalTooShort
		}
	}

	return nil
}
