package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/ViniDB27/ignite-call/internal/calendar"
	"github.com/ViniDB27/ignite-call/internal/logger"
	"github.com/ViniDB27/ignite-call/internal/metrics"
	"github.com/ViniDB27/ignite-call/internal/schedule"
	"github.com/ViniDB27/ignite-call/internal/user"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user does not exist")
	ErrPastDate     = errors.New("date is in the past")
	ErrSlotConflict = errors.New("date is already booked")
)

// CalendarSync receives events for committed bookings. Implementations must
// be asynchronous-friendly: ScheduleEvent only enqueues.
type CalendarSync interface {
	ScheduleEvent(ctx context.Context, event calendar.Event) error
}

type Service interface {
	Availability(ctx context.Context, username string, date time.Time) ([]Slot, error)
	CreateBooking(ctx context.Context, username string, req CreateBookingRequest) (*Booking, error)
	DayBookings(ctx context.Context, userID int, date time.Time) ([]Booking, error)
}

type service struct {
	repo         Repository
	scheduleRepo schedule.Repository
	userRepo     user.Repository
	calendarSync CalendarSync
	loc          *time.Location
	clock        func() time.Time
}

func NewService(
	repo Repository,
	scheduleRepo schedule.Repository,
	userRepo user.Repository,
	calendarSync CalendarSync,
	loc *time.Location,
) Service {
	return &service{
		repo:         repo,
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
		calendarSync: calendarSync,
		loc:          loc,
		clock:        time.Now,
	}
}

func (s *service) Availability(ctx context.Context, username string, date time.Time) ([]Slot, error) {
	usr, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrUserNotFound
	}

	intervals, err := s.scheduleRepo.GetWeeklyIntervals(ctx, usr.ID)
	if err != nil {
		return nil, err
	}

	targetDate := date.In(s.loc)
	bookings, err := s.repo.ListForDate(ctx, usr.ID, targetDate)
	if err != nil {
		return nil, err
	}

	metrics.RecordAvailabilityResolution()
	return ResolveSlots(intervals, bookings, targetDate, s.clock().In(s.loc)), nil
}

func (s *service) CreateBooking(ctx context.Context, username string, req CreateBookingRequest) (*Booking, error) {
	slotStart := TruncateToHour(req.Date.In(s.loc))

	if !slotStart.After(s.clock()) {
		metrics.RecordBooking("past_date")
		return nil, ErrPastDate
	}

	usr, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		metrics.RecordBooking("user_not_found")
		return nil, ErrUserNotFound
	}

	booking := &Booking{
		ID:           uuid.NewString(),
		UserID:       usr.ID,
		GuestName:    req.Name,
		GuestEmail:   req.Email,
		Observations: req.Observations,
		Date:         slotStart,
	}

	created, err := s.repo.InsertIfAbsent(ctx, booking)
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			metrics.RecordBooking("conflict")
			metrics.RecordSlotConflict()
			return nil, ErrSlotConflict
		}
		metrics.RecordBooking("error")
		return nil, err
	}
	metrics.RecordBooking("created")

	// The booking is durable at this point. Calendar sync is queued
	// best-effort and its failure never reaches the caller.
	event := calendar.Event{
		BookingID:     created.ID,
		Summary:       "Ignite Call: " + created.GuestName,
		Description:   created.Observations,
		Start:         created.Date,
		End:           created.Date.Add(time.Hour),
		Timezone:      s.loc.String(),
		AttendeeEmail: created.GuestEmail,
		AttendeeName:  created.GuestName,
	}
	if err := s.calendarSync.ScheduleEvent(ctx, event); err != nil {
		logger.Errorf("Failed to queue calendar event for booking %s: %v", created.ID, err)
	}

	return created, nil
}

func (s *service) DayBookings(ctx context.Context, userID int, date time.Time) ([]Booking, error) {
	return s.repo.ListForDate(ctx, userID, date.In(s.loc))
}
