package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ViniDB27/ignite-call/internal/calendar"
	"github.com/ViniDB27/ignite-call/internal/schedule"
	"github.com/ViniDB27/ignite-call/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) InsertIfAbsent(ctx context.Context, booking *Booking) (*Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) FindByUserAndDate(ctx context.Context, userID int, date time.Time) (*Booking, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) ListForDate(ctx context.Context, userID int, date time.Time) ([]Booking, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

type MockScheduleRepo struct{ mock.Mock }

func (m *MockScheduleRepo) GetWeeklyIntervals(ctx context.Context, userID int) ([]schedule.WeekDayInterval, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.WeekDayInterval), args.Error(1)
}

func (m *MockScheduleRepo) ReplaceWeeklyIntervals(ctx context.Context, userID int, intervals []schedule.WeekDayInterval) error {
	return m.Called(ctx, userID, intervals).Error(0)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, username, name, email, passwordHash string) (*user.User, error) {
	args := m.Called(ctx, username, name, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) UpdateBio(ctx context.Context, id int, bio string) error {
	return m.Called(ctx, id, bio).Error(0)
}

type MockCalendarSync struct{ mock.Mock }

func (m *MockCalendarSync) ScheduleEvent(ctx context.Context, event calendar.Event) error {
	return m.Called(ctx, event).Error(0)
}

type serviceFixture struct {
	repo         *MockBookingRepo
	scheduleRepo *MockScheduleRepo
	userRepo     *MockUserRepo
	calendarSync *MockCalendarSync
	svc          *service
}

func newServiceFixture(t *testing.T, clock func() time.Time) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		repo:         new(MockBookingRepo),
		scheduleRepo: new(MockScheduleRepo),
		userRepo:     new(MockUserRepo),
		calendarSync: new(MockCalendarSync),
	}

	svc := NewService(f.repo, f.scheduleRepo, f.userRepo, f.calendarSync, time.UTC).(*service)
	svc.clock = clock
	f.svc = svc

	return f
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func johndoe() *user.User {
	return &user.User{ID: 1, Username: "johndoe", Name: "John Doe", Email: "john@example.com"}
}

func TestCreateBooking_Success(t *testing.T) {
	f := newServiceFixture(t, fixedClock(now))
	ctx := context.Background()

	slotStart := hourOn(monday, 10)
	requested := slotStart.Add(25 * time.Minute) // truncated back to 10:00

	f.userRepo.On("FindByUsername", ctx, "johndoe").Return(johndoe(), nil)
	f.repo.On("InsertIfAbsent", ctx, mock.MatchedBy(func(b *Booking) bool {
		return b.UserID == 1 && b.Date.Equal(slotStart) && b.ID != ""
	})).Return(&Booking{
		ID:         "booking-1",
		UserID:     1,
		GuestName:  "Jane Guest",
		GuestEmail: "jane@example.com",
		Date:       slotStart,
	}, nil)
	f.calendarSync.On("ScheduleEvent", ctx, mock.MatchedBy(func(ev calendar.Event) bool {
		return ev.BookingID == "booking-1" &&
			ev.Summary == "Ignite Call: Jane Guest" &&
			ev.Start.Equal(slotStart) &&
			ev.End.Equal(slotStart.Add(time.Hour))
	})).Return(nil)

	booking, err := f.svc.CreateBooking(ctx, "johndoe", CreateBookingRequest{
		Name:  "Jane Guest",
		Email: "jane@example.com",
		Date:  requested,
	})

	require.NoError(t, err)
	assert.Equal(t, "booking-1", booking.ID)
	f.repo.AssertExpectations(t)
	f.calendarSync.AssertExpectations(t)
}

func TestCreateBooking_PastDate(t *testing.T) {
	f := newServiceFixture(t, fixedClock(now))

	_, err := f.svc.CreateBooking(context.Background(), "johndoe", CreateBookingRequest{
		Name:  "Jane Guest",
		Email: "jane@example.com",
		Date:  now.AddDate(0, 0, -1),
	})

	assert.ErrorIs(t, err, ErrPastDate)
	f.userRepo.AssertNotCalled(t, "FindByUsername")
	f.repo.AssertNotCalled(t, "InsertIfAbsent")
	f.calendarSync.AssertNotCalled(t, "ScheduleEvent")
}

func TestCreateBooking_CurrentHourIsPast(t *testing.T) {
	// 10:30 requesting 10:45 truncates to 10:00, which is not strictly
	// after now and must be rejected.
	clock := fixedClock(time.Date(2030, 1, 7, 10, 30, 0, 0, time.UTC))
	f := newServiceFixture(t, clock)

	_, err := f.svc.CreateBooking(context.Background(), "johndoe", CreateBookingRequest{
		Name:  "Jane Guest",
		Email: "jane@example.com",
		Date:  time.Date(2030, 1, 7, 10, 45, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrPastDate)
}

func TestCreateBooking_UnknownUser(t *testing.T) {
	f := newServiceFixture(t, fixedClock(now))
	ctx := context.Background()

	f.userRepo.On("FindByUsername", ctx, "ghost").Return(nil, assert.AnError)

	_, err := f.svc.CreateBooking(ctx, "ghost", CreateBookingRequest{
		Name:  "Jane Guest",
		Email: "jane@example.com",
		Date:  hourOn(monday, 10),
	})

	assert.ErrorIs(t, err, ErrUserNotFound)
	f.repo.AssertNotCalled(t, "InsertIfAbsent")
	f.calendarSync.AssertNotCalled(t, "ScheduleEvent")
}

func TestCreateBooking_Conflict(t *testing.T) {
	f := newServiceFixture(t, fixedClock(now))
	ctx := context.Background()

	f.userRepo.On("FindByUsername", ctx, "johndoe").Return(johndoe(), nil)
	f.repo.On("InsertIfAbsent", ctx, mock.Anything).Return(nil, ErrSlotConflict)

	_, err := f.svc.CreateBooking(ctx, "johndoe", CreateBookingRequest{
		Name:  "Jane Guest",
		Email: "jane@example.com",
		Date:  hourOn(monday, 10),
	})

	assert.ErrorIs(t, err, ErrSlotConflict)
	f.calendarSync.AssertNotCalled(t, "ScheduleEvent")
}

func TestCreateBooking_CalendarFailureDoesNotFailBooking(t *testing.T) {
	f := newServiceFixture(t, fixedClock(now))
	ctx := context.Background()

	slotStart := hourOn(monday, 10)

	f.userRepo.On("FindByUsername", ctx, "johndoe").Return(johndoe(), nil)
	f.repo.On("InsertIfAbsent", ctx, mock.Anything).Return(&Booking{
		ID:     "booking-1",
		UserID: 1,
		Date:   slotStart,
	}, nil)
	f.calendarSync.On("ScheduleEvent", ctx, mock.Anything).Return(assert.AnError)

	booking, err := f.svc.CreateBooking(ctx, "johndoe", CreateBookingRequest{
		Name:  "Jane Guest",
		Email: "jane@example.com",
		Date:  slotStart,
	})

	require.NoError(t, err)
	assert.Equal(t, "booking-1", booking.ID)
}

func TestCreateBooking_ObservationsPassedThrough(t *testing.T) {
	f := newServiceFixture(t, fixedClock(now))
	ctx := context.Background()

	slotStart := hourOn(monday, 10)

	f.userRepo.On("FindByUsername", ctx, "johndoe").Return(johndoe(), nil)
	f.repo.On("InsertIfAbsent", ctx, mock.MatchedBy(func(b *Booking) bool {
		return b.Observations == "bring coffee"
	})).Return(&Booking{ID: "booking-1", UserID: 1, Date: slotStart, Observations: "bring coffee"}, nil)
	f.calendarSync.On("ScheduleEvent", ctx, mock.MatchedBy(func(ev calendar.Event) bool {
		return ev.Description == "bring coffee"
	})).Return(nil)

	_, err := f.svc.CreateBooking(ctx, "johndoe", CreateBookingRequest{
		Name:         "Jane Guest",
		Email:        "jane@example.com",
		Observations: "bring coffee",
		Date:         slotStart,
	})

	require.NoError(t, err)
	f.calendarSync.AssertExpectations(t)
}

func TestAvailability_Success(t *testing.T) {
	f := newServiceFixture(t, fixedClock(now))
	ctx := context.Background()

	f.userRepo.On("FindByUsername", ctx, "johndoe").Return(johndoe(), nil)
	f.scheduleRepo.On("GetWeeklyIntervals", ctx, 1).Return(businessHours, nil)
	f.repo.On("ListForDate", ctx, 1, mock.Anything).Return([]Booking{bookingAt(monday, 10)}, nil)

	slots, err := f.svc.Availability(ctx, "johndoe", monday)

	require.NoError(t, err)
	require.Len(t, slots, 10)
	for _, slot := range slots {
		assert.Equal(t, slot.Hour != 10, slot.IsAvailable)
	}
}

func TestAvailability_UnknownUser(t *testing.T) {
	f := newServiceFixture(t, fixedClock(now))
	ctx := context.Background()

	f.userRepo.On("FindByUsername", ctx, "ghost").Return(nil, assert.AnError)

	_, err := f.svc.Availability(ctx, "ghost", monday)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

// memoryBookingRepo serializes check+insert with a mutex, the fallback the
// store contract allows when no unique constraint is available.
type memoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*Booking
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{bookings: make(map[string]*Booking)}
}

func slotKey(userID int, date time.Time) string {
	return fmt.Sprintf("%d/%s", userID, date.UTC().Format(time.RFC3339))
}

func (r *memoryBookingRepo) InsertIfAbsent(_ context.Context, booking *Booking) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(booking.UserID, booking.Date)
	if _, exists := r.bookings[key]; exists {
		return nil, ErrSlotConflict
	}

	stored := *booking
	stored.CreatedAt = time.Now()
	r.bookings[key] = &stored
	return &stored, nil
}

func (r *memoryBookingRepo) FindByUserAndDate(_ context.Context, userID int, date time.Time) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking, exists := r.bookings[slotKey(userID, date)]; exists {
		return booking, nil
	}
	return nil, ErrSlotConflict
}

func (r *memoryBookingRepo) ListForDate(_ context.Context, userID int, date time.Time) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var bookings []Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID && sameDate(booking.Date, date) {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

func TestCreateBooking_ConcurrentRequestsOneWinner(t *testing.T) {
	userRepo := new(MockUserRepo)
	scheduleRepo := new(MockScheduleRepo)
	calendarSync := new(MockCalendarSync)
	repo := newMemoryBookingRepo()

	userRepo.On("FindByUsername", mock.Anything, "johndoe").Return(johndoe(), nil)
	calendarSync.On("ScheduleEvent", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, scheduleRepo, userRepo, calendarSync, time.UTC).(*service)
	svc.clock = fixedClock(now)

	req := CreateBookingRequest{
		Name:  "Jane Guest",
		Email: "jane@example.com",
		Date:  hourOn(monday, 10),
	}

	const attempts = 16
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), "johndoe", req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)
	calendarSync.AssertNumberOfCalls(t, "ScheduleEvent", 1)
}

// TestBookedSlotVisibleInAvailability covers the round trip: a committed
// booking immediately shows up as unavailable for its date.
func TestBookedSlotVisibleInAvailability(t *testing.T) {
	userRepo := new(MockUserRepo)
	scheduleRepo := new(MockScheduleRepo)
	calendarSync := new(MockCalendarSync)
	repo := newMemoryBookingRepo()

	userRepo.On("FindByUsername", mock.Anything, "johndoe").Return(johndoe(), nil)
	scheduleRepo.On("GetWeeklyIntervals", mock.Anything, 1).Return(businessHours, nil)
	calendarSync.On("ScheduleEvent", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, scheduleRepo, userRepo, calendarSync, time.UTC).(*service)
	svc.clock = fixedClock(now)

	ctx := context.Background()
	_, err := svc.CreateBooking(ctx, "johndoe", CreateBookingRequest{
		Name:  "Jane Guest",
		Email: "jane@example.com",
		Date:  hourOn(monday, 10),
	})
	require.NoError(t, err)

	slots, err := svc.Availability(ctx, "johndoe", monday)
	require.NoError(t, err)
	require.Len(t, slots, 10)
	for _, slot := range slots {
		assert.Equal(t, slot.Hour != 10, slot.IsAvailable)
	}
}
