package calendar

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ViniDB27/ignite-call/internal/logger"
	"github.com/ViniDB27/ignite-call/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "calendar:events"
	failedQueueKey = "calendar:events:failed"
	maxTries       = 3
)

// Event describes one calendar entry for a committed booking.
type Event struct {
	BookingID     string    `json:"booking_id"`
	Summary       string    `json:"summary"`
	Description   string    `json:"description"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Timezone      string    `json:"timezone"`
	AttendeeEmail string    `json:"attendee_email"`
	AttendeeName  string    `json:"attendee_name"`
}

// Inserter delivers one event to the external calendar.
type Inserter interface {
	Insert(ctx context.Context, event Event) error
}

type syncJob struct {
	Event   Event     `json:"event"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service is a redis-backed queue between the booking path and the external
// calendar. ScheduleEvent only enqueues; delivery happens on the worker
// started with Start, so a slow or failing calendar never blocks a booking.
type Service struct {
	redis      *redis.Client
	inserter   Inserter
	retryDelay time.Duration
	clock      func() time.Time
}

func New(redisAddr string, inserter Inserter) *Service {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr: redisAddr,
	}), inserter)
}

func NewWithClient(client *redis.Client, inserter Inserter) *Service {
	return &Service{
		redis:      client,
		inserter:   inserter,
		retryDelay: 5 * time.Second,
		clock:      time.Now,
	}
}

func (s *Service) ScheduleEvent(ctx context.Context, event Event) error {
	job := syncJob{
		Event:   event,
		Tries:   0,
		Created: s.clock(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal calendar job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue calendar event for booking %s: %v", event.BookingID, err)
		return err
	}

	metrics.CalendarQueueLength.Set(float64(s.QueueLength(ctx)))
	logger.Infof("Calendar event queued for booking %s", event.BookingID)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Calendar sync worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Calendar sync worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job syncJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad calendar job data: %v", err)
		return
	}

	s.deliver(ctx, job)
	metrics.CalendarQueueLength.Set(float64(s.QueueLength(ctx)))
}

func (s *Service) deliver(ctx context.Context, job syncJob) {
	job.Tries++
	logger.Infof("Syncing calendar event for booking %s (attempt %d)", job.Event.BookingID, job.Tries)

	if err := s.inserter.Insert(ctx, job.Event); err != nil {
		logger.Errorf("Failed to sync calendar event for booking %s: %v", job.Event.BookingID, err)

		if job.Tries < maxTries {
			metrics.RecordCalendarSync("retried")
			time.Sleep(s.retryDelay)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			return
		}

		metrics.RecordCalendarSync("failed")
		s.saveFailed(job, err)
		return
	}

	metrics.RecordCalendarSync("success")
	logger.Infof("Calendar event synced for booking %s", job.Event.BookingID)
}

func (s *Service) saveFailed(job syncJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  s.clock(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Calendar event moved to failed queue: booking %s", job.Event.BookingID)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
