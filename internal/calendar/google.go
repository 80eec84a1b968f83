package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/ViniDB27/ignite-call/internal/logger"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleInserter delivers events to a Google Calendar.
type GoogleInserter struct {
	events     *gcal.EventsService
	calendarID string
}

func NewGoogleInserter(ctx context.Context, credentialsFile, calendarID string) (*GoogleInserter, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	return &GoogleInserter{
		events:     svc.Events,
		calendarID: calendarID,
	}, nil
}

func (g *GoogleInserter) Insert(ctx context.Context, event Event) error {
	_, err := g.events.Insert(g.calendarID, &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &gcal.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: event.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: event.Timezone,
		},
		Attendees: []*gcal.EventAttendee{
			{Email: event.AttendeeEmail, DisplayName: event.AttendeeName},
		},
	}).Context(ctx).Do()

	return err
}

// NopInserter drops events with a log line. Used when Google credentials are
// not configured, e.g. in local development.
type NopInserter struct{}

func (NopInserter) Insert(_ context.Context, event Event) error {
	logger.Infof("Calendar sync disabled, dropping event for booking %s", event.BookingID)
	return nil
}
