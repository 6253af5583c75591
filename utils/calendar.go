package utils

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarEvent is a meeting to put on the host's Google Calendar.
type CalendarEvent struct {
	RequestID     string
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
	AttendeeName  string
	AttendeeEmail string
}

// CalendarService creates events on behalf of a host. It returns the event
// id and the token that was used, which may have been refreshed.
type CalendarService interface {
	CreateEvent(ctx context.Context, tok *oauth2.Token, ev CalendarEvent) (string, *oauth2.Token, error)
}

// Calendar is nil when Google credentials are not configured.
var Calendar CalendarService

type GoogleCalendar struct {
	OAuth OAuthProvider
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, tok *oauth2.Token, ev CalendarEvent) (string, *oauth2.Token, error) {
	fresh, err := g.OAuth.TokenSource(ctx, tok).Token()
	if err != nil {
		return "", nil, fmt.Errorf("calendar: refresh token: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(fresh)))
	if err != nil {
		return "", nil, fmt.Errorf("calendar: client: %w", err)
	}

	event := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
		Attendees: []*calendar.EventAttendee{
			{Email: ev.AttendeeEmail, DisplayName: ev.AttendeeName},
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             ev.RequestID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}

	created, err := svc.Events.Insert("primary", event).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		return "", fresh, fmt.Errorf("calendar: insert event: %w", err)
	}
	return created.Id, fresh, nil
}
