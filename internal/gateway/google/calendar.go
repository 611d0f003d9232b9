package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"meetsync/internal/gateway"
	"meetsync/pkg/logger"
	"meetsync/pkg/model"
)

const calendarID = "primary"

// Gateway talks to the Google Calendar API. It is stateless; each call
// builds a client from the credentials it is handed.
type Gateway struct {
	oauthConfig *oauth2.Config
	log         *logger.Logger
}

func New(clientID, clientSecret string, log *logger.Logger) *Gateway {
	return &Gateway{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{calendar.CalendarScope},
			Endpoint:     googleoauth.Endpoint,
		},
		log: log,
	}
}

func (g *Gateway) service(ctx context.Context, creds model.Credentials) (*calendar.Service, error) {
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrUnreachable, err)
	}
	return srv, nil
}

func (g *Gateway) ListBusyIntervals(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error) {
	srv, err := g.service(ctx, creds)
	if err != nil {
		return nil, err
	}

	events, err := srv.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(rng.Start.Format(time.RFC3339)).
		TimeMax(rng.End.Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyError(err)
	}

	var intervals []model.BusyInterval
	for _, item := range events.Items {
		if item.Status == "cancelled" {
			continue
		}
		start, ok := parseEventTime(item.Start)
		if !ok {
			continue
		}
		end, ok := parseEventTime(item.End)
		if !ok {
			continue
		}
		intervals = append(intervals, model.BusyInterval{
			Summary: item.Summary,
			Start:   start,
			End:     end,
		})
	}
	return intervals, nil
}

func (g *Gateway) CreateEvent(ctx context.Context, creds model.Credentials, req gateway.EventRequest) (*model.RemoteEventRef, error) {
	srv, err := g.service(ctx, creds)
	if err != nil {
		return nil, err
	}

	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.Range.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: req.Range.End.Format(time.RFC3339),
		},
		Attendees: []*calendar.EventAttendee{
			{Email: req.GuestEmail, ResponseStatus: "needsAction"},
			{Email: req.OwnerEmail, ResponseStatus: "accepted"},
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
				RequestId: uuid.NewString(),
			},
		},
	}

	created, err := srv.Events.Insert(calendarID, event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyCreateError(err)
	}

	ref := &model.RemoteEventRef{
		EventID:      created.Id,
		CalendarLink: created.HtmlLink,
	}
	if created.ConferenceData != nil && len(created.ConferenceData.EntryPoints) > 0 {
		ref.MeetingLink = created.ConferenceData.EntryPoints[0].Uri
	}

	g.log.Debug("Calendar event created", "event_id", created.Id)
	return ref, nil
}

func (g *Gateway) DeleteEvent(ctx context.Context, creds model.Credentials, eventID string) error {
	srv, err := g.service(ctx, creds)
	if err != nil {
		return err
	}

	if err := srv.Events.Delete(calendarID, eventID).SendUpdates("all").Context(ctx).Do(); err != nil {
		return classifyError(err)
	}
	return nil
}

func (g *Gateway) RefreshCredentials(ctx context.Context, stale model.Credentials) (model.Credentials, error) {
	if stale.RefreshToken == "" {
		return model.Credentials{}, gateway.ErrRefreshDenied
	}

	source := g.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: stale.RefreshToken})
	token, err := source.Token()
	if err != nil {
		return model.Credentials{}, fmt.Errorf("%w: %v", gateway.ErrRefreshDenied, err)
	}

	fresh := model.Credentials{
		OwnerID:      stale.OwnerID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = stale.RefreshToken
	}
	return fresh, nil
}

// parseEventTime handles both timed events (DateTime) and all-day events
// (Date only).
func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		return t, err == nil
	}
	if edt.Date != "" {
		t, err := time.Parse("2006-01-02", edt.Date)
		return t, err == nil
	}
	return time.Time{}, false
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return gateway.ErrUnreachable
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return gateway.ErrAuthExpired
	}
	return fmt.Errorf("%w: %v", gateway.ErrUnreachable, err)
}

func classifyCreateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return gateway.ErrUnreachable
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized {
			return gateway.ErrAuthExpired
		}
		if apiErr.Code >= 400 && apiErr.Code < 500 {
			return &gateway.RemoteRejectedError{Reason: apiErr.Message}
		}
	}
	return fmt.Errorf("%w: %v", gateway.ErrUnreachable, err)
}
