package gateway

import (
	"context"
	"errors"
	"fmt"

	"meetsync/pkg/model"
)

var (
	// ErrAuthExpired means the access token was rejected; a refresh may help.
	ErrAuthExpired = errors.New("calendar credentials expired")

	// ErrUnreachable covers timeouts, transport failures and provider 5xx.
	// Callers must treat it as "busy state unknown" and fail closed.
	ErrUnreachable = errors.New("calendar provider unreachable")

	// ErrRefreshDenied means the refresh token itself was rejected.
	ErrRefreshDenied = errors.New("credential refresh denied")
)

// RemoteRejectedError is a definitive provider-side rejection of an event
// creation request. Retrying without changing the request will not help.
type RemoteRejectedError struct {
	Reason string
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("remote calendar rejected event: %s", e.Reason)
}

// EventRequest describes the calendar event to create for a booking.
type EventRequest struct {
	Summary     string
	Description string
	GuestEmail  string
	OwnerEmail  string
	Range       model.TimeRange
}

// CalendarGateway is the capability boundary to the remote calendar provider.
// It holds no state; credentials are passed into every call.
type CalendarGateway interface {
	ListBusyIntervals(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error)
	CreateEvent(ctx context.Context, creds model.Credentials, req EventRequest) (*model.RemoteEventRef, error)
	DeleteEvent(ctx context.Context, creds model.Credentials, eventID string) error
	RefreshCredentials(ctx context.Context, stale model.Credentials) (model.Credentials, error)
}
