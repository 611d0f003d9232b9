package gateway

import (
	"context"
	"errors"
	"time"

	"meetsync/pkg/logger"
	"meetsync/pkg/model"
)

// CredentialStore persists refreshed tokens so subsequent calls for the same
// owner start with a valid access token instead of paying another refresh.
type CredentialStore interface {
	UpdateTokens(ctx context.Context, ownerID string, creds model.Credentials) error
}

// retryingGateway decorates a CalendarGateway with the credential policy:
// every call gets a bounded timeout (timeout counts as unreachable), and an
// expired-auth failure triggers exactly one refresh-and-retry before the
// error is surfaced as unreachable. No other retries happen here.
type retryingGateway struct {
	inner   CalendarGateway
	store   CredentialStore
	timeout time.Duration
	log     *logger.Logger
}

func WithRetry(inner CalendarGateway, store CredentialStore, timeout time.Duration, log *logger.Logger) CalendarGateway {
	return &retryingGateway{
		inner:   inner,
		store:   store,
		timeout: timeout,
		log:     log,
	}
}

func (g *retryingGateway) ListBusyIntervals(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error) {
	var intervals []model.BusyInterval
	err := g.callWithRefresh(ctx, creds, func(ctx context.Context, creds model.Credentials) error {
		var callErr error
		intervals, callErr = g.inner.ListBusyIntervals(ctx, creds, rng)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return intervals, nil
}

func (g *retryingGateway) CreateEvent(ctx context.Context, creds model.Credentials, req EventRequest) (*model.RemoteEventRef, error) {
	var ref *model.RemoteEventRef
	err := g.callWithRefresh(ctx, creds, func(ctx context.Context, creds model.Credentials) error {
		var callErr error
		ref, callErr = g.inner.CreateEvent(ctx, creds, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func (g *retryingGateway) DeleteEvent(ctx context.Context, creds model.Credentials, eventID string) error {
	return g.callWithRefresh(ctx, creds, func(ctx context.Context, creds model.Credentials) error {
		return g.inner.DeleteEvent(ctx, creds, eventID)
	})
}

func (g *retryingGateway) RefreshCredentials(ctx context.Context, stale model.Credentials) (model.Credentials, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.inner.RefreshCredentials(ctx, stale)
}

func (g *retryingGateway) callWithRefresh(ctx context.Context, creds model.Credentials, call func(ctx context.Context, creds model.Credentials) error) error {
	err := g.bounded(ctx, creds, call)
	if !errors.Is(err, ErrAuthExpired) {
		return err
	}

	g.log.Info("Calendar credentials expired, attempting refresh")
	fresh, refreshErr := g.RefreshCredentials(ctx, creds)
	if refreshErr != nil {
		g.log.Warn("Credential refresh failed", "error", refreshErr)
		return ErrUnreachable
	}
	g.persistRefreshed(ctx, fresh)

	if retryErr := g.bounded(ctx, fresh, call); retryErr != nil {
		if errors.Is(retryErr, ErrAuthExpired) {
			// Fresh credentials were still rejected; do not loop.
			return ErrUnreachable
		}
		return retryErr
	}
	return nil
}

// persistRefreshed writes the fresh token pair back to the store. Best
// effort: the fresh tokens are valid for this call either way, a failed
// write only costs the next call a refresh.
func (g *retryingGateway) persistRefreshed(ctx context.Context, fresh model.Credentials) {
	if g.store == nil || fresh.OwnerID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()
	if err := g.store.UpdateTokens(ctx, fresh.OwnerID, fresh); err != nil {
		g.log.Warn("Failed to persist refreshed credentials", "owner_id", fresh.OwnerID, "error", err)
	}
}

func (g *retryingGateway) bounded(ctx context.Context, creds model.Credentials, call func(ctx context.Context, creds model.Credentials) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	err := call(ctx, creds)
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnreachable
	}
	return err
}
