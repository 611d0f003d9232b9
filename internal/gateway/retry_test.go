package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetsync/pkg/logger"
	"meetsync/pkg/model"
)

type stubGateway struct {
	listBusyFunc    func(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error)
	createEventFunc func(ctx context.Context, creds model.Credentials, req EventRequest) (*model.RemoteEventRef, error)
	deleteEventFunc func(ctx context.Context, creds model.Credentials, eventID string) error
	refreshFunc     func(ctx context.Context, stale model.Credentials) (model.Credentials, error)
}

func (s *stubGateway) ListBusyIntervals(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error) {
	if s.listBusyFunc != nil {
		return s.listBusyFunc(ctx, creds, rng)
	}
	return nil, nil
}

func (s *stubGateway) CreateEvent(ctx context.Context, creds model.Credentials, req EventRequest) (*model.RemoteEventRef, error) {
	if s.createEventFunc != nil {
		return s.createEventFunc(ctx, creds, req)
	}
	return &model.RemoteEventRef{EventID: "evt-1"}, nil
}

func (s *stubGateway) DeleteEvent(ctx context.Context, creds model.Credentials, eventID string) error {
	if s.deleteEventFunc != nil {
		return s.deleteEventFunc(ctx, creds, eventID)
	}
	return nil
}

func (s *stubGateway) RefreshCredentials(ctx context.Context, stale model.Credentials) (model.Credentials, error) {
	if s.refreshFunc != nil {
		return s.refreshFunc(ctx, stale)
	}
	return stale, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func testRange() model.TimeRange {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return model.TimeRange{Start: start, End: start.Add(time.Hour)}
}

func TestWithRetry_PassThrough(t *testing.T) {
	inner := &stubGateway{
		listBusyFunc: func(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error) {
			return []model.BusyInterval{{Summary: "Standup"}}, nil
		},
	}
	gw := WithRetry(inner, nil, time.Second, testLogger())

	intervals, err := gw.ListBusyIntervals(context.Background(), model.Credentials{AccessToken: "a"}, testRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(intervals) != 1 || intervals[0].Summary != "Standup" {
		t.Errorf("unexpected intervals: %+v", intervals)
	}
}

func TestWithRetry_RefreshThenRetryOnce(t *testing.T) {
	calls := 0
	var seenTokens []string
	inner := &stubGateway{
		listBusyFunc: func(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error) {
			calls++
			seenTokens = append(seenTokens, creds.AccessToken)
			if creds.AccessToken == "stale" {
				return nil, ErrAuthExpired
			}
			return nil, nil
		},
		refreshFunc: func(ctx context.Context, stale model.Credentials) (model.Credentials, error) {
			return model.Credentials{AccessToken: "fresh", RefreshToken: stale.RefreshToken}, nil
		},
	}
	gw := WithRetry(inner, nil, time.Second, testLogger())

	_, err := gw.ListBusyIntervals(context.Background(), model.Credentials{AccessToken: "stale", RefreshToken: "r"}, testRange())
	if err != nil {
		t.Fatalf("expected refreshed retry to succeed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected exactly 2 calls, got %d", calls)
	}
	if len(seenTokens) != 2 || seenTokens[1] != "fresh" {
		t.Errorf("expected retry with fresh token, saw %v", seenTokens)
	}
}

func TestWithRetry_RefreshDenied(t *testing.T) {
	inner := &stubGateway{
		createEventFunc: func(ctx context.Context, creds model.Credentials, req EventRequest) (*model.RemoteEventRef, error) {
			return nil, ErrAuthExpired
		},
		refreshFunc: func(ctx context.Context, stale model.Credentials) (model.Credentials, error) {
			return model.Credentials{}, ErrRefreshDenied
		},
	}
	gw := WithRetry(inner, nil, time.Second, testLogger())

	_, err := gw.CreateEvent(context.Background(), model.Credentials{AccessToken: "stale"}, EventRequest{Range: testRange()})
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable after refresh denial, got %v", err)
	}
}

func TestWithRetry_SecondAuthFailureDoesNotLoop(t *testing.T) {
	calls := 0
	inner := &stubGateway{
		listBusyFunc: func(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error) {
			calls++
			return nil, ErrAuthExpired
		},
	}
	gw := WithRetry(inner, nil, time.Second, testLogger())

	_, err := gw.ListBusyIntervals(context.Background(), model.Credentials{AccessToken: "stale"}, testRange())
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable when fresh credentials are also rejected, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected exactly 2 calls (no retry loop), got %d", calls)
	}
}

type stubCredentialStore struct {
	updateTokensFunc func(ctx context.Context, ownerID string, creds model.Credentials) error
}

func (s *stubCredentialStore) UpdateTokens(ctx context.Context, ownerID string, creds model.Credentials) error {
	if s.updateTokensFunc != nil {
		return s.updateTokensFunc(ctx, ownerID, creds)
	}
	return nil
}

func TestWithRetry_RefreshPersistsTokens(t *testing.T) {
	inner := &stubGateway{
		listBusyFunc: func(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error) {
			if creds.AccessToken == "stale" {
				return nil, ErrAuthExpired
			}
			return nil, nil
		},
		refreshFunc: func(ctx context.Context, stale model.Credentials) (model.Credentials, error) {
			return model.Credentials{OwnerID: stale.OwnerID, AccessToken: "fresh", RefreshToken: stale.RefreshToken}, nil
		},
	}

	var savedOwner string
	var saved model.Credentials
	store := &stubCredentialStore{
		updateTokensFunc: func(ctx context.Context, ownerID string, creds model.Credentials) error {
			savedOwner = ownerID
			saved = creds
			return nil
		},
	}
	gw := WithRetry(inner, store, time.Second, testLogger())

	_, err := gw.ListBusyIntervals(context.Background(), model.Credentials{OwnerID: "owner-1", AccessToken: "stale", RefreshToken: "r"}, testRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if savedOwner != "owner-1" {
		t.Errorf("expected refreshed tokens stored for owner-1, got %q", savedOwner)
	}
	if saved.AccessToken != "fresh" || saved.RefreshToken != "r" {
		t.Errorf("unexpected stored credentials: %+v", saved)
	}
}

func TestWithRetry_StoreFailureDoesNotFailCall(t *testing.T) {
	inner := &stubGateway{
		listBusyFunc: func(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error) {
			if creds.AccessToken == "stale" {
				return nil, ErrAuthExpired
			}
			return nil, nil
		},
		refreshFunc: func(ctx context.Context, stale model.Credentials) (model.Credentials, error) {
			return model.Credentials{OwnerID: stale.OwnerID, AccessToken: "fresh"}, nil
		},
	}
	store := &stubCredentialStore{
		updateTokensFunc: func(ctx context.Context, ownerID string, creds model.Credentials) error {
			return errors.New("write failed")
		},
	}
	gw := WithRetry(inner, store, time.Second, testLogger())

	_, err := gw.ListBusyIntervals(context.Background(), model.Credentials{OwnerID: "owner-1", AccessToken: "stale"}, testRange())
	if err != nil {
		t.Fatalf("store failure must not fail the gateway call: %v", err)
	}
}

func TestWithRetry_TimeoutBecomesUnreachable(t *testing.T) {
	inner := &stubGateway{
		listBusyFunc: func(ctx context.Context, creds model.Credentials, rng model.TimeRange) ([]model.BusyInterval, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	gw := WithRetry(inner, nil, 20*time.Millisecond, testLogger())

	_, err := gw.ListBusyIntervals(context.Background(), model.Credentials{AccessToken: "a"}, testRange())
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable on timeout, got %v", err)
	}
}

func TestWithRetry_RejectionPassesThrough(t *testing.T) {
	inner := &stubGateway{
		createEventFunc: func(ctx context.Context, creds model.Credentials, req EventRequest) (*model.RemoteEventRef, error) {
			return nil, &RemoteRejectedError{Reason: "attendee limit"}
		},
	}
	gw := WithRetry(inner, nil, time.Second, testLogger())

	_, err := gw.CreateEvent(context.Background(), model.Credentials{AccessToken: "a"}, EventRequest{Range: testRange()})
	var rejected *RemoteRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RemoteRejectedError to pass through, got %v", err)
	}
	if rejected.Reason != "attendee limit" {
		t.Errorf("unexpected reason: %s", rejected.Reason)
	}
}
