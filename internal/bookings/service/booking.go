package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "meetsync/internal/bookings/errors"
	"meetsync/internal/bookings/repository"
	"meetsync/internal/bookings/validator"
	credentialserrors "meetsync/internal/credentials/errors"
	"meetsync/internal/gateway"
	lockrepo "meetsync/internal/locks/repository"
	"meetsync/pkg/config"
	apperrors "meetsync/pkg/errors"
	"meetsync/pkg/kafka"
	"meetsync/pkg/model"
)

// AvailabilityResolver is the free/busy decision capability consumed by the
// orchestrator.
type AvailabilityResolver interface {
	IsFree(ctx context.Context, ownerID string, rng model.TimeRange, creds model.Credentials) (model.FreeBusyDecision, error)
}

// CredentialSource supplies the owner's stored calendar credentials.
type CredentialSource interface {
	FindByOwner(ctx context.Context, ownerID string) (*model.UserCredentials, error)
}

// EventPublisher emits booking lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	Book(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  lockrepo.OwnerLockRepository
	creds     CredentialSource
	resolver  AvailabilityResolver
	gateway   gateway.CalendarGateway
	publisher EventPublisher
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo lockrepo.OwnerLockRepository,
	creds CredentialSource,
	resolver AvailabilityResolver,
	gw gateway.CalendarGateway,
	publisher EventPublisher,
	bookingValidator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		creds:     creds,
		resolver:  resolver,
		gateway:   gw,
		publisher: publisher,
		validator: bookingValidator,
		cfg:       cfg,
	}
}

// Book runs the check-then-commit sequence: resolve free/busy, create the
// remote calendar event, then persist the booking. The whole sequence holds
// the owner's advisory lock so concurrent attempts for the same owner
// serialize. Once the remote event exists the request runs to completion
// even if the caller goes away; a failed persist triggers a best-effort
// compensating deletion of the remote event.
func (s *bookingService) Book(ctx context.Context, booking *model.Booking) error {
	booking.ID = ""
	booking.RemoteEvent = nil
	s.sanitize(booking)

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	rng, err := model.NewTimeRange(booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	stored, err := s.creds.FindByOwner(ctx, booking.OwnerID)
	if err != nil {
		if errors.Is(err, credentialserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Calendar credentials", booking.OwnerID)
		}
		return apperrors.Internal("Failed to load calendar credentials", err)
	}
	creds := stored.Credentials()

	lockID, err := s.acquireOwnerLock(ctx, booking.OwnerID)
	if err != nil {
		return err
	}
	defer func() {
		// The lock must come off even when the caller's context is done.
		if releaseErr := s.releaseOwnerLock(context.WithoutCancel(ctx), lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	decision, err := s.resolver.IsFree(ctx, booking.OwnerID, rng, creds)
	if err != nil {
		return apperrors.Internal("Failed to resolve availability", err)
	}
	if !decision.Free {
		return apperrors.NotFree(decision)
	}

	// Committed bookings may not be visible on the remote calendar yet, so
	// the resolver's remote check alone cannot close the race.
	if err := s.verifyNoLocalOverlap(ctx, booking.OwnerID, rng); err != nil {
		return err
	}

	ref, err := s.gateway.CreateEvent(ctx, creds, gateway.EventRequest{
		Summary:     fmt.Sprintf("Meeting with %s", booking.GuestEmail),
		Description: booking.Description,
		GuestEmail:  booking.GuestEmail,
		OwnerEmail:  stored.Email,
		Range:       rng,
	})
	if err != nil {
		return s.remoteEventError(err)
	}
	booking.RemoteEvent = ref

	// Point of no return: the remote event exists, so the request finishes
	// regardless of caller cancellation.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.RequestTimeout)
	defer cancel()

	err = s.repo.ExecuteTransaction(commitCtx, func(sessCtx mongo.SessionContext) error {
		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		s.compensate(commitCtx, creds, booking, ref)
		return apperrors.PersistFailed("Failed to persist booking after calendar event creation", err)
	}

	s.publishEvent(commitCtx, EventBookingCreated, booking, ref.EventID)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"owner_id", booking.OwnerID,
		"guest_email", booking.GuestEmail,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByOwner(ctx, ownerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "owner_id", ownerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByOwner(ctx, ownerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "owner_id", ownerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.OwnerID = strings.TrimSpace(b.OwnerID)
	b.GuestEmail = strings.TrimSpace(strings.ToLower(b.GuestEmail))
	b.Description = strings.TrimSpace(b.Description)
}

func (s *bookingService) verifyNoLocalOverlap(ctx context.Context, ownerID string, rng model.TimeRange) error {
	existing, err := s.repo.FindOverlapping(ctx, ownerID, rng)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	if len(existing) > 0 {
		first := existing[0]
		return apperrors.Conflict(fmt.Sprintf(
			"Booking time overlaps with existing booking (%s - %s)",
			first.StartTime.Format(time.RFC3339),
			first.EndTime.Format(time.RFC3339),
		))
	}
	return nil
}

func (s *bookingService) remoteEventError(err error) error {
	var rejected *gateway.RemoteRejectedError
	if errors.As(err, &rejected) {
		return apperrors.RemoteEventFailed(rejected.Reason, err)
	}
	if errors.Is(err, gateway.ErrUnreachable) || errors.Is(err, gateway.ErrAuthExpired) {
		return apperrors.RemoteEventFailed("calendar provider unavailable", err)
	}
	return apperrors.RemoteEventFailed("unexpected gateway failure", err)
}

// compensate deletes the remote event created for a booking whose local
// persist failed. Failure here means the remote calendar and local records
// have drifted; that is logged at error severity for operator follow-up.
func (s *bookingService) compensate(ctx context.Context, creds model.Credentials, booking *model.Booking, ref *model.RemoteEventRef) {
	if err := s.gateway.DeleteEvent(ctx, creds, ref.EventID); err != nil {
		s.cfg.Log.Error("Compensating calendar event deletion failed; remote and local state may have drifted",
			"owner_id", booking.OwnerID,
			"remote_event_id", ref.EventID,
			"error", err,
		)
		s.publishEvent(ctx, EventBookingCompensationFailed, booking, ref.EventID)
		return
	}
	s.cfg.Log.Warn("Booking persist failed, remote calendar event rolled back",
		"owner_id", booking.OwnerID,
		"remote_event_id", ref.EventID,
	)
}

func (s *bookingService) acquireOwnerLock(ctx context.Context, ownerID string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s", ownerID)

	lock := &model.OwnerLock{
		ID:        lockID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.OwnerLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("Another booking for this owner is in progress. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseOwnerLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
