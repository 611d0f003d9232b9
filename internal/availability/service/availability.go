package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	availabilityerrors "meetsync/internal/availability/errors"
	"meetsync/internal/availability/repository"
	"meetsync/internal/availability/validator"
	lockrepo "meetsync/internal/locks/repository"
	"meetsync/pkg/config"
	apperrors "meetsync/pkg/errors"
	"meetsync/pkg/model"
)

type AvailabilityService interface {
	AddSlot(ctx context.Context, slot *model.AvailabilitySlot) error
	RemoveSlot(ctx context.Context, id string) error
	SlotsFor(ctx context.Context, ownerID string, day model.Weekday) ([]*model.AvailabilitySlot, error)
	SlotsForOwner(ctx context.Context, ownerID string) ([]*model.AvailabilitySlot, error)
}

type availabilityService struct {
	repo      repository.SlotRepository
	lockRepo  lockrepo.OwnerLockRepository
	validator *validator.SlotValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.SlotRepository,
	lockRepo lockrepo.OwnerLockRepository,
	slotValidator *validator.SlotValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: slotValidator,
		cfg:       cfg,
	}
}

// AddSlot validates the slot and inserts it if it does not overlap any
// existing slot for the same owner and weekday. The check-then-insert runs
// under an advisory lock scoped to (owner, weekday) so concurrent additions
// cannot both pass the overlap check.
func (s *availabilityService) AddSlot(ctx context.Context, slot *model.AvailabilitySlot) error {
	slot.ID = ""
	if slot.TimeZone == "" {
		slot.TimeZone = "UTC"
	}

	if err := s.validator.Validate(slot); err != nil {
		s.cfg.Log.Warn("Availability slot validation failed", "error", err)
		return apperrors.Validation("Availability slot validation failed", map[string]any{"error": err.Error()})
	}

	lockID, err := s.acquireOwnerDayLock(ctx, slot.OwnerID, slot.Weekday)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseOwnerDayLock(context.WithoutCancel(ctx), lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release availability lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByOwnerAndWeekday(sessCtx, slot.OwnerID, slot.Weekday)
		if err != nil {
			return apperrors.Internal("Failed to check existing availability slots", err)
		}
		for _, other := range existing {
			if slot.Overlaps(other) {
				return apperrors.Conflict(fmt.Sprintf(
					"Availability slot overlaps with existing slot (%s - %s)",
					other.StartTime, other.EndTime,
				)).WithDetails(map[string]any{
					"conflicting_slot_id": other.ID,
					"start_time":          other.StartTime.String(),
					"end_time":            other.EndTime.String(),
				})
			}
		}

		if err := s.repo.Create(sessCtx, slot); err != nil {
			return apperrors.Internal("Failed to create availability slot", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to add availability slot", "owner_id", slot.OwnerID, "error", err)
		return err
	}

	s.cfg.Log.Info("Availability slot created successfully",
		"id", slot.ID,
		"owner_id", slot.OwnerID,
		"weekday", slot.Weekday.String(),
		"start_time", slot.StartTime.String(),
		"end_time", slot.EndTime.String(),
	)
	return nil
}

func (s *availabilityService) RemoveSlot(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Availability slot ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability slot", id)
		}
		if errors.Is(err, availabilityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid availability slot ID format")
		}
		return apperrors.Internal("Failed to delete availability slot", err)
	}

	s.cfg.Log.Info("Availability slot deleted successfully", "id", id)
	return nil
}

func (s *availabilityService) SlotsFor(ctx context.Context, ownerID string, day model.Weekday) ([]*model.AvailabilitySlot, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if !day.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid weekday: %d", int(day)))
	}

	slots, err := s.repo.FindByOwnerAndWeekday(ctx, ownerID, day)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability slots", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability slots", err)
	}
	return slots, nil
}

func (s *availabilityService) SlotsForOwner(ctx context.Context, ownerID string) ([]*model.AvailabilitySlot, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	slots, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability slots", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability slots", err)
	}
	return slots, nil
}

func (s *availabilityService) acquireOwnerDayLock(ctx context.Context, ownerID string, day model.Weekday) (string, error) {
	lockID := fmt.Sprintf("availability_lock_%s_%d", ownerID, int(day))

	lock := &model.OwnerLock{
		ID:        lockID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.OwnerLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This owner's availability is being modified by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire availability lock", err)
	}

	return lockID, nil
}

func (s *availabilityService) releaseOwnerDayLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
