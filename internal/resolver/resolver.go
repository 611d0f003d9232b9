package resolver

import (
	"context"
	"time"

	"meetsync/internal/gateway"
	"meetsync/pkg/logger"
	"meetsync/pkg/model"
)

// SlotSource is the read side of the availability store.
type SlotSource interface {
	SlotsFor(ctx context.Context, ownerID string, day model.Weekday) ([]*model.AvailabilitySlot, error)
}

// Resolver merges the two sources of truth - locally stored weekly slots and
// the remote calendar's busy events - into a single free/busy decision.
// It performs no writes.
type Resolver struct {
	slots    SlotSource
	gateway  gateway.CalendarGateway
	location *time.Location
	log      *logger.Logger
}

func New(slots SlotSource, gw gateway.CalendarGateway, location *time.Location, log *logger.Logger) *Resolver {
	return &Resolver{
		slots:    slots,
		gateway:  gw,
		location: location,
		log:      log,
	}
}

// IsFree decides whether a booking for rng can go ahead. The local slot check
// runs first because it is cheap; both checks must pass. A gateway failure is
// never treated as free: the decision is Conflict(RemoteUnavailable).
// An error is returned only when the local store itself fails.
func (r *Resolver) IsFree(ctx context.Context, ownerID string, rng model.TimeRange, creds model.Credentials) (model.FreeBusyDecision, error) {
	if err := rng.Validate(); err != nil {
		return model.ConflictDecision(model.ReasonLocalSlotMissing), nil
	}

	local := rng.In(r.location)

	// Bookings never cross midnight in the resolution zone.
	if local.SpansMultipleDays() {
		return model.ConflictDecision(model.ReasonLocalSlotMissing), nil
	}

	day := model.WeekdayFromTime(local.Start)
	reqStart := model.TimeOfDayFromClock(local.Start)
	reqEnd := model.TimeOfDayFromClock(local.End)
	if reqEnd == 0 {
		reqEnd = model.EndOfDay
	}

	slots, err := r.slots.SlotsFor(ctx, ownerID, day)
	if err != nil {
		return model.FreeBusyDecision{}, err
	}

	contained := false
	touched := false
	for _, slot := range slots {
		if slot.Contains(reqStart, reqEnd) {
			contained = true
			break
		}
		if slot.StartTime < reqEnd && reqStart < slot.EndTime {
			touched = true
		}
	}
	if !contained {
		if touched {
			return model.ConflictDecision(model.ReasonLocalSlotTooShort), nil
		}
		return model.ConflictDecision(model.ReasonLocalSlotMissing), nil
	}

	busy, err := r.gateway.ListBusyIntervals(ctx, creds, rng)
	if err != nil {
		r.log.Warn("Remote calendar unavailable, failing closed",
			"owner_id", ownerID,
			"error", err,
		)
		return model.ConflictDecision(model.ReasonRemoteUnavailable), nil
	}

	// First conflict in provider-returned order wins.
	for _, interval := range busy {
		if interval.Overlaps(rng) {
			return model.RemoteOverlapDecision(interval), nil
		}
	}

	return model.FreeDecision(), nil
}
