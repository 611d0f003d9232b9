package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"meetsync/pkg/kafka"
	"meetsync/pkg/model"
)

const (
	eventSourceName = "meetsync-scheduler"

	EventBookingCreated            = "booking.created"
	EventBookingCompensationFailed = "booking.compensation_failed"
)

// bookingEvent is the payload published to the booking events topic. Keyed by
// owner so per-owner ordering is preserved.
type bookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id,omitempty"`
	OwnerID    string    `json:"owner_id"`
	GuestEmail string    `json:"guest_email,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	RemoteID   string    `json:"remote_event_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publishEvent is best-effort: a publish failure never fails the booking
// operation, it is only logged.
func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking, remoteID string) {
	if s.publisher == nil {
		return
	}

	event := bookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  booking.ID,
		OwnerID:    booking.OwnerID,
		GuestEmail: booking.GuestEmail,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		RemoteID:   remoteID,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.cfg.Log.Error("Failed to encode booking event", "type", eventType, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   booking.OwnerID,
		Value: payload,
		Headers: map[string]string{
			kafka.HeaderEventID:   event.EventID,
			kafka.HeaderEventType: eventType,
			kafka.HeaderSource:    eventSourceName,
		},
	}

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
