package model

import "time"

// RemoteEventRef points at the calendar event created for a booking.
type RemoteEventRef struct {
	EventID      string `json:"event_id,omitempty" bson:"event_id,omitempty"`
	MeetingLink  string `json:"meeting_link,omitempty" bson:"meeting_link,omitempty"`
	CalendarLink string `json:"calendar_link,omitempty" bson:"calendar_link,omitempty"`
}

// Booking is immutable once created. A record exists only after a Free
// decision and a successful remote event creation.
type Booking struct {
	ID          string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string          `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=100"`
	GuestEmail  string          `json:"guest_email" bson:"guest_email" validate:"required,email"`
	Description string          `json:"description,omitempty" bson:"description" validate:"omitempty,max=2000"`
	StartTime   time.Time       `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time       `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	RemoteEvent *RemoteEventRef `json:"remote_event,omitempty" bson:"remote_event,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

// Range returns the booked interval.
func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}
