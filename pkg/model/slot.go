package model

import "time"

// AvailabilitySlot is a recurring weekly availability window for one owner.
// Slots are never mutated in place; edits replace the record so overlap
// checks only ever compare whole slots.
type AvailabilitySlot struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID   string    `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=100"`
	Weekday   Weekday   `json:"weekday" bson:"weekday" validate:"required,min=1,max=7"`
	StartTime TimeOfDay `json:"start_time" bson:"start_time"`
	EndTime   TimeOfDay `json:"end_time" bson:"end_time"`
	TimeZone  string    `json:"time_zone,omitempty" bson:"time_zone" validate:"omitempty,timezone"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

// Overlaps applies the half-open interval test against another slot's
// time-of-day window. Adjacent slots (a.End == b.Start) do not overlap.
func (s *AvailabilitySlot) Overlaps(other *AvailabilitySlot) bool {
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// Contains reports whether the slot's window fully covers [start, end).
func (s *AvailabilitySlot) Contains(start, end TimeOfDay) bool {
	return s.StartTime <= start && end <= s.EndTime
}
