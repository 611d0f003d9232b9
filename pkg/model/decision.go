package model

import "time"

// BusyInterval is a remote calendar event's occupied window.
type BusyInterval struct {
	Summary string    `json:"summary"`
	Start   time.Time `json:"start_time"`
	End     time.Time `json:"end_time"`
}

// Overlaps applies the half-open overlap test against an absolute range.
func (b BusyInterval) Overlaps(r TimeRange) bool {
	return b.Start.Before(r.End) && r.Start.Before(b.End)
}

type ConflictReason string

const (
	ReasonLocalSlotMissing   ConflictReason = "LOCAL_SLOT_MISSING"
	ReasonLocalSlotTooShort  ConflictReason = "LOCAL_SLOT_TOO_SHORT"
	ReasonRemoteEventOverlap ConflictReason = "REMOTE_EVENT_OVERLAP"
	ReasonRemoteUnavailable  ConflictReason = "REMOTE_UNAVAILABLE"
)

// FreeBusyDecision is the tagged result of an availability resolution.
// When Free is false, Reason says why; for remote overlaps the first
// conflicting event (in provider order) is attached.
type FreeBusyDecision struct {
	Free             bool           `json:"free"`
	Reason           ConflictReason `json:"reason,omitempty"`
	ConflictingEvent *BusyInterval  `json:"conflicting_event,omitempty"`
}

func FreeDecision() FreeBusyDecision {
	return FreeBusyDecision{Free: true}
}

func ConflictDecision(reason ConflictReason) FreeBusyDecision {
	return FreeBusyDecision{Reason: reason}
}

func RemoteOverlapDecision(event BusyInterval) FreeBusyDecision {
	return FreeBusyDecision{
		Reason:           ReasonRemoteEventOverlap,
		ConflictingEvent: &event,
	}
}
