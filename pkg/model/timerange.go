package model

import (
	"fmt"
	"time"
)

// TimeRange is an absolute half-open interval [Start, End).
type TimeRange struct {
	Start time.Time `json:"start_time" bson:"start_time"`
	End   time.Time `json:"end_time" bson:"end_time"`
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	r := TimeRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

func (r TimeRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("time range requires both start and end")
	}
	if !r.End.After(r.Start) {
		return fmt.Errorf("end %s must be after start %s",
			r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return nil
}

// In returns the range with both instants rendered in loc. The underlying
// instants are unchanged.
func (r TimeRange) In(loc *time.Location) TimeRange {
	return TimeRange{Start: r.Start.In(loc), End: r.End.In(loc)}
}

// Overlaps applies the half-open overlap test.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// SpansMultipleDays reports whether the range covers more than one calendar
// day in its current location. An interval ending exactly at midnight still
// belongs to the preceding day.
func (r TimeRange) SpansMultipleDays() bool {
	last := r.End.Add(-time.Second)
	sy, sd := r.Start.Year(), r.Start.YearDay()
	ly, ld := last.Year(), last.YearDay()
	return sy != ly || sd != ld
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}
