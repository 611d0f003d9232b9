package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with second precision, stored as seconds
// since midnight. It carries no date or timezone.
type TimeOfDay int

// EndOfDay marks the exclusive upper bound of a day, used when an interval
// ends exactly at midnight.
const EndOfDay TimeOfDay = 24 * 60 * 60

func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("invalid time of day: %02d:%02d:%02d", hour, minute, second)
	}
	return TimeOfDay(hour*3600 + minute*60 + second), nil
}

// ParseTimeOfDay accepts "15:04" or "15:04:05". "24:00" parses to EndOfDay
// so that an interval ending exactly at midnight survives a round trip
// through its textual form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute, second int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &second); err != nil {
		second = 0
		if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
			return 0, fmt.Errorf("time must be in HH:MM or HH:MM:SS format, got %q", s)
		}
	}
	if hour == 24 && minute == 0 && second == 0 {
		return EndOfDay, nil
	}
	return NewTimeOfDay(hour, minute, second)
}

// TimeOfDayFromClock extracts the wall-clock time of t in t's location.
func TimeOfDayFromClock(t time.Time) TimeOfDay {
	hour, minute, second := t.Clock()
	return TimeOfDay(hour*3600 + minute*60 + second)
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return (int(t) % 3600) / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }

// Sub returns the duration between two times of day.
func (t TimeOfDay) Sub(other TimeOfDay) time.Duration {
	return time.Duration(int(t)-int(other)) * time.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
