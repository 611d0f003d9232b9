package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday uses ISO-8601 numbering: Monday is 1, Sunday is 7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (d Weekday) IsValid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(d))
}

// ParseWeekday accepts a weekday name in any casing ("monday", "Monday").
func ParseWeekday(s string) (Weekday, error) {
	name := strings.TrimSpace(s)
	for day, label := range weekdayNames {
		if strings.EqualFold(label, name) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday: %q", s)
}

// WeekdayFromTime converts Go's Sunday-based weekday to ISO numbering.
func WeekdayFromTime(t time.Time) Weekday {
	if wd := t.Weekday(); wd == time.Sunday {
		return Sunday
	} else {
		return Weekday(wd)
	}
}

func (d Weekday) MarshalJSON() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid weekday %d", int(d))
	}
	return json.Marshal(d.String())
}

func (d *Weekday) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		day, parseErr := ParseWeekday(name)
		if parseErr != nil {
			return parseErr
		}
		*d = day
		return nil
	}

	// Numeric form is accepted for clients that send the ISO ordinal directly.
	var ordinal int
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return fmt.Errorf("weekday must be a name or ISO ordinal: %w", err)
	}
	day := Weekday(ordinal)
	if !day.IsValid() {
		return fmt.Errorf("invalid weekday ordinal: %d", ordinal)
	}
	*d = day
	return nil
}
