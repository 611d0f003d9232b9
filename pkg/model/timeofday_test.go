package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  TimeOfDay
		expectErr bool
	}{
		{
			name:     "hours and minutes",
			input:    "09:30",
			expected: TimeOfDay(9*3600 + 30*60),
		},
		{
			name:     "hours minutes seconds",
			input:    "17:45:30",
			expected: TimeOfDay(17*3600 + 45*60 + 30),
		},
		{
			name:     "midnight",
			input:    "00:00",
			expected: TimeOfDay(0),
		},
		{
			name:     "end of day",
			input:    "24:00",
			expected: EndOfDay,
		},
		{
			name:     "end of day with seconds",
			input:    "24:00:00",
			expected: EndOfDay,
		},
		{
			name:      "hour out of range",
			input:     "25:00",
			expectErr: true,
		},
		{
			name:      "24 with nonzero minutes",
			input:     "24:30",
			expectErr: true,
		},
		{
			name:      "minute out of range",
			input:     "10:60",
			expectErr: true,
		},
		{
			name:      "garbage",
			input:     "not-a-time",
			expectErr: true,
		},
		{
			name:      "empty string",
			input:     "",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("expected error for input %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	tod, err := NewTimeOfDay(9, 5, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.String() != "09:05:00" {
		t.Errorf("expected 09:05:00, got %s", tod.String())
	}
}

func TestTimeOfDay_JSONRoundTrip(t *testing.T) {
	original, err := NewTimeOfDay(14, 30, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"14:30:00"` {
		t.Errorf("expected \"14:30:00\", got %s", data)
	}

	var decoded TimeOfDay
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch: %d != %d", decoded, original)
	}
}

func TestTimeOfDay_EndOfDayRoundTrip(t *testing.T) {
	data, err := json.Marshal(EndOfDay)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"24:00:00"` {
		t.Errorf("expected \"24:00:00\", got %s", data)
	}

	var decoded TimeOfDay
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != EndOfDay {
		t.Errorf("round trip mismatch: %d != %d", decoded, EndOfDay)
	}
}

func TestTimeOfDayFromClock(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// 10:30 UTC is 16:00 in Asia/Kolkata (+05:30).
	instant := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	got := TimeOfDayFromClock(instant.In(loc))

	expected, _ := NewTimeOfDay(16, 0, 0)
	if got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestTimeOfDay_Sub(t *testing.T) {
	start, _ := NewTimeOfDay(10, 0, 0)
	end, _ := NewTimeOfDay(11, 30, 0)

	if d := end.Sub(start); d != 90*time.Minute {
		t.Errorf("expected 90m, got %s", d)
	}
}
