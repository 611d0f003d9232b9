package validator

import (
	"testing"

	"meetsync/pkg/logger"
	"meetsync/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func mustTimeOfDay(t *testing.T, hour, minute int) model.TimeOfDay {
	t.Helper()
	tod, err := model.NewTimeOfDay(hour, minute, 0)
	if err != nil {
		t.Fatalf("invalid time of day %02d:%02d: %v", hour, minute, err)
	}
	return tod
}

func TestSlotValidator_Validate(t *testing.T) {
	v := NewSlotValidator(testLogger())

	tests := []struct {
		name        string
		slot        *model.AvailabilitySlot
		expectValid bool
	}{
		{
			name: "valid one hour slot",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Monday,
				StartTime: mustTimeOfDay(t, 9, 0),
				EndTime:   mustTimeOfDay(t, 10, 0),
				TimeZone:  "UTC",
			},
			expectValid: true,
		},
		{
			name: "valid multi hour slot",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Friday,
				StartTime: mustTimeOfDay(t, 9, 0),
				EndTime:   mustTimeOfDay(t, 17, 0),
				TimeZone:  "Asia/Kolkata",
			},
			expectValid: true,
		},
		{
			name: "slot ending at midnight",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Sunday,
				StartTime: mustTimeOfDay(t, 23, 0),
				EndTime:   model.EndOfDay,
			},
			expectValid: true,
		},
		{
			name: "ninety minute duration rejected",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Monday,
				StartTime: mustTimeOfDay(t, 9, 0),
				EndTime:   mustTimeOfDay(t, 10, 30),
			},
			expectValid: false,
		},
		{
			name: "thirty minute duration rejected",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Monday,
				StartTime: mustTimeOfDay(t, 9, 0),
				EndTime:   mustTimeOfDay(t, 9, 30),
			},
			expectValid: false,
		},
		{
			name: "end before start",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Monday,
				StartTime: mustTimeOfDay(t, 14, 0),
				EndTime:   mustTimeOfDay(t, 12, 0),
			},
			expectValid: false,
		},
		{
			name: "end equals start",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Monday,
				StartTime: mustTimeOfDay(t, 9, 0),
				EndTime:   mustTimeOfDay(t, 9, 0),
			},
			expectValid: false,
		},
		{
			name: "missing owner",
			slot: &model.AvailabilitySlot{
				Weekday:   model.Monday,
				StartTime: mustTimeOfDay(t, 9, 0),
				EndTime:   mustTimeOfDay(t, 10, 0),
			},
			expectValid: false,
		},
		{
			name: "weekday out of range",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Weekday(8),
				StartTime: mustTimeOfDay(t, 9, 0),
				EndTime:   mustTimeOfDay(t, 10, 0),
			},
			expectValid: false,
		},
		{
			name: "invalid timezone",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Monday,
				StartTime: mustTimeOfDay(t, 9, 0),
				EndTime:   mustTimeOfDay(t, 10, 0),
				TimeZone:  "Not/AZone",
			},
			expectValid: false,
		},
		{
			name: "end past end of day",
			slot: &model.AvailabilitySlot{
				OwnerID:   "owner-1",
				Weekday:   model.Monday,
				StartTime: mustTimeOfDay(t, 23, 0),
				EndTime:   model.EndOfDay + 3600,
			},
			expectValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.slot)
			if tt.expectValid && err != nil {
				t.Errorf("expected valid, got error: %v", err)
			}
			if !tt.expectValid && err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSlotValidator_ErrorMessages(t *testing.T) {
	v := NewSlotValidator(testLogger())

	slot := &model.AvailabilitySlot{
		OwnerID:   "owner-1",
		Weekday:   model.Monday,
		StartTime: mustTimeOfDay(t, 9, 0),
		EndTime:   mustTimeOfDay(t, 10, 30),
	}

	err := v.Validate(slot)
	if err == nil {
		t.Fatal("expected validation error")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(verrs), verrs)
	}
	if verrs[0].Field != "end_time" {
		t.Errorf("expected field end_time, got %s", verrs[0].Field)
	}
}
