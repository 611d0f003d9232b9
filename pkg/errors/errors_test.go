package errors

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"meetsync/pkg/model"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Internal("wrapped", originalErr)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "65f000000000000000000010")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Details["id"] != "65f000000000000000000010" {
		t.Errorf("expected id in details, got %v", err.Details)
	}
}

func TestNotFree_ConflictStatus(t *testing.T) {
	decision := model.ConflictDecision(model.ReasonLocalSlotMissing)
	err := NotFree(decision)

	if err.Code != CodeNotFree {
		t.Errorf("expected code %s, got %s", CodeNotFree, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["reason"] != string(model.ReasonLocalSlotMissing) {
		t.Errorf("expected reason in details, got %v", err.Details)
	}
}

func TestNotFree_RemoteUnavailableStatus(t *testing.T) {
	decision := model.ConflictDecision(model.ReasonRemoteUnavailable)
	err := NotFree(decision)

	if err.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected status %d for unknown remote state, got %d", http.StatusServiceUnavailable, err.HTTPStatus)
	}
}

func TestNotFree_AttachesConflictingEvent(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	decision := model.RemoteOverlapDecision(model.BusyInterval{
		Summary: "Standup",
		Start:   start,
		End:     start.Add(30 * time.Minute),
	})
	err := NotFree(decision)

	if err.Details["event_summary"] != "Standup" {
		t.Errorf("expected conflicting event summary in details, got %v", err.Details)
	}
}

func TestRemoteEventFailed(t *testing.T) {
	cause := errors.New("googleapi: Error 403")
	err := RemoteEventFailed("calendar quota exceeded", cause)

	if err.Code != CodeRemoteEvent {
		t.Errorf("expected code %s, got %s", CodeRemoteEvent, err.Code)
	}
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, err.HTTPStatus)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be wrapped")
	}
}

func TestPersistFailed(t *testing.T) {
	err := PersistFailed("persist failed", errors.New("write concern"))

	if err.Code != CodePersist {
		t.Errorf("expected code %s, got %s", CodePersist, err.Code)
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, err.HTTPStatus)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("already held")
	if AsAppError(appErr) != appErr {
		t.Error("expected AsAppError to return the same AppError")
	}

	plain := errors.New("plain error")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected plain errors to convert to %s, got %s", CodeInternal, converted.Code)
	}
	if converted.Err != plain {
		t.Error("expected original error to be preserved")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(InvalidInput("bad")) {
		t.Error("expected true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("expected false for plain error")
	}
}
