package errors

import (
	"fmt"
	"net/http"

	"meetsync/pkg/model"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
	CodeConflict     = "CONFLICT"
	CodeNotFree      = "NOT_FREE"
	CodeRemoteEvent  = "REMOTE_EVENT_FAILED"
	CodePersist      = "PERSIST_FAILED"
	CodeInternal     = "INTERNAL_ERROR"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// AppError carries the error taxonomy across service boundaries. Code is the
// machine-readable kind, HTTPStatus its transport mapping.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NotFree wraps a conflict decision from the availability resolver so clients
// can display the specific reason.
func NotFree(decision model.FreeBusyDecision) *AppError {
	details := map[string]any{"reason": string(decision.Reason)}
	if ev := decision.ConflictingEvent; ev != nil {
		details["event_summary"] = ev.Summary
		details["event_start"] = ev.Start
		details["event_end"] = ev.End
	}
	status := http.StatusConflict
	if decision.Reason == model.ReasonRemoteUnavailable {
		// Fail closed: the remote source could not be consulted, so this is a
		// retryable server-side condition, not a user conflict.
		status = http.StatusServiceUnavailable
	}
	return &AppError{
		Code:       CodeNotFree,
		Message:    "Requested time is not available",
		HTTPStatus: status,
		Details:    details,
	}
}

func RemoteEventFailed(reason string, err error) *AppError {
	return &AppError{
		Code:       CodeRemoteEvent,
		Message:    fmt.Sprintf("Calendar event creation failed: %s", reason),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func PersistFailed(message string, err error) *AppError {
	return &AppError{
		Code:       CodePersist,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
