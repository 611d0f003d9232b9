package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"meetsync/pkg/logger"
	"meetsync/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type SlotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSlotValidator(log *logger.Logger) *SlotValidator {
	v := validator.New()

	log.Info("Availability slot validator initialized successfully")

	return &SlotValidator{
		validate: v,
		logger:   log,
	}
}

// Validate applies struct-tag validation plus the interval policy: start
// before end, and the window a whole number of hours.
func (v *SlotValidator) Validate(slot *model.AvailabilitySlot) error {
	var validationErrors ValidationErrors

	if err := v.validate.Struct(slot); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			validationErrors = append(validationErrors, translateFieldErrors(fieldErrs)...)
		} else {
			return err
		}
	}

	validationErrors = append(validationErrors, validateInterval(slot)...)

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

func validateInterval(slot *model.AvailabilitySlot) ValidationErrors {
	var errs ValidationErrors

	if slot.StartTime < 0 || slot.StartTime >= model.EndOfDay {
		errs = append(errs, ValidationError{
			Field:   "start_time",
			Message: "start_time must be a valid time of day",
		})
	}
	if slot.EndTime <= 0 || slot.EndTime > model.EndOfDay {
		errs = append(errs, ValidationError{
			Field:   "end_time",
			Message: "end_time must be a valid time of day",
		})
	}
	if len(errs) > 0 {
		return errs
	}

	if !slot.StartTime.Before(slot.EndTime) {
		errs = append(errs, ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		})
		return errs
	}

	if slot.EndTime.Sub(slot.StartTime)%time.Hour != 0 {
		errs = append(errs, ValidationError{
			Field:   "end_time",
			Message: "slot duration must be a whole number of hours",
		})
	}

	return errs
}

func translateFieldErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA timezone identifier", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
