package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"rentcar/pkg/logger"
	"rentcar/pkg/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		v.logger.Error("Booking validation failed without field details", "error", err)
		return err
	}

	start, end, err := RentalSpan(booking)
	if err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "StartDate",
				Message: err.Error(),
			},
		}
	}

	if !end.After(start) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "rental end must be after rental start",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateStatusUpdate(update *model.BookingStatusUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		v.logger.Error("Status validation failed without field details", "error", err)
		return err
	}
	return nil
}

// RentalSpan parses the wire-format date and time strings into the rental's
// start and end instants.
func RentalSpan(booking *model.Booking) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout+" "+timeLayout, booking.StartDate+" "+booking.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid rental start: %w", err)
	}
	end, err := time.Parse(dateLayout+" "+timeLayout, booking.EndDate+" "+booking.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid rental end: %w", err)
	}
	return start, end, nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "required_if":
			message = fmt.Sprintf("%s is required when a driver is requested", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match the format %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
