package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ontrack/pkg/logger"
	"ontrack/pkg/model"
	"ontrack/pkg/sanitizer"
)

const dateLayout = "2006-01-02"

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

// ParseDateOnly normalizes a customer-supplied date to YYYY-MM-DD,
// accepting either a bare calendar date or an RFC3339 timestamp (the site
// sends Date.toISOString()). The calendar date is taken as stated in the
// timestamp's own offset; the time-of-day component is dropped. The
// calendar date is the unit of slot uniqueness.
func ParseDateOnly(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.Format(dateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(dateLayout), nil
	}
	return "", fmt.Errorf("invalid date format: %s", raw)
}

// ValidateRequest runs the struct-tag checks on the raw payload.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateSlot checks membership in the fixed hourly slot set.
func (v *BookingValidator) ValidateSlot(slot string, allowed []string) error {
	for _, label := range allowed {
		if slot == label {
			return nil
		}
	}
	return ValidationErrors{
		ValidationError{
			Field:   "timeSlot",
			Message: fmt.Sprintf("invalid time slot: %s", slot),
		},
	}
}

// ValidateHorizon enforces the booking window: today through
// today+horizonDays inclusive. The client calendar enforces the same
// bound; this is the authoritative check.
func (v *BookingValidator) ValidateHorizon(dateOnly string, now time.Time, horizonDays int) error {
	d, err := time.Parse(dateLayout, dateOnly)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "date", Message: fmt.Sprintf("invalid date format: %s", dateOnly)},
		}
	}

	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return ValidationErrors{
			ValidationError{Field: "date", Message: "date cannot be in the past"},
		}
	}
	if d.After(today.AddDate(0, 0, horizonDays)) {
		return ValidationErrors{
			ValidationError{Field: "date", Message: fmt.Sprintf("date must be within the next %d days", horizonDays)},
		}
	}
	return nil
}

// NormalizePhone applies the North American dialing rules and reports the
// failure as a field error.
func (v *BookingValidator) NormalizePhone(phone string) (string, error) {
	normalized, err := sanitizer.NormalizePhone(phone)
	if err != nil {
		return "", ValidationErrors{
			ValidationError{Field: "phone", Message: "invalid phone number"},
		}
	}
	return normalized, nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
