package tui

import (
	"strconv"
	"strings"

	"github.com/rupeewave/teller/internal/errors"
)

// Field validation rules shared by the operation forms. Every rule runs
// before a call is made; the backend remains authoritative on anything
// beyond shape.

func validateRequired(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.NewValidationError(errors.ErrCodeFieldRequired, label+" is required")
		}
		return nil
	}
}

// validatePIN accepts exactly 4 numeric characters, nothing else.
func validatePIN(s string) error {
	if len(s) != 4 {
		return errors.NewValidationError(errors.ErrCodePinFormat, "PIN must be exactly 4 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return errors.NewValidationError(errors.ErrCodePinFormat, "PIN must be exactly 4 digits")
		}
	}
	return nil
}

// validateAmount requires a positive integer. There is no client-side
// maximum; limits belong to the backend.
func validateAmount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.NewValidationError(errors.ErrCodeAmountFormat, "Amount must be a positive whole number")
	}
	return nil
}

// validateMobile requires a 10-digit number
func validateMobile(s string) error {
	s = strings.TrimSpace(s)
	if len(s) != 10 {
		return errors.NewValidationError(errors.ErrCodeValidation, "Mobile number must be 10 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return errors.NewValidationError(errors.ErrCodeValidation, "Mobile number must be 10 digits")
		}
	}
	return nil
}

// validateEmail is a shape check only
func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at < 1 || !strings.Contains(s[at:], ".") {
		return errors.NewValidationError(errors.ErrCodeValidation, "Enter a valid email address")
	}
	return nil
}

// amountValue parses a validated amount field
func amountValue(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
