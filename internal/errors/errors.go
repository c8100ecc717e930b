package errors

import (
	goerrors "errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Validation errors (VALIDATION-001 to VALIDATION-099) are caught
	// before any network call is made.
	ErrCodeValidation      ErrorCode = "VALIDATION-001"
	ErrCodePinFormat       ErrorCode = "VALIDATION-002"
	ErrCodeAmountFormat    ErrorCode = "VALIDATION-003"
	ErrCodePinMismatch     ErrorCode = "VALIDATION-004"
	ErrCodePinUnchanged    ErrorCode = "VALIDATION-005"
	ErrCodeFieldRequired   ErrorCode = "VALIDATION-006"

	// Authorization errors (AUTH-001 to AUTH-099)
	ErrCodeSessionExpired ErrorCode = "AUTH-001"
	ErrCodeAccessDenied   ErrorCode = "AUTH-002"
	ErrCodeLoginFailed    ErrorCode = "AUTH-003"

	// Application errors (API-001 to API-099): non-401 non-2xx responses
	ErrCodeAPIFailure ErrorCode = "API-001"

	// Transport errors (NET-001 to NET-099): no response received
	ErrCodeTransport ErrorCode = "NET-001"
)

// TellerError is the error type every layer of the client raises. Code
// identifies the category, Message is always human-readable, and Detail
// carries the backend's verbatim detail when one was returned.
type TellerError struct {
	Code    ErrorCode
	Message string
	Detail  string
	Cause   error
}

// Error implements the error interface
func (e *TellerError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *TellerError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the text a form should display: the backend's
// detail verbatim when present, the category message otherwise.
func (e *TellerError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// New creates a new TellerError
func New(code ErrorCode, message string) *TellerError {
	return &TellerError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new TellerError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *TellerError {
	return &TellerError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithDetail attaches the backend's detail string to the error
func (e *TellerError) WithDetail(detail string) *TellerError {
	e.Detail = detail
	return e
}

// NewValidationError creates a pre-submit validation error. It never
// reaches the gateway.
func NewValidationError(code ErrorCode, message string) *TellerError {
	return New(code, message)
}

// NewSessionExpiredError creates the error raised for any 401, regardless
// of which operation triggered it.
func NewSessionExpiredError() *TellerError {
	return New(ErrCodeSessionExpired, "Session expired, login again.")
}

// NewAccessDeniedError creates the error rendered when a role reaches a
// view it is not permitted to use.
func NewAccessDeniedError(operation string) *TellerError {
	return New(ErrCodeAccessDenied, fmt.Sprintf("access denied: %s", operation))
}

// NewAPIError creates an application error from a non-2xx response.
// fallback is the operation-specific message used when the backend sent
// no detail field.
func NewAPIError(fallback, detail string) *TellerError {
	return New(ErrCodeAPIFailure, fallback).WithDetail(detail)
}

// NewTransportError creates a transport error for a call that got no
// response at all.
func NewTransportError(fallback string, cause error) *TellerError {
	return Wrap(ErrCodeTransport, fallback, cause)
}

// IsSessionExpired reports whether err is (or wraps) a 401 classification.
func IsSessionExpired(err error) bool {
	var te *TellerError
	if goerrors.As(err, &te) {
		return te.Code == ErrCodeSessionExpired
	}
	return false
}

// IsValidation reports whether err was raised before any network call.
func IsValidation(err error) bool {
	var te *TellerError
	if goerrors.As(err, &te) {
		switch te.Code {
		case ErrCodeValidation, ErrCodePinFormat, ErrCodeAmountFormat,
			ErrCodePinMismatch, ErrCodePinUnchanged, ErrCodeFieldRequired:
			return true
		}
	}
	return false
}

// UserMessage extracts the display text from any error. Plain errors
// surface their Error() string unchanged.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var te *TellerError
	if goerrors.As(err, &te) {
		return te.UserMessage()
	}
	return err.Error()
}
