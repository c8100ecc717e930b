package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/rupeewave/teller/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates an authentication failure or expired session
	AuthError = 5

	// NetworkError indicates the backend could not be reached
	NetworkError = 6

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit
// code. Typed errors are authoritative; untyped errors fall back to
// message heuristics.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var te *errors.TellerError
	if stderrors.As(err, &te) {
		switch te.Code {
		case errors.ErrCodeSessionExpired, errors.ErrCodeAccessDenied, errors.ErrCodeLoginFailed:
			return AuthError
		case errors.ErrCodeTransport:
			return NetworkError
		case errors.ErrCodeValidation, errors.ErrCodePinFormat, errors.ErrCodeAmountFormat,
			errors.ErrCodePinMismatch, errors.ErrCodePinUnchanged, errors.ErrCodeFieldRequired:
			return UsageError
		default:
			return GeneralError
		}
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}
	if strings.Contains(errMsg, "network") || strings.Contains(errMsg, "connection") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
