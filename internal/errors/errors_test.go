package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTellerError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *TellerError
		want string
	}{
		{
			name: "code and message",
			err:  New(ErrCodeAPIFailure, "deposit failed"),
			want: "[API-001] deposit failed",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeTransport, "GET request failed", fmt.Errorf("connection refused")),
			want: "[NET-001] GET request failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUserMessage(t *testing.T) {
	t.Run("detail wins over fallback", func(t *testing.T) {
		err := NewAPIError("Deposit failed", "Insufficient balance")
		assert.Equal(t, "Insufficient balance", err.UserMessage())
	})

	t.Run("fallback when no detail", func(t *testing.T) {
		err := NewAPIError("Deposit failed", "")
		assert.Equal(t, "Deposit failed", err.UserMessage())
	})

	t.Run("plain error passes through", func(t *testing.T) {
		assert.Equal(t, "boom", UserMessage(fmt.Errorf("boom")))
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, "", UserMessage(nil))
	})

	t.Run("wrapped teller error", func(t *testing.T) {
		inner := NewAPIError("Withdraw failed", "bad pin")
		wrapped := fmt.Errorf("submit: %w", inner)
		assert.Equal(t, "bad pin", UserMessage(wrapped))
	})
}

func TestIsSessionExpired(t *testing.T) {
	require.True(t, IsSessionExpired(NewSessionExpiredError()))
	require.True(t, IsSessionExpired(fmt.Errorf("call: %w", NewSessionExpiredError())))
	require.False(t, IsSessionExpired(NewAPIError("failed", "")))
	require.False(t, IsSessionExpired(fmt.Errorf("plain")))
	require.False(t, IsSessionExpired(nil))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError(ErrCodePinFormat, "PIN must be exactly 4 digits")))
	assert.True(t, IsValidation(NewValidationError(ErrCodePinMismatch, "New PIN and confirmation PIN do not match")))
	assert.False(t, IsValidation(NewSessionExpiredError()))
	assert.False(t, IsValidation(NewTransportError("Login failed", fmt.Errorf("dial tcp"))))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewTransportError("Transfer failed", cause)
	require.ErrorIs(t, err, cause)
}
