// Package domain defines the core domain models for ScreenMesh.
package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("SM-TEST-1000", "test message"),
			expected: "[SM-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("SM-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[SM-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	err1 := NewDomainError("SM-TEST-1000", "message 1")
	err2 := NewDomainError("SM-TEST-1000", "message 2") // Same code, different message
	err3 := NewDomainError("SM-TEST-1001", "message 1") // Different code

	// Same code should match
	if !errors.Is(err1, err2) {
		t.Error("errors.Is should return true for same error code")
	}

	// Different code should not match
	if errors.Is(err1, err3) {
		t.Error("errors.Is should return false for different error code")
	}

	// Should not match non-DomainError
	if errors.Is(err1, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying cause")
	err := NewDomainError("SM-TEST-1000", "wrapper").WithCause(cause)

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Without cause
	errNoCause := NewDomainError("SM-TEST-1000", "no cause")
	if errors.Unwrap(errNoCause) != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestDomainError_WithDetails(t *testing.T) {
	original := NewDomainError("SM-TEST-1000", "original message")
	withDetails := original.WithDetails("additional details")

	// Check original is unchanged
	if original.Details != "" {
		t.Error("WithDetails should not modify original error")
	}

	// Check new error has details
	if withDetails.Details != "additional details" {
		t.Errorf("Details = %q, want %q", withDetails.Details, "additional details")
	}

	// Check code and message are preserved
	if withDetails.Code != original.Code {
		t.Errorf("Code = %q, want %q", withDetails.Code, original.Code)
	}
	if withDetails.Message != original.Message {
		t.Errorf("Message = %q, want %q", withDetails.Message, original.Message)
	}
}

func TestDomainError_WithCause(t *testing.T) {
	original := NewDomainError("SM-TEST-1000", "original message")
	cause := fmt.Errorf("root cause")
	withCause := original.WithCause(cause)

	// Check original is unchanged
	if original.Cause != nil {
		t.Error("WithCause should not modify original error")
	}

	// Check new error has cause
	if withCause.Cause != cause {
		t.Errorf("Cause = %v, want %v", withCause.Cause, cause)
	}

	// Check code and message are preserved
	if withCause.Code != original.Code {
		t.Errorf("Code = %q, want %q", withCause.Code, original.Code)
	}
}

func TestDomainError_Wrap(t *testing.T) {
	original := NewDomainError("SM-TEST-1000", "original")
	cause := fmt.Errorf("cause")
	wrapped := original.Wrap(cause)

	if wrapped.Cause != cause {
		t.Errorf("Wrap() should set cause, got %v", wrapped.Cause)
	}
}

func TestDomainError_ErrorIncludesCause(t *testing.T) {
	err := ErrSendFailed.WithDetails("10.0.0.2:24800").WithCause(fmt.Errorf("connection refused"))

	want := "[SM-NET-5030] send to peer failed: 10.0.0.2:24800: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsDomainError(t *testing.T) {
	err := ErrUnknownScreen

	if !IsDomainError(err, "SM-PROTO-4040") {
		t.Error("IsDomainError should return true for matching code")
	}

	if IsDomainError(err, "SM-PROTO-9999") {
		t.Error("IsDomainError should return false for non-matching code")
	}

	if IsDomainError(fmt.Errorf("regular error"), "SM-PROTO-4040") {
		t.Error("IsDomainError should return false for non-DomainError")
	}

	if !IsDomainError(err, "") {
		t.Error("IsDomainError with empty code should match any DomainError")
	}

	wrapped := fmt.Errorf("wrapped: %w", ErrUnknownScreen)
	if !IsDomainError(wrapped, "SM-PROTO-4040") {
		t.Error("IsDomainError should work with wrapped errors")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "domain error",
			err:      ErrBroadcastFailed,
			expected: "SM-NET-5031",
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("wrapped: %w", ErrHostInject),
			expected: "SM-HOST-5001",
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("regular error"),
			expected: "",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrSendFailed, "SM-NET-5030"},
		{ErrBroadcastFailed, "SM-NET-5031"},
		{ErrReceiveFailed, "SM-NET-5032"},
		{ErrMessageTooLarge, "SM-NET-4130"},
		{ErrTransportClosed, "SM-NET-5000"},

		{ErrHostGeometry, "SM-HOST-5000"},
		{ErrHostInject, "SM-HOST-5001"},
		{ErrHostCursor, "SM-HOST-5002"},
		{ErrHostNotReady, "SM-HOST-5030"},

		{ErrUnknownKind, "SM-PROTO-4000"},
		{ErrMalformedMessage, "SM-PROTO-4001"},
		{ErrInvalidScreen, "SM-PROTO-4002"},
		{ErrUnknownScreen, "SM-PROTO-4040"},
		{ErrUnexpectedMessage, "SM-PROTO-4050"},

		{ErrNoFocus, "SM-INV-5000"},
		{ErrLocalScreenRemoval, "SM-INV-4090"},

		{ErrAdminUnavailable, "SM-ADMIN-5030"},
		{ErrAdminRateLimited, "SM-ADMIN-4290"},
		{ErrAdminClientGone, "SM-ADMIN-4100"},

		{ErrInvalidConfig, "SM-CONF-4000"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Error code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Error message should not be empty")
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := ErrUnknownScreen.
		WithDetails("screen_id: 10.0.0.9:24800").
		WithCause(cause)

	if err.Code != "SM-PROTO-4040" {
		t.Errorf("Code = %q, want %q", err.Code, "SM-PROTO-4040")
	}
	if err.Details != "screen_id: 10.0.0.9:24800" {
		t.Errorf("Details = %q", err.Details)
	}
	if err.Cause != cause {
		t.Error("Cause should be preserved")
	}

	if !errors.Is(err, ErrUnknownScreen) {
		t.Error("errors.Is should work after chaining")
	}
}
