// Package domain defines the core domain models for ScreenMesh.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
//
// Codes have the form SM-<AREA>-<NNNN>. The numeric part follows HTTP
// status conventions (4xxx caller/peer fault, 5xxx local fault).
type DomainError struct {
	Code    string // Error code (e.g., "SM-NET-5030")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
// Two DomainErrors match when their codes are equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Transport Errors (NET)
// ============================================================================

var (
	// ErrSendFailed indicates a datagram could not be written to a peer.
	ErrSendFailed = NewDomainError("SM-NET-5030", "send to peer failed")

	// ErrBroadcastFailed indicates at least one route of a fan-out failed.
	ErrBroadcastFailed = NewDomainError("SM-NET-5031", "broadcast failed")

	// ErrReceiveFailed indicates the transport could not read or decode a datagram.
	ErrReceiveFailed = NewDomainError("SM-NET-5032", "receive failed")

	// ErrMessageTooLarge indicates an encoded message exceeds the datagram limit.
	ErrMessageTooLarge = NewDomainError("SM-NET-4130", "message too large")

	// ErrTransportClosed indicates the transport has been shut down.
	ErrTransportClosed = NewDomainError("SM-NET-5000", "transport closed")
)

// ============================================================================
// Host Adapter Errors (HOST)
// ============================================================================

var (
	// ErrHostGeometry indicates the host could not report screen geometry.
	ErrHostGeometry = NewDomainError("SM-HOST-5000", "host geometry unavailable")

	// ErrHostInject indicates an event could not be injected locally.
	ErrHostInject = NewDomainError("SM-HOST-5001", "host injection failed")

	// ErrHostCursor indicates the cursor could not be suppressed or restored.
	ErrHostCursor = NewDomainError("SM-HOST-5002", "host cursor control failed")

	// ErrHostNotReady indicates the host adapter exposes no readiness source.
	ErrHostNotReady = NewDomainError("SM-HOST-5030", "host adapter not registered")
)

// ============================================================================
// Protocol Errors (PROTO)
// ============================================================================

var (
	// ErrUnknownKind indicates a message carries an unrecognised kind tag.
	ErrUnknownKind = NewDomainError("SM-PROTO-4000", "unknown message kind")

	// ErrMalformedMessage indicates a message is missing its payload.
	ErrMalformedMessage = NewDomainError("SM-PROTO-4001", "malformed message")

	// ErrUnexpectedMessage indicates a message arrived on a channel that
	// does not accept it.
	ErrUnexpectedMessage = NewDomainError("SM-PROTO-4050", "unexpected message for channel")

	// ErrUnknownScreen indicates a message referenced a screen id that is
	// not part of the cluster.
	ErrUnknownScreen = NewDomainError("SM-PROTO-4040", "unknown screen")

	// ErrInvalidScreen indicates a screen description is unusable.
	ErrInvalidScreen = NewDomainError("SM-PROTO-4002", "invalid screen")
)

// ============================================================================
// Invariant Errors (INV)
// ============================================================================

var (
	// ErrNoFocus indicates the engine asked for the focused screen while
	// no screen owns input. This is always a programming error.
	ErrNoFocus = NewDomainError("SM-INV-5000", "no focused screen")

	// ErrLocalScreenRemoval indicates an attempt to drop the local screen.
	ErrLocalScreenRemoval = NewDomainError("SM-INV-4090", "local screen cannot be removed")
)

// ============================================================================
// Admin Channel Errors (ADMIN)
// ============================================================================

var (
	// ErrAdminUnavailable indicates no admin channel is attached.
	ErrAdminUnavailable = NewDomainError("SM-ADMIN-5030", "admin channel unavailable")

	// ErrAdminRateLimited indicates an admin client sent too many requests.
	ErrAdminRateLimited = NewDomainError("SM-ADMIN-4290", "too many admin requests")

	// ErrAdminClientGone indicates the requesting admin client disconnected.
	ErrAdminClientGone = NewDomainError("SM-ADMIN-4100", "admin client disconnected")
)

// ============================================================================
// Configuration Errors (CONF)
// ============================================================================

var (
	// ErrInvalidConfig indicates configuration failed validation.
	ErrInvalidConfig = NewDomainError("SM-CONF-4000", "invalid configuration")
)
