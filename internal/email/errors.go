package email

import (
	"context"
	"errors"
	"net"
)

// ============================================================================
// EMAIL ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.

const (
	codeInvalid   = "invalid"
	codeConfig    = "configuration"
	codeTransport = "transport"
)

// ============================================================================
// EMAIL ERROR TYPE
// ============================================================================

// EmailError represents an email-specific error with a code and message.
type EmailError struct {
	Code    string
	Message string
}

func (e *EmailError) Error() string {
	return e.Message
}

// ErrorCode returns the error code.
func (e *EmailError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the message.
func (e *EmailError) ErrorMessage() string {
	return e.Message
}

func newEmailError(code, message string) *EmailError {
	return &EmailError{Code: code, Message: message}
}

// ============================================================================
// EMAIL DOMAIN ERRORS
// ============================================================================

var (
	// ErrInvalidFromAddress is returned when the from address is invalid.
	ErrInvalidFromAddress = newEmailError(codeInvalid, "Invalid from email address")

	// ErrInvalidToAddress is returned when the to address is invalid.
	ErrInvalidToAddress = newEmailError(codeInvalid, "Invalid to email address")

	// ErrNoRecipients is returned when a message has no recipients.
	ErrNoRecipients = newEmailError(codeInvalid, "Email has no recipients")

	// ErrMissingCredential is returned when the relay host or credential is unset.
	ErrMissingCredential = newEmailError(codeConfig, "SMTP credential not configured")

	// ErrRelay wraps faults reported by the relay session.
	ErrRelay = newEmailError(codeTransport, "SMTP relay session failed")
)

// failureReason classifies a transport error into an Outcome reason.
func failureReason(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	if errors.Is(err, ErrInvalidFromAddress) || errors.Is(err, ErrInvalidToAddress) || errors.Is(err, ErrNoRecipients) {
		return ReasonInvalidAddress
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ReasonConnection
	}
	return ReasonRelay
}
