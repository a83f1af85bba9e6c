package domain

import (
	"errors"
	"fmt"
)

// Application error codes.
// These map to HTTP status codes on the webhook and decide what a user is told.
const (
	EINVALID   = "invalid"             // 400 - Malformed webhook payload
	ENOTFOUND  = "not_found"           // 404 - Unknown action or course
	EINTERNAL  = "internal"            // 500 - Internal server error (hide details)
	EMISSING   = "missing_input"       // Required slot absent; recovered by reprompting
	ECONFIG    = "configuration"       // Mail credentials or settings unset
	ETRANSPORT = "transport"           // Network, auth, or protocol failure talking to the relay
	ECATALOG   = "catalog_unavailable" // Course catalog file unreadable or malformed
	ETOOLARGE  = "too_large"           // 413 - Webhook body over the size limit
	ERATELIMIT = "rate_limit"          // 429 - Too many turns from one client
)

// Error represents an application error with a code and message.
// It implements the error interface and supports error wrapping.
type Error struct {
	// Code is a machine-readable error code (e.g., EMISSING, ECONFIG).
	Code string

	// Message is a human-readable error message safe to show to users.
	Message string

	// Op is the operation where the error occurred (e.g., "notification.send").
	// Used for debugging and logging, not shown to users.
	Op string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the error code from an error.
// Returns EINTERNAL for non-domain errors and "" for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return EINTERNAL
}

// ErrorMessage extracts a user-facing message from an error.
// Internal, transport and catalog failures return a generic message so that
// relay hostnames, credentials and file paths never reach a conversation.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		switch e.Code {
		case EINTERNAL, ETRANSPORT, ECATALOG:
			return GenericErrorMessage
		}
		return e.Message
	}

	return GenericErrorMessage
}

// GenericErrorMessage is shown in place of any internal detail.
const GenericErrorMessage = "An internal error occurred. Please try again later."

// ErrorOp extracts the operation from an error (for logging).
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}

	return ""
}

// Errorf creates a new domain error with formatted message.
// Example: domain.Errorf(domain.EINVALID, "webhook.decode", "unknown field %q", name)
func Errorf(code, op, format string, args ...interface{}) error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with a domain error code and operation.
// Returns nil if err is nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// IsCode returns true if err has the given error code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// =============================================================================
// Common errors (convenience)
// =============================================================================

// NotFound creates a not found error for a resource.
// Example: domain.NotFound("action.lookup", "action", "action_unknown")
func NotFound(op, resource, identifier string) error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
	}
}

// Invalid creates a validation error for a single issue.
func Invalid(op, message string) error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Missing reports an absent slot. The message is the reprompt shown to the user.
func Missing(op, slot, prompt string) error {
	return &Error{
		Code:    EMISSING,
		Op:      op,
		Message: prompt,
		Err:     fmt.Errorf("slot %s is empty", slot),
	}
}

// Misconfigured creates a configuration error.
// The message is intended for an administrator, not for the student.
func Misconfigured(err error, op, message string) error {
	return &Error{
		Code:    ECONFIG,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Internal creates an internal error (wraps underlying error).
// The message shown to users will be generic; the underlying error is for logging.
func Internal(err error, op, message string) error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
