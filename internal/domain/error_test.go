package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "invalid input"},
			expected: "invalid input",
		},
		{
			name:     "with operation",
			err:      &Error{Code: EINVALID, Op: "webhook.decode", Message: "invalid input"},
			expected: "webhook.decode: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    ETRANSPORT,
				Op:      "smtp.send",
				Message: "relay rejected message",
				Err:     errors.New("535 authentication failed"),
			},
			expected: "smtp.send: relay rejected message: 535 authentication failed",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    ECATALOG,
				Message: "catalog unreadable",
				Err:     errors.New("permission denied"),
			},
			expected: "catalog unreadable: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{Code: EINTERNAL, Message: "wrapped", Err: underlying}

	if unwrapped := err.Unwrap(); unwrapped != underlying {
		t.Errorf("Error.Unwrap() = %v, want %v", unwrapped, underlying)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", &Error{Code: EMISSING, Message: "test"}, EMISSING},
		{"wrapped domain error", fmt.Errorf("wrapped: %w", &Error{Code: ECONFIG, Message: "test"}), ECONFIG},
		{"non-domain error", errors.New("some error"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"missing input shows prompt", Missing("notification.run", SlotStudentEmail, "Please provide your email address."), "Please provide your email address."},
		{"internal error hides message", &Error{Code: EINTERNAL, Message: "catalog at /srv/courses.json"}, GenericErrorMessage},
		{"transport error hides message", &Error{Code: ETRANSPORT, Message: "dial smtp.gmail.com:465 refused"}, GenericErrorMessage},
		{"catalog error hides message", &Error{Code: ECATALOG, Message: "bad json at offset 12"}, GenericErrorMessage},
		{"non-domain error returns generic message", errors.New("some internal detail"), GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error with op", &Error{Code: EINVALID, Op: "webhook.decode", Message: "test"}, "webhook.decode"},
		{"domain error without op", &Error{Code: EINVALID, Message: "test"}, ""},
		{"non-domain error", errors.New("test"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorOp(tt.err); got != tt.expected {
				t.Errorf("ErrorOp() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(EINVALID, "webhook.decode", "unknown action %q", "action_x")

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatal("Errorf should return *Error")
	}
	if domainErr.Code != EINVALID {
		t.Errorf("Code = %q, want %q", domainErr.Code, EINVALID)
	}
	if domainErr.Message != `unknown action "action_x"` {
		t.Errorf("Message = %q", domainErr.Message)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, EINTERNAL, "op", "msg") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	underlying := errors.New("connection reset")
	err := WrapError(underlying, ETRANSPORT, "smtp.send", "send failed")
	if !IsCode(err, ETRANSPORT) {
		t.Errorf("IsCode(ETRANSPORT) = false for %v", err)
	}
	if !errors.Is(err, underlying) {
		t.Error("wrapped error should unwrap to underlying")
	}
}

func TestConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"NotFound", NotFound("action.lookup", "action", "x"), ENOTFOUND},
		{"Invalid", Invalid("webhook.decode", "bad json"), EINVALID},
		{"Missing", Missing("notification.run", SlotCourseCode, "Please provide the course code."), EMISSING},
		{"Misconfigured", Misconfigured(nil, "notification.run", "not configured"), ECONFIG},
		{"Internal", Internal(errors.New("x"), "op", "failed"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.code {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.code)
			}
		})
	}
}
