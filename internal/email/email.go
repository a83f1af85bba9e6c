// Package email renders course notifications and delivers them over SMTP.
package email

import "context"

//go:generate mockgen -source=email.go -destination=mock_sender.go -package=email Sender

// Email represents an email message to be sent.
type Email struct {
	To       []string // Recipient email addresses
	From     string   // Sender address; defaults to the transport credential
	FromName string   // Optional sender display name
	Subject  string   // Email subject
	TextBody string   // Plain text body
}

// Sender delivers a single message.
// Implementations never return transport faults as errors; every failure is
// reported through the Outcome so callers must handle both branches.
type Sender interface {
	Send(ctx context.Context, email *Email) Outcome
}

// Status is the result tag of a send attempt.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Failure reasons reported in Outcome.Reason.
const (
	ReasonTimeout        = "timeout"
	ReasonInvalidAddress = "invalid_address"
	ReasonConnection     = "connection"
	ReasonRelay          = "relay_error"
	ReasonRender         = "render_error"
	ReasonNotConfigured  = "not_configured"
)

// Outcome is the tagged result of one send attempt: Sent or Failed(reason).
type Outcome struct {
	Status Status
	Reason string // empty when sent
	Err    error  // underlying cause, for logging only
}

// Sent reports a delivered message.
func Sent() Outcome {
	return Outcome{Status: StatusSent}
}

// Failed reports an undelivered message.
func Failed(reason string, err error) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason, Err: err}
}

// OK reports whether the message was sent.
func (o Outcome) OK() bool {
	return o.Status == StatusSent
}
