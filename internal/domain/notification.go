package domain

import (
	"log/slog"
	"strings"
)

// NotificationRequest is built from slot state for one turn and is not
// modified while the message is being sent.
type NotificationRequest struct {
	RecipientEmail   string `validate:"required"`
	CourseCode       string `validate:"required"`
	NotificationKind string // optional, e.g. "registration" or "deadlines"
}

// Notification kinds recognised in metrics and events.
const (
	NotificationRegistration = "registration"
	NotificationDeadlines    = "deadlines"
	NotificationOther        = "other"
)

// NormalizeNotificationKind maps the free-text notification_type slot onto
// the fixed set of kinds. An empty slot means the registration notice.
func NormalizeNotificationKind(kind string) string {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case "", NotificationRegistration:
		return NotificationRegistration
	case NotificationDeadlines:
		return NotificationDeadlines
	default:
		return NotificationOther
	}
}

// TransportCredential authenticates the mail relay session.
// It is loaded once at startup and is read-only afterwards.
type TransportCredential struct {
	SenderAddress string `validate:"required"`
	Secret        string `validate:"required"`
}

// String never includes the secret.
func (c TransportCredential) String() string {
	return c.SenderAddress + ":[REDACTED]"
}

// LogValue keeps the secret out of structured logs.
func (c TransportCredential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("sender", c.SenderAddress),
		slog.Bool("secret_set", c.Secret != ""),
	)
}
