// Package events publishes notification outcomes for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "advisor.notifications"

// NotificationEvent describes one completed notification attempt.
// It never carries the recipient address or the transport credential.
type NotificationEvent struct {
	Action           string    `json:"action"`
	CourseCode       string    `json:"course_code"`
	NotificationKind string    `json:"notification_kind,omitempty"`
	Status           string    `json:"status"`
	Reason           string    `json:"reason,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Publisher delivers notification events.
type Publisher interface {
	Publish(ctx context.Context, event NotificationEvent) error
	Close() error
}

// NoopPublisher discards every event. It is used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, NotificationEvent) error { return nil }
func (NoopPublisher) Close() error                                    { return nil }

// NATSPublisher publishes events as JSON on a single subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewNATSPublisher connects to url. The connection reconnects on its own
// after the initial connect succeeds.
func NewNATSPublisher(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(url,
		nats.Name("course-advisor"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats: disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats: reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	logger.Info("nats: publisher connected", "subject", subject)

	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}, nil
}

// Publish encodes the event and hands it to the connection's write buffer.
func (p *NATSPublisher) Publish(ctx context.Context, event NotificationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode notification event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}
	return nil
}

// Close flushes pending events and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
