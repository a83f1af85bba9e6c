package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/dukerupert/advisor/internal/domain"
	"github.com/wneessen/go-mail"
)

const (
	// DefaultHost is the submission relay used when none is configured.
	DefaultHost = "smtp.gmail.com"

	// DefaultPort is the implicit-TLS (SMTPS) submission port.
	DefaultPort = 465

	// DefaultTimeout bounds connect, handshake and every read/write on the session.
	DefaultTimeout = 10 * time.Second
)

// SMTPConfig holds SMTP connection parameters.
type SMTPConfig struct {
	Host       string
	Port       int
	Credential domain.TransportCredential
	FromName   string // optional sender display name
	Timeout    time.Duration

	// TLSConfig overrides the handshake settings; nil verifies Host against system roots.
	TLSConfig *tls.Config
}

// SMTPSender implements Sender using go-mail.
// Every session is TLS from the first byte (no STARTTLS upgrade), authenticates
// with SMTP AUTH PLAIN and carries exactly one message. There are no retries.
type SMTPSender struct {
	config *SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates an SMTP sender from a config struct.
// The config is read-only after construction.
func NewSMTPSender(config *SMTPConfig, logger *slog.Logger) *SMTPSender {
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// Send transmits one message. All faults are converted to a Failed outcome.
func (s *SMTPSender) Send(ctx context.Context, email *Email) Outcome {
	s.logger.Debug("smtp: preparing email",
		"to", email.To,
		"subject", email.Subject,
		"host", s.config.Host,
		"port", s.config.Port,
	)

	if s.config.Credential.SenderAddress == "" || s.config.Credential.Secret == "" {
		s.logger.Error("smtp: credential not configured")
		return Failed(ReasonNotConfigured, ErrMissingCredential)
	}

	msg, err := s.buildMessage(email)
	if err != nil {
		s.logger.Error("smtp: failed to build message", "error", err)
		return Failed(failureReason(err), err)
	}

	// go-mail leaves the socket open when the greeting, EHLO or AUTH fails,
	// so the connection is tracked here and always closed on return.
	var conn net.Conn
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		d := &tls.Dialer{NetDialer: &net.Dialer{}, Config: s.tlsConfig()}
		c, err := d.DialContext(ctx, network, address)
		if err != nil {
			return nil, err
		}
		conn = c
		return c, nil
	}
	defer func() {
		if conn != nil {
			_ = conn.Close()
		}
	}()

	client, err := mail.NewClient(s.config.Host, append(s.buildClientOptions(), mail.WithDialContextFunc(dial))...)
	if err != nil {
		s.logger.Error("smtp: failed to create client", "error", err)
		return Failed(ReasonRelay, fmt.Errorf("%w: %w", ErrRelay, err))
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		reason := failureReason(err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		s.logger.Error("smtp: failed to send email",
			"reason", reason,
			"host", s.config.Host,
			"error", err,
		)
		return Failed(reason, fmt.Errorf("%w: %w", ErrRelay, err))
	}

	s.logger.Info("smtp: email sent", "subject", email.Subject)
	return Sent()
}

// buildMessage assembles headers and a text/plain body.
func (s *SMTPSender) buildMessage(email *Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	from := email.From
	if from == "" {
		from = s.config.Credential.SenderAddress
	}
	fromName := email.FromName
	if fromName == "" {
		fromName = s.config.FromName
	}
	if fromName != "" {
		if err := msg.FromFormat(fromName, from); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFromAddress, err)
		}
	} else if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFromAddress, err)
	}

	if len(email.To) == 0 {
		return nil, ErrNoRecipients
	}
	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToAddress, err)
	}

	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.TextBody)

	return msg, nil
}

// tlsConfig returns the handshake settings for the relay session.
func (s *SMTPSender) tlsConfig() *tls.Config {
	if s.config.TLSConfig != nil {
		return s.config.TLSConfig
	}
	return &tls.Config{ServerName: s.config.Host, MinVersion: tls.VersionTLS12}
}

// buildClientOptions returns go-mail client options for an implicit-TLS session.
func (s *SMTPSender) buildClientOptions() []mail.Option {
	return []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithSSL(),
		mail.WithTimeout(s.config.Timeout),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.config.Credential.SenderAddress),
		mail.WithPassword(s.config.Credential.Secret),
	}
}
