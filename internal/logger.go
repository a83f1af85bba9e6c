package internal

import (
	"io"
	"log/slog"
	"time"
)

// ServiceName is attached to every log line.
const ServiceName = "course-advisor"

// redactedKeys never reach a log sink with their value.
var redactedKeys = map[string]bool{
	"password":      true,
	"secret":        true,
	"mail_password": true,
}

// NewLogger builds the process logger: JSON in prod, text elsewhere.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	var h slog.Handler

	var l = new(slog.LevelVar) // Info by default
	switch level {
	case "info", "":
	case "debug":
		l.Set(slog.LevelDebug)
	case "warn":
		l.Set(slog.LevelWarn)
	case "error":
		l.Set(slog.LevelError)
	default:
		slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
	}

	switch env {
	case "prod":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: l,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String("time", a.Value.Time().Format(time.RFC3339Nano))
				}
				return redact(a)
			},
		})
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: l,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				return redact(a)
			},
		})
	}

	return slog.New(h).With(slog.String("service", ServiceName))
}

func redact(a slog.Attr) slog.Attr {
	if redactedKeys[a.Key] {
		return slog.String(a.Key, "[REDACTED]")
	}
	return a
}
