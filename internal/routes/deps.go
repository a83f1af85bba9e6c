package routes

import (
	"net/http"
	"time"

	"github.com/dukerupert/advisor/internal/handler"
	"github.com/dukerupert/advisor/internal/middleware"
)

// ActionServerDeps contains dependencies for the action-server routes
type ActionServerDeps struct {
	Handler *handler.WebhookHandler

	// Metrics serves the Prometheus exposition format
	Metrics http.Handler

	// RateLimiter throttles webhook turns per client; nil disables it
	RateLimiter *middleware.RateLimiter

	// MaxBodySize caps the webhook body; zero uses middleware.DefaultMaxBodySize
	MaxBodySize int64

	// RequestTimeout bounds one turn, including its SMTP session
	RequestTimeout time.Duration
}
