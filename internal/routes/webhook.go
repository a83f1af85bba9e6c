package routes

import (
	"net/http"

	"github.com/dukerupert/advisor/internal/middleware"
	"github.com/dukerupert/advisor/internal/router"
)

// RegisterActionServerRoutes registers the routes called by the dialogue manager
// together with the operational endpoints.
//
// Note: the webhook has no authentication middleware. The action server is
// expected to be reachable only from the dialogue manager's network.
func RegisterActionServerRoutes(r *router.Router, deps ActionServerDeps) {
	var turn []router.Middleware
	if deps.RateLimiter != nil {
		turn = append(turn, deps.RateLimiter.Middleware)
	}
	maxBody := deps.MaxBodySize
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodySize
	}
	turn = append(turn,
		middleware.MaxBodySize(maxBody),
		middleware.Timeout(deps.RequestTimeout),
	)

	turns := r.Group(turn...)
	turns.Post("/webhook", deps.Handler.Webhook)

	r.Get("/health", deps.Handler.Health)
	r.Get("/actions", deps.Handler.Actions)

	if deps.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", deps.Metrics)
	}
}
