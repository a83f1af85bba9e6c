package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/advisor/internal/action"
	"github.com/dukerupert/advisor/internal/domain"
	"github.com/dukerupert/advisor/internal/middleware"
)

// WebhookRequest is one turn posted by the dialogue manager.
type WebhookRequest struct {
	NextAction string          `json:"next_action" validate:"required"`
	SenderID   string          `json:"sender_id"`
	Tracker    *domain.Tracker `json:"tracker"`
	Version    string          `json:"version"`
}

// ActionInfo describes one registered action.
type ActionInfo struct {
	Name string `json:"name"`
}

// WebhookHandler serves the action-server protocol.
type WebhookHandler struct {
	registry *action.Registry
	validate *validator.Validate
	logger   *slog.Logger
}

// NewWebhookHandler creates a handler that dispatches turns to registry.
func NewWebhookHandler(registry *action.Registry, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		registry: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Webhook handles POST /webhook.
func (h *WebhookHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Webhook"

	var req WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, op, "Request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		ErrorResponse(w, r, domain.Invalid(op, "Request body is not valid JSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		ErrorResponse(w, r, domain.Invalid(op, "next_action is required"))
		return
	}

	tracker := req.Tracker
	if tracker == nil {
		tracker = &domain.Tracker{}
	}
	if tracker.SenderID == "" {
		tracker.SenderID = req.SenderID
	}

	logger := middleware.GetLogger(r.Context(), h.logger)
	logger.Debug("running action",
		"action", req.NextAction,
		"sender_id", tracker.SenderID,
		"version", req.Version,
	)

	result, err := h.registry.Run(r.Context(), req.NextAction, tracker)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			logger.Warn("unknown action requested", "action", req.NextAction)
			writeJSON(w, r, http.StatusNotFound, map[string]string{
				"error":       fmt.Sprintf("No registered action found for name '%s'.", req.NextAction),
				"action_name": req.NextAction,
			})
			return
		}
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// Health handles GET /health.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Actions handles GET /actions.
func (h *WebhookHandler) Actions(w http.ResponseWriter, r *http.Request) {
	names := h.registry.Names()
	infos := make([]ActionInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, ActionInfo{Name: name})
	}
	writeJSON(w, r, http.StatusOK, infos)
}
