// Package handler implements the HTTP endpoints of the action server.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/advisor/internal/domain"
	"github.com/dukerupert/advisor/internal/middleware"
)

// ErrorResponse writes err as a JSON body with the status for its domain code.
// Internal details are logged, never written to the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := middleware.ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	writeJSON(w, r, status, map[string]string{
		"error": domain.ErrorMessage(err),
		"code":  code,
	})
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		middleware.GetLogger(r.Context()).Warn("failed to encode response", "error", err)
	}
}
