package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dukerupert/advisor/internal/action"
	"github.com/dukerupert/advisor/internal/domain"
	"github.com/dukerupert/advisor/internal/middleware"
	"github.com/dukerupert/advisor/internal/telemetry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T, actions ...action.Action) *WebhookHandler {
	t.Helper()
	metrics := telemetry.NewActionMetrics("test", prometheus.NewRegistry())
	return NewWebhookHandler(action.NewRegistry(metrics, quietLogger(), actions...), quietLogger())
}

func echoAction(ctrl *gomock.Controller) *action.MockAction {
	a := action.NewMockAction(ctrl)
	a.EXPECT().Name().Return("action_echo").AnyTimes()
	a.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *action.Dispatcher, tracker *domain.Tracker) ([]domain.Event, error) {
			d.Utter("hello " + tracker.SenderID + " " + tracker.SlotString(domain.SlotCourseCode))
			return []domain.Event{domain.SlotSet(domain.SlotCourseCode, nil)}, nil
		}).
		AnyTimes()
	return a
}

func postWebhook(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.Webhook(rec, req)
	return rec
}

func TestWebhook_Success(t *testing.T) {
	h := newTestHandler(t, echoAction(gomock.NewController(t)))

	rec := postWebhook(h, `{
		"next_action": "action_echo",
		"sender_id": "student-1",
		"tracker": {"sender_id": "student-1", "slots": {"course_code": "MECS0033"}},
		"version": "3.6.0"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res struct {
		Events    []map[string]any    `json:"events"`
		Responses []map[string]string `json:"responses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	require.Len(t, res.Responses, 1)
	assert.Equal(t, "hello student-1 MECS0033", res.Responses[0]["text"])
	require.Len(t, res.Events, 1)
	assert.Equal(t, "slot", res.Events[0]["event"])
	assert.Equal(t, domain.SlotCourseCode, res.Events[0]["name"])
	assert.Nil(t, res.Events[0]["value"])
	assert.Contains(t, rec.Body.String(), `"value":null`)
}

func TestWebhook_SenderIDFillsTracker(t *testing.T) {
	h := newTestHandler(t, echoAction(gomock.NewController(t)))

	rec := postWebhook(h, `{"next_action": "action_echo", "sender_id": "student-9"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello student-9")
}

func TestWebhook_Rejections(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{"malformed json", `{"next_action":`, http.StatusBadRequest, domain.EINVALID},
		{"missing next_action", `{"sender_id": "student-1"}`, http.StatusBadRequest, domain.EINVALID},
		{"wrong type", `{"next_action": 7}`, http.StatusBadRequest, domain.EINVALID},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postWebhook(h, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body["code"])
		})
	}
}

func TestWebhook_UnknownAction(t *testing.T) {
	h := newTestHandler(t)

	rec := postWebhook(h, `{"next_action": "action_missing", "sender_id": "student-1"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "action_missing", body["action_name"])
	assert.Equal(t, "No registered action found for name 'action_missing'.", body["error"])
}

func TestWebhook_ActionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := action.NewMockAction(ctrl)
	a.EXPECT().Name().Return("action_broken").AnyTimes()
	a.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("smtp.example.com: boom"))

	rec := postWebhook(newTestHandler(t, a), `{"next_action": "action_broken"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "smtp.example.com")
}

func TestWebhook_BodyTooLarge(t *testing.T) {
	h := newTestHandler(t)
	limited := middleware.MaxBodySize(32)(http.HandlerFunc(h.Webhook))

	body := `{"next_action": "action_echo", "sender_id": "` + strings.Repeat("x", 64) + `"}`
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var res map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, domain.ETOOLARGE, res["code"])
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(t).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestActions(t *testing.T) {
	h := newTestHandler(t, echoAction(gomock.NewController(t)))

	rec := httptest.NewRecorder()
	h.Actions(rec, httptest.NewRequest(http.MethodGet, "/actions", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"action_echo"}]`, rec.Body.String())
}
