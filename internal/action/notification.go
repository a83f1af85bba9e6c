package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/advisor/internal/domain"
	"github.com/dukerupert/advisor/internal/email"
	"github.com/dukerupert/advisor/internal/events"
	"github.com/dukerupert/advisor/internal/middleware"
	"github.com/dukerupert/advisor/internal/telemetry"
)

// Replies of the notification action.
const (
	PromptEmail        = "Please provide your email address."
	PromptCourseCode   = "Please provide the course code."
	MessageNotConfig   = "Email notifications are not configured. Please contact the administrator."
	MessageSendFailed  = "Sorry, I couldn't send the email right now. Please try again later."
	messageSentPattern = "Ok sure. Email will be sent to your %s\nThank you for your responses. Have a good day."
)

// SentMessage is the confirmation shown after the relay accepted the message.
func SentMessage(recipient string) string {
	return fmt.Sprintf(messageSentPattern, recipient)
}

// NotificationAction sends the course registration email for the current
// conversation. A turn moves from awaiting input to sending to done; slots
// are only cleared once the relay has accepted the message.
type NotificationAction struct {
	email      *email.Service
	credential domain.TransportCredential
	publisher  events.Publisher
	metrics    *telemetry.ActionMetrics
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewNotificationAction creates the notification action.
// A nil publisher disables outcome events.
func NewNotificationAction(
	svc *email.Service,
	credential domain.TransportCredential,
	publisher events.Publisher,
	metrics *telemetry.ActionMetrics,
	logger *slog.Logger,
) *NotificationAction {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationAction{
		email:      svc,
		credential: credential,
		publisher:  publisher,
		metrics:    metrics,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

func (a *NotificationAction) Name() string {
	return NameNotification
}

func (a *NotificationAction) Run(ctx context.Context, d *Dispatcher, tracker *domain.Tracker) ([]domain.Event, error) {
	const op = "action.notification"
	logger := middleware.GetLogger(ctx, a.logger).With("action", a.Name())

	req := domain.NotificationRequest{
		RecipientEmail:   tracker.SlotString(domain.SlotStudentEmail),
		CourseCode:       tracker.SlotString(domain.SlotCourseCode),
		NotificationKind: domain.NormalizeNotificationKind(tracker.SlotString(domain.SlotNotificationType)),
	}

	if err := a.checkRequest(ctx, op, req); err != nil {
		if !domain.IsCode(err, domain.EMISSING) {
			return nil, err
		}
		logger.Info("notification: awaiting input", "error", err)
		d.Utter(domain.ErrorMessage(err))
		return nil, nil
	}

	if err := a.validate.StructCtx(ctx, a.credential); err != nil {
		cfgErr := domain.Misconfigured(err, op, MessageNotConfig)
		logger.Error("notification: transport credential not configured",
			"credential", a.credential,
			"error", err,
		)
		telemetry.CaptureErrorFromContext(ctx, cfgErr, a.Name(), nil)
		a.record(ctx, logger, req, email.Failed(email.ReasonNotConfigured, cfgErr))
		d.Utter(domain.ErrorMessage(cfgErr))
		return nil, nil
	}

	logger.Debug("notification: sending", "course_code", req.CourseCode, "recipient", req.RecipientEmail)

	spanCtx, finish := telemetry.StartSpan(ctx, "smtp.send", "course registration notification")
	start := time.Now()
	outcome := a.email.SendCourseRegistration(spanCtx, req.CourseCode, req.RecipientEmail)
	finish()
	a.metrics.SendDuration.WithLabelValues(string(outcome.Status)).Observe(time.Since(start).Seconds())

	a.record(ctx, logger, req, outcome)

	if !outcome.OK() {
		err := domain.WrapError(outcome.Err, domain.ETRANSPORT, op, "notification could not be delivered")
		logger.Error("notification: send failed",
			"course_code", req.CourseCode,
			"reason", outcome.Reason,
			"error", err,
		)
		telemetry.CaptureErrorFromContext(ctx, err, a.Name(), map[string]interface{}{
			"reason":      outcome.Reason,
			"course_code": req.CourseCode,
		})
		d.Utter(MessageSendFailed)
		return nil, nil
	}

	logger.Info("notification: sent", "course_code", req.CourseCode)
	d.Utter(SentMessage(req.RecipientEmail))

	return []domain.Event{
		domain.SlotSet(domain.SlotStudentEmail, nil),
		domain.SlotSet(domain.SlotCourseCode, nil),
		domain.SlotSet(domain.SlotConversationEnded, true),
	}, nil
}

// checkRequest returns an EMISSING error for the first absent slot.
// The recipient is asked for before the course code.
func (a *NotificationAction) checkRequest(ctx context.Context, op string, req domain.NotificationRequest) error {
	err := a.validate.StructCtx(ctx, req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Internal(err, op, "failed to validate notification request")
	}

	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.StructField()] = true
	}

	slot, prompt := domain.SlotCourseCode, PromptCourseCode
	if failed["RecipientEmail"] {
		slot, prompt = domain.SlotStudentEmail, PromptEmail
	}
	a.metrics.NotificationPrompts.WithLabelValues(slot).Inc()
	return domain.Missing(op, slot, prompt)
}

// record counts the outcome and publishes it. Publication failures are logged only.
func (a *NotificationAction) record(ctx context.Context, logger *slog.Logger, req domain.NotificationRequest, outcome email.Outcome) {
	if outcome.OK() {
		a.metrics.NotificationsSent.WithLabelValues(req.NotificationKind).Inc()
	} else {
		a.metrics.NotificationsFailed.WithLabelValues(req.NotificationKind, outcome.Reason).Inc()
	}

	event := events.NotificationEvent{
		Action:           a.Name(),
		CourseCode:       req.CourseCode,
		NotificationKind: req.NotificationKind,
		Status:           string(outcome.Status),
		Reason:           outcome.Reason,
		OccurredAt:       time.Now().UTC(),
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		a.metrics.EventsFailed.WithLabelValues(event.Status).Inc()
		logger.Warn("notification: failed to publish outcome", "status", event.Status, "error", err)
		return
	}
	a.metrics.EventsPublished.WithLabelValues(event.Status).Inc()
}
