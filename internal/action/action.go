// Package action implements the named actions invoked by the dialogue manager.
//
// Each action reads slot values from the conversation tracker, replies through
// a Dispatcher and returns the slot events the dialogue manager should apply.
// Faults are converted to conversational replies; an action only returns an
// error for conditions it cannot express to the user.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dukerupert/advisor/internal/domain"
	"github.com/dukerupert/advisor/internal/telemetry"
)

//go:generate mockgen -source=action.go -destination=mock_action.go -package=action

// Action names registered with the dialogue manager.
const (
	NameCourseInfo   = "action_get_course_info"
	NameStudyPlan    = "action_get_study_plan"
	NameNotification = "action_notification_api"
)

// Action is one named unit of conversational behaviour.
type Action interface {
	Name() string
	Run(ctx context.Context, d *Dispatcher, tracker *domain.Tracker) ([]domain.Event, error)
}

// CourseCatalog provides the course records used by informational actions.
type CourseCatalog interface {
	LoadCourses(ctx context.Context) ([]domain.CourseRecord, error)
}

// Dispatcher collects the replies produced during one turn.
type Dispatcher struct {
	responses []domain.Response
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{responses: []domain.Response{}}
}

// Utter queues a text reply.
func (d *Dispatcher) Utter(text string) {
	d.responses = append(d.responses, domain.Response{Text: text})
}

// Responses returns the replies in the order they were queued.
func (d *Dispatcher) Responses() []domain.Response {
	return d.responses
}

// Result is everything a turn hands back to the dialogue manager.
type Result struct {
	Events    []domain.Event    `json:"events"`
	Responses []domain.Response `json:"responses"`
}

// Registry maps action names to actions and runs them.
type Registry struct {
	actions map[string]Action
	metrics *telemetry.ActionMetrics
	logger  *slog.Logger
}

// NewRegistry creates a registry holding the given actions.
func NewRegistry(metrics *telemetry.ActionMetrics, logger *slog.Logger, actions ...Action) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		actions: make(map[string]Action, len(actions)),
		metrics: metrics,
		logger:  logger,
	}
	for _, a := range actions {
		r.Register(a)
	}
	return r
}

// Register adds an action, replacing any action with the same name.
func (r *Registry) Register(a Action) {
	r.actions[a.Name()] = a
}

// Names returns the registered action names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named action for one turn.
// An unregistered name returns an ENOTFOUND error.
func (r *Registry) Run(ctx context.Context, name string, tracker *domain.Tracker) (*Result, error) {
	const op = "action.Registry.Run"

	a, ok := r.actions[name]
	if !ok {
		r.metrics.ActionsTotal.WithLabelValues(telemetry.UnknownActionLabel, telemetry.ResultUnknown).Inc()
		return nil, domain.NotFound(op, "action", name)
	}

	if tracker == nil {
		tracker = &domain.Tracker{}
	}

	telemetry.AddBreadcrumb("action", name, map[string]interface{}{"sender_id": tracker.SenderID})

	start := time.Now()
	d := NewDispatcher()
	events, err := safeRun(ctx, a, d, tracker)
	r.metrics.ActionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		r.metrics.ActionsTotal.WithLabelValues(name, telemetry.ResultError).Inc()
		r.logger.Error("action failed", "action", name, "error", err)
		if domain.ErrorCode(err) == domain.EINTERNAL {
			return nil, domain.Internal(err, op, "action "+name+" failed")
		}
		return nil, err
	}
	r.metrics.ActionsTotal.WithLabelValues(name, telemetry.ResultOK).Inc()

	if events == nil {
		events = []domain.Event{}
	}
	return &Result{Events: events, Responses: d.Responses()}, nil
}

// safeRun converts a panic in an action into an error so one faulty turn
// cannot take the server down.
func safeRun(ctx context.Context, a Action, d *Dispatcher, tracker *domain.Tracker) (events []domain.Event, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("action %s panicked: %v", a.Name(), p)
			telemetry.CaptureErrorFromContext(ctx, err, a.Name(), nil)
		}
	}()
	return a.Run(ctx, d, tracker)
}
