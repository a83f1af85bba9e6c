package action

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/advisor/internal/catalog"
	"github.com/dukerupert/advisor/internal/domain"
	"github.com/dukerupert/advisor/internal/middleware"
	"github.com/dukerupert/advisor/internal/telemetry"
)

// PromptSemester asks for the semester when the slot is empty.
const PromptSemester = "Please tell me which semester you are planning for."

// StudyPlanAction lists the recommended courses for a semester.
type StudyPlanAction struct {
	catalog CourseCatalog
	metrics *telemetry.ActionMetrics
	logger  *slog.Logger
}

func NewStudyPlanAction(c CourseCatalog, metrics *telemetry.ActionMetrics, logger *slog.Logger) *StudyPlanAction {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyPlanAction{catalog: c, metrics: metrics, logger: logger}
}

func (a *StudyPlanAction) Name() string {
	return NameStudyPlan
}

func (a *StudyPlanAction) Run(ctx context.Context, d *Dispatcher, tracker *domain.Tracker) ([]domain.Event, error) {
	logger := middleware.GetLogger(ctx, a.logger).With("action", a.Name())
	events := []domain.Event{domain.SlotSet(domain.SlotSemester, nil)}

	semester := tracker.SlotString(domain.SlotSemester)
	if semester == "" {
		d.Utter(PromptSemester)
		return events, nil
	}

	courses := catalog.BySemester(loadCourses(ctx, a.catalog, a.metrics, logger), semester)
	if len(courses) == 0 {
		logger.Info("study plan: no courses", "semester", semester)
		d.Utter(fmt.Sprintf("I don't have a standard study plan loaded for Semester %s yet.", semester))
		return events, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are the recommended courses for Semester %s:", semester)
	for _, c := range courses {
		fmt.Fprintf(&b, "\n- %s: %s", c.CourseCode, c.CourseName)
	}
	d.Utter(b.String())
	return events, nil
}
