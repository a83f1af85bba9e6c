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

// courseAliases map shorthand a student may type to a fragment of the course name.
var courseAliases = map[string]string{
	"ai": "artificial intelligence",
}

// CourseInfoAction describes a single course from the catalog.
type CourseInfoAction struct {
	catalog CourseCatalog
	metrics *telemetry.ActionMetrics
	logger  *slog.Logger
}

func NewCourseInfoAction(c CourseCatalog, metrics *telemetry.ActionMetrics, logger *slog.Logger) *CourseInfoAction {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseInfoAction{catalog: c, metrics: metrics, logger: logger}
}

func (a *CourseInfoAction) Name() string {
	return NameCourseInfo
}

func (a *CourseInfoAction) Run(ctx context.Context, d *Dispatcher, tracker *domain.Tracker) ([]domain.Event, error) {
	logger := middleware.GetLogger(ctx, a.logger).With("action", a.Name())
	events := []domain.Event{domain.SlotSet(domain.SlotCourseCode, nil)}

	input := tracker.SlotString(domain.SlotCourseCode)
	if input == "" {
		d.Utter(PromptCourseCode)
		return events, nil
	}

	courses := loadCourses(ctx, a.catalog, a.metrics, logger)

	course, ok := catalog.FindByCode(courses, input)
	if !ok {
		if fragment, isAlias := courseAliases[strings.ToLower(input)]; isAlias {
			course, ok = catalog.FindByName(courses, fragment)
		}
	}
	if !ok {
		logger.Info("course info: not found", "course_code", input)
		d.Utter(fmt.Sprintf("I couldn't find details for course code %s in the repository.", input))
		return events, nil
	}

	d.Utter(formatCourse(course))
	return events, nil
}

func formatCourse(c domain.CourseRecord) string {
	prereqs := "None"
	if len(c.Prerequisites) > 0 {
		prereqs = strings.Join(c.Prerequisites, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s - %s**\n", c.CourseCode, c.CourseName)
	fmt.Fprintf(&b, "- Faculty: %s\n", c.Faculty)
	fmt.Fprintf(&b, "- Credits: %d\n", c.Credits)
	fmt.Fprintf(&b, "- Prerequisites: %s\n", prereqs)
	fmt.Fprintf(&b, "- Available Sections: %s\n", strings.Join(c.Sections, ", "))
	fmt.Fprintf(&b, "- Category: %s", capitalize(c.Category))
	return b.String()
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

// loadCourses treats an unavailable catalog as empty.
func loadCourses(ctx context.Context, c CourseCatalog, metrics *telemetry.ActionMetrics, logger *slog.Logger) []domain.CourseRecord {
	courses, err := c.LoadCourses(ctx)
	if err != nil {
		metrics.CatalogLoadErrors.Inc()
		logger.Error("catalog unavailable, continuing with no courses",
			"code", domain.ErrorCode(err),
			"error", err,
		)
		telemetry.CaptureError(err)
		return nil
	}
	return courses
}
