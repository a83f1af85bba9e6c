package email

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/dukerupert/advisor/internal/domain"
)

// TimetableTBA is used for course codes without a published timetable.
const TimetableTBA = "To be announced"

// DefaultSignature closes every notification body.
const DefaultSignature = "UTM Course Advisor"

// EmailTemplate is the data for one named body template.
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// RenderedMessage is the subject and plain-text body of a notification.
type RenderedMessage struct {
	Subject string
	Body    string
}

// TimetableEntry is the published schedule for one course.
type TimetableEntry struct {
	Timetable     string
	Prerequisites []string
}

// DefaultTimetables returns the built-in timetable table, keyed by normalized course code.
func DefaultTimetables() map[string]TimetableEntry {
	return map[string]TimetableEntry{
		"MECS0033": {
			Timetable: "Section 01: Monday 08:00-10:00 (N28 BK1)\n" +
				"Section 01: Wednesday 08:00-10:00 (N28 Lab 2)",
		},
		"MECS1033": {
			Timetable: "Section 01: Tuesday 10:00-13:00 (N28a BK7)\n" +
				"Section 02: Thursday 14:00-17:00 (N28a BK7)",
			Prerequisites: []string{"MECS0033"},
		},
	}
}

// CourseRegistrationEmail represents a course registration confirmation
type CourseRegistrationEmail struct {
	CourseCode    string
	Recipient     string
	Timetable     string
	Prerequisites []string
	Signature     string
}

func (e CourseRegistrationEmail) Subject() string {
	return fmt.Sprintf("Course Registration For %s and Timetable", e.CourseCode)
}

func (e CourseRegistrationEmail) TemplateName() string {
	return "course_registration"
}

const courseRegistrationBody = `Dear {{.Recipient}},

Thank you for your interest in {{.CourseCode}}. Please find the timetable below.

Timetable:
{{.Timetable}}
{{- if .Prerequisites}}

Prerequisites: {{join .Prerequisites ", "}}
{{- end}}

Best regards,
{{.Signature}}
`

// Renderer builds notification content from a static timetable table.
// Render does no I/O and is deterministic for identical inputs.
type Renderer struct {
	timetables map[string]TimetableEntry
	signature  string
	tmpl       *template.Template
}

// NewRenderer creates a renderer. Table keys are normalized on the way in;
// a nil table uses DefaultTimetables.
func NewRenderer(timetables map[string]TimetableEntry, signature string) *Renderer {
	if timetables == nil {
		timetables = DefaultTimetables()
	}
	if signature == "" {
		signature = DefaultSignature
	}

	normalized := make(map[string]TimetableEntry, len(timetables))
	for code, entry := range timetables {
		normalized[domain.NormalizeCourseCode(code)] = entry
	}

	tmpl := template.Must(template.New("course_registration").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(courseRegistrationBody))

	return &Renderer{
		timetables: normalized,
		signature:  signature,
		tmpl:       tmpl,
	}
}

// Lookup returns the timetable entry for a course code.
// Unknown codes yield TimetableTBA with no prerequisites.
func (r *Renderer) Lookup(courseCode string) TimetableEntry {
	if entry, ok := r.timetables[domain.NormalizeCourseCode(courseCode)]; ok {
		return entry
	}
	return TimetableEntry{Timetable: TimetableTBA}
}

// Render builds the subject and body for a course registration notification.
func (r *Renderer) Render(courseCode, recipient string) (RenderedMessage, error) {
	entry := r.Lookup(courseCode)
	data := CourseRegistrationEmail{
		CourseCode:    courseCode,
		Recipient:     recipient,
		Timetable:     entry.Timetable,
		Prerequisites: entry.Prerequisites,
		Signature:     r.signature,
	}

	return r.execute(data)
}

// execute runs the body template named by t.
func (r *Renderer) execute(t EmailTemplate) (RenderedMessage, error) {
	var body strings.Builder
	if err := r.tmpl.ExecuteTemplate(&body, t.TemplateName(), t); err != nil {
		return RenderedMessage{}, fmt.Errorf("failed to execute template %s: %w", t.TemplateName(), err)
	}

	return RenderedMessage{
		Subject: t.Subject(),
		Body:    body.String(),
	}, nil
}
