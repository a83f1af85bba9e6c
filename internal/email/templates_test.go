package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Subject(t *testing.T) {
	r := NewRenderer(nil, "")

	msg, err := r.Render("MECS0033", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "Course Registration For MECS0033 and Timetable", msg.Subject)
}

func TestRenderer_IsDeterministic(t *testing.T) {
	r := NewRenderer(nil, "")

	first, err := r.Render("MECS1033", "a@b.com")
	require.NoError(t, err)
	second, err := r.Render("MECS1033", "a@b.com")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderer_Body(t *testing.T) {
	r := NewRenderer(nil, "")

	tests := []struct {
		name     string
		code     string
		contains []string
		excludes []string
	}{
		{
			name:     "known course",
			code:     "MECS0033",
			contains: []string{"Dear a@b.com,", "Monday 08:00-10:00", "Best regards,\nUTM Course Advisor"},
			excludes: []string{TimetableTBA, "Prerequisites:"},
		},
		{
			name:     "known course with prerequisites",
			code:     "MECS1033",
			contains: []string{"Tuesday 10:00-13:00", "Prerequisites: MECS0033"},
			excludes: []string{TimetableTBA},
		},
		{
			name:     "lookup is case insensitive",
			code:     " mecs1033 ",
			contains: []string{"Tuesday 10:00-13:00"},
		},
		{
			name:     "unknown course",
			code:     "MECS7777",
			contains: []string{"Timetable:\n" + TimetableTBA, "MECS7777"},
			excludes: []string{"Prerequisites:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := r.Render(tt.code, "a@b.com")
			require.NoError(t, err)

			for _, want := range tt.contains {
				assert.Contains(t, msg.Body, want)
			}
			for _, exclude := range tt.excludes {
				assert.NotContains(t, msg.Body, exclude)
			}
		})
	}
}

func TestRenderer_CustomTable(t *testing.T) {
	r := NewRenderer(map[string]TimetableEntry{
		"scsj3104": {Timetable: "Friday 09:00-12:00", Prerequisites: []string{"SCSJ2013", "SCSJ2203"}},
	}, "Faculty Office")

	msg, err := r.Render("SCSJ3104", "student@graduate.utm.my")
	require.NoError(t, err)

	assert.Contains(t, msg.Body, "Friday 09:00-12:00")
	assert.Contains(t, msg.Body, "Prerequisites: SCSJ2013, SCSJ2203")
	assert.True(t, strings.HasSuffix(msg.Body, "Faculty Office\n"))

	assert.Equal(t, TimetableTBA, r.Lookup("MECS0033").Timetable, "custom table replaces defaults")
}

type unknownTemplate struct{}

func (unknownTemplate) Subject() string      { return "Exam Timetable" }
func (unknownTemplate) TemplateName() string { return "exam_timetable" }

func TestRenderer_UnknownTemplate(t *testing.T) {
	_, err := NewRenderer(nil, "").execute(unknownTemplate{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exam_timetable")
}
