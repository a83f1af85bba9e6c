package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CourseRecord is one entry of the course catalog file.
type CourseRecord struct {
	CourseCode    string   `json:"course_code" validate:"required"`
	CourseName    string   `json:"course_name"`
	Faculty       string   `json:"faculty"`
	Credits       int      `json:"credits" validate:"gte=0"`
	Prerequisites []string `json:"prerequisites"`
	Sections      []string `json:"sections" validate:"min=1"`
	Category      string   `json:"category"`
	Semester      Semester `json:"semester"`
}

// Semester is stored as a number in some catalogs and a string in others.
// It is always compared in its string form.
type Semester string

// UnmarshalJSON accepts both JSON numbers and strings.
func (s *Semester) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Semester(strings.TrimSpace(str))
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("semester must be a string or number: %w", err)
	}
	*s = Semester(num.String())
	return nil
}

// String implements fmt.Stringer.
func (s Semester) String() string {
	return string(s)
}

// NormalizeCourseCode trims and upper-cases a course code for table lookups.
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
