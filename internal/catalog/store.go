// Package catalog reads the course catalog that backs informational replies.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dukerupert/advisor/internal/domain"
	"github.com/go-playground/validator/v10"
)

// DefaultPath is resolved against the process working directory.
const DefaultPath = "courses.json"

// Store loads course records from a JSON file on the local filesystem.
// The file is re-read on every call; the catalog is small and read-only.
type Store struct {
	path     string
	logger   *slog.Logger
	validate *validator.Validate
}

// NewStore creates a catalog store for the given file path.
func NewStore(path string, logger *slog.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:     path,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Path returns the catalog file path.
func (s *Store) Path() string {
	return s.path
}

// LoadCourses reads and decodes the catalog.
// A missing file yields an empty catalog and no error. An unreadable or
// malformed file returns an ECATALOG error. Records failing validation are
// skipped with a warning.
func (s *Store) LoadCourses(ctx context.Context) ([]domain.CourseRecord, error) {
	const op = "catalog.load"

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.CourseRecord{}, nil
		}
		return []domain.CourseRecord{}, domain.WrapError(err, domain.ECATALOG, op, "course catalog could not be read")
	}

	var raw []domain.CourseRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return []domain.CourseRecord{}, domain.WrapError(err, domain.ECATALOG, op, "course catalog is not a valid JSON array")
	}

	courses := make([]domain.CourseRecord, 0, len(raw))
	for i, c := range raw {
		if err := s.validate.StructCtx(ctx, c); err != nil {
			s.logger.Warn("catalog: skipping invalid course record",
				"index", i,
				"course_code", c.CourseCode,
				"error", err,
			)
			continue
		}
		courses = append(courses, c)
	}

	return courses, nil
}

// Check probes the catalog at startup. A missing file is only a warning so
// that the notification action keeps working without a catalog.
func (s *Store) Check(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("catalog: file not found, course lookups will return no results", "path", s.path)
			return nil
		}
		return fmt.Errorf("failed to stat catalog: %w", err)
	}

	courses, err := s.LoadCourses(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("catalog: loaded", "path", s.path, "courses", len(courses))
	return nil
}

// FindByCode returns the course whose code matches, ignoring case and
// surrounding whitespace.
func FindByCode(courses []domain.CourseRecord, code string) (domain.CourseRecord, bool) {
	want := domain.NormalizeCourseCode(code)
	if want == "" {
		return domain.CourseRecord{}, false
	}
	for _, c := range courses {
		if domain.NormalizeCourseCode(c.CourseCode) == want {
			return c, true
		}
	}
	return domain.CourseRecord{}, false
}

// FindByName returns the first course whose name contains fragment, ignoring case.
func FindByName(courses []domain.CourseRecord, fragment string) (domain.CourseRecord, bool) {
	want := strings.ToLower(strings.TrimSpace(fragment))
	if want == "" {
		return domain.CourseRecord{}, false
	}
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.CourseName), want) {
			return c, true
		}
	}
	return domain.CourseRecord{}, false
}

// BySemester returns the courses offered in the given semester, in catalog order.
func BySemester(courses []domain.CourseRecord, semester string) []domain.CourseRecord {
	want := strings.TrimSpace(semester)
	var out []domain.CourseRecord
	for _, c := range courses {
		if c.Semester.String() == want {
			out = append(out, c)
		}
	}
	return out
}
