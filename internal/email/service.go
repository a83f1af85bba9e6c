package email

import (
	"context"
	"fmt"
	"log/slog"
)

// Service handles email composition and sending
type Service struct {
	sender   Sender
	renderer *Renderer
	fromName string
	logger   *slog.Logger
}

// NewService creates a new email service
func NewService(sender Sender, renderer *Renderer, fromName string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sender:   sender,
		renderer: renderer,
		fromName: fromName,
		logger:   logger,
	}
}

// SendCourseRegistration renders the registration notification for a course
// and hands it to the transport in a single attempt.
func (s *Service) SendCourseRegistration(ctx context.Context, courseCode, recipient string) Outcome {
	rendered, err := s.renderer.Render(courseCode, recipient)
	if err != nil {
		s.logger.Error("email: failed to render course registration", "course_code", courseCode, "error", err)
		return Failed(ReasonRender, fmt.Errorf("failed to render course registration template: %w", err))
	}

	return s.sender.Send(ctx, &Email{
		To:       []string{recipient},
		FromName: s.fromName,
		Subject:  rendered.Subject,
		TextBody: rendered.Body,
	})
}
