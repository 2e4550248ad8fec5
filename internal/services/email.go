package services

import (
	"context"
	"fmt"
	"log/slog"

	"campregistration/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendShiftConfirmation sends the "shift_confirmation" template to the registered member.
func (s *emailService) SendShiftConfirmation(ctx context.Context, data *domain.ShiftConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("shift confirmation data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("shift confirmation has no recipient")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("shift_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render shift_confirmation template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send shift confirmation email: %w", err)
	}
	s.logger.InfoContext(ctx, "shift confirmation sent", "to", data.Email, "day", data.Day, "shift_time", data.ShiftTime)
	return nil
}
