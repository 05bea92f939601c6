package services

import (
	"context"
	"fmt"

	"eventrsvp/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendVerificationLink sends the login-link email using the "verification" template.
func (s *emailService) SendVerificationLink(ctx context.Context, data *domain.VerificationEmailData) error {
	if data == nil {
		return fmt.Errorf("verification email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("verification", data)
	if err != nil {
		return fmt.Errorf("failed to render verification template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// SendEventNotification sends one organizer-blast email using the "event_notification" template.
func (s *emailService) SendEventNotification(ctx context.Context, data *domain.EventNotificationEmailData) error {
	if data == nil {
		return fmt.Errorf("event notification data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_notification", data)
	if err != nil {
		return fmt.Errorf("failed to render event_notification template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send event notification: %w", err)
	}
	return nil
}
