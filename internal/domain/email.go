package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// VerificationEmailData holds data for the login-link email.
type VerificationEmailData struct {
	Email          string
	VerifyURL      string
	ExpiresInHours int
}

// EventNotificationEmailData holds data for an organizer notification blast.
type EventNotificationEmailData struct {
	Email      string
	FirstName  string
	EventTitle string
	EventURL   string
	Subject    string
	Body       string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendVerificationLink(ctx context.Context, data *VerificationEmailData) error
	SendEventNotification(ctx context.Context, data *EventNotificationEmailData) error
}
