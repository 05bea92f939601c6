package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

const (
	maxSubjectLen       = 200
	maxBodyLen          = 5000
	notificationHistory = 10
)

type notificationService struct {
	eventRepo        domain.EventRepository
	rsvpRepo         domain.RsvpRepository
	notificationRepo domain.EmailNotificationRepository
	emailService     domain.EmailService
	logger           *slog.Logger
	baseURL          string
}

// NewNotificationService creates the organizer notification dispatch service.
func NewNotificationService(
	eventRepo domain.EventRepository,
	rsvpRepo domain.RsvpRepository,
	notificationRepo domain.EmailNotificationRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	baseURL string,
) domain.NotificationService {
	return &notificationService{
		eventRepo:        eventRepo,
		rsvpRepo:         rsvpRepo,
		notificationRepo: notificationRepo,
		emailService:     emailService,
		logger:           logger,
		baseURL:          strings.TrimSuffix(baseURL, "/"),
	}
}

// Send emails every response in the requested status set that has an email
// address. Sends are independent attempts; a failed recipient does not undo
// earlier sends. The audit record always captures the actual number of
// successful sends, and partial failure surfaces as ErrPartialDelivery with
// the per-recipient result attached.
func (s *notificationService) Send(ctx context.Context, organizerID, eventID, subject, body string, statuses []domain.RsvpStatus) (*domain.DeliveryResult, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" || len(subject) > maxSubjectLen {
		return nil, fmt.Errorf("%w: subject is required and must be %d characters or less", domain.ErrInvalidInput, maxSubjectLen)
	}
	if body == "" || len(body) > maxBodyLen {
		return nil, fmt.Errorf("%w: message is required and must be %d characters or less", domain.ErrInvalidInput, maxBodyLen)
	}
	if len(statuses) == 0 {
		return nil, fmt.Errorf("%w: select at least one status", domain.ErrInvalidInput)
	}
	for _, st := range statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, st)
		}
	}

	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	recipients, err := s.rsvpRepo.ListByStatusWithEmail(ctx, event.ID, statuses)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}

	eventURL := fmt.Sprintf("%s/e/%s", s.baseURL, event.Slug)
	result := &domain.DeliveryResult{}
	for _, rsvp := range recipients {
		data := &domain.EventNotificationEmailData{
			Email:      *rsvp.Email,
			FirstName:  rsvp.FirstName,
			EventTitle: event.Title,
			EventURL:   eventURL,
			Subject:    subject,
			Body:       body,
		}
		if err := s.emailService.SendEventNotification(ctx, data); err != nil {
			s.logger.ErrorContext(ctx, "notification send failed", "event_id", event.ID, "recipient", *rsvp.Email, "err", err)
			result.Failed = append(result.Failed, *rsvp.Email)
			continue
		}
		result.Sent++
	}

	record := &domain.EmailNotification{
		EventID:   event.ID,
		Subject:   subject,
		Body:      body,
		SentCount: result.Sent,
		SentAt:    time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, record); err != nil {
		// The emails are already out; surface the audit failure without
		// pretending the blast did not happen.
		s.logger.ErrorContext(ctx, "notification audit write failed", "event_id", event.ID, "err", err)
		return result, fmt.Errorf("record notification: %w", err)
	}

	if len(result.Failed) > 0 {
		return result, domain.ErrPartialDelivery
	}
	return result, nil
}

func (s *notificationService) History(ctx context.Context, organizerID, eventID string) ([]*domain.EmailNotification, error) {
	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return nil, err
	}
	history, err := s.notificationRepo.ListByEventID(ctx, eventID, notificationHistory)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return history, nil
}

// ownedEvent loads the event and checks ownership. A foreign event reports
// ErrNotFound, the same as a missing one, so existence does not leak.
func (s *notificationService) ownedEvent(ctx context.Context, organizerID, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrNotFound
	}
	return event, nil
}
