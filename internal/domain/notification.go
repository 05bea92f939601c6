package domain

import (
	"context"
	"time"
)

// EmailNotification is the append-only audit record of a notification blast.
// SentCount records how many sends actually succeeded, which may be lower
// than the recipient count on partial failure.
// swagger:model EmailNotification
type EmailNotification struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	SentCount int       `json:"sent_count"`
	SentAt    time.Time `json:"sent_at"`
}

// DeliveryResult reports the outcome of a notification blast per recipient.
type DeliveryResult struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed,omitempty"`
}

// EmailNotificationRepository defines the interface for audit-log storage.
// Records are write-once; there is no update or delete.
type EmailNotificationRepository interface {
	Create(ctx context.Context, n *EmailNotification) error
	ListByEventID(ctx context.Context, eventID string, limit int) ([]*EmailNotification, error)
}

// NotificationService is the organizer-triggered bulk email flow.
type NotificationService interface {
	Send(ctx context.Context, organizerID, eventID, subject, body string, statuses []RsvpStatus) (*DeliveryResult, error)
	History(ctx context.Context, organizerID, eventID string) ([]*EmailNotification, error)
}
