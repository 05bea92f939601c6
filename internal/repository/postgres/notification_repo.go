package postgres

import (
	"context"
	"database/sql"

	"eventrsvp/internal/domain"
)

type emailNotificationRepository struct {
	DB *sql.DB
}

// NewEmailNotificationRepository returns a domain.EmailNotificationRepository
// implemented with Postgres.
func NewEmailNotificationRepository(db *sql.DB) domain.EmailNotificationRepository {
	return &emailNotificationRepository{DB: db}
}

func (r *emailNotificationRepository) Create(ctx context.Context, n *domain.EmailNotification) error {
	query := `
		INSERT INTO email_notifications (event_id, subject, body, sent_count, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, n.EventID, n.Subject, n.Body, n.SentCount, n.SentAt).Scan(&n.ID)
}

func (r *emailNotificationRepository) ListByEventID(ctx context.Context, eventID string, limit int) ([]*domain.EmailNotification, error) {
	query := `
		SELECT id, event_id, subject, body, sent_count, sent_at
		FROM email_notifications
		WHERE event_id = $1
		ORDER BY sent_at DESC
		LIMIT $2
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*domain.EmailNotification{}
	for rows.Next() {
		n := &domain.EmailNotification{}
		if err := rows.Scan(&n.ID, &n.EventID, &n.Subject, &n.Body, &n.SentCount, &n.SentAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}
