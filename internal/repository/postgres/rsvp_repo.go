package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventrsvp/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRsvpRepository(db *sql.DB) domain.RsvpRepository {
	return &rsvpRepository{
		DB: db,
	}
}

const rsvpColumns = `id, event_id, first_name, last_initial, email, status, session_token, rsvp_user_id, created_at, updated_at`

// FindByIdentity matches an existing response by session token OR email within
// one event. Rows are ordered so an exact session-token match is returned
// first when both axes hit different rows.
func (r *rsvpRepository) FindByIdentity(ctx context.Context, eventID, sessionToken string, email *string) (*domain.Rsvp, error) {
	query := `
		SELECT ` + rsvpColumns + `
		FROM rsvps
		WHERE event_id = $1 AND (session_token = $2 OR ($3::text IS NOT NULL AND email = $3))
		ORDER BY (session_token = $2) DESC
		LIMIT 1
	`
	row := r.DB.QueryRowContext(ctx, query, eventID, sessionToken, nullStringPtr(email))
	rsvp, err := scanRsvp(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) GetBySessionToken(ctx context.Context, eventID, sessionToken string) (*domain.Rsvp, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 AND session_token = $2`
	rsvp, err := scanRsvp(r.DB.QueryRowContext(ctx, query, eventID, sessionToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.Rsvp) error {
	query := `
		INSERT INTO rsvps (event_id, first_name, last_initial, email, status, session_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		rsvp.EventID, rsvp.FirstName, rsvp.LastInitial, nullStringPtr(rsvp.Email),
		rsvp.Status, rsvp.SessionToken, rsvp.CreatedAt, rsvp.UpdatedAt,
	).Scan(&rsvp.ID)
}

// CreateWithCapacity admits a new GOING response only while the event has a
// free seat. The count and insert run in one transaction holding a per-event
// advisory lock, so concurrent submissions at the capacity boundary serialize
// and at most `capacity` GOING rows ever exist.
func (r *rsvpRepository) CreateWithCapacity(ctx context.Context, rsvp *domain.Rsvp, capacity int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// hashtext keeps the lock key within the bigint advisory-lock space.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, rsvp.EventID); err != nil {
		return fmt.Errorf("acquire event lock: %w", err)
	}

	var count int
	countQuery := `SELECT COUNT(*) FROM rsvps WHERE event_id = $1 AND status = $2`
	if err := tx.QueryRowContext(ctx, countQuery, rsvp.EventID, domain.StatusGoing).Scan(&count); err != nil {
		return fmt.Errorf("count going responses: %w", err)
	}
	if count >= capacity {
		return domain.ErrCapacityExceeded
	}

	insertQuery := `
		INSERT INTO rsvps (event_id, first_name, last_initial, email, status, session_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insertQuery,
		rsvp.EventID, rsvp.FirstName, rsvp.LastInitial, nullStringPtr(rsvp.Email),
		rsvp.Status, rsvp.SessionToken, rsvp.CreatedAt, rsvp.UpdatedAt,
	).Scan(&rsvp.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *rsvpRepository) Update(ctx context.Context, rsvp *domain.Rsvp) error {
	query := `
		UPDATE rsvps
		SET first_name = $1, last_initial = $2, email = $3, status = $4, session_token = $5, updated_at = $6
		WHERE id = $7
	`
	res, err := r.DB.ExecContext(ctx, query,
		rsvp.FirstName, rsvp.LastInitial, nullStringPtr(rsvp.Email),
		rsvp.Status, rsvp.SessionToken, rsvp.UpdatedAt, rsvp.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *rsvpRepository) CountByStatus(ctx context.Context, eventID string, status domain.RsvpStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rsvps WHERE event_id = $1 AND status = $2`
	if err := r.DB.QueryRowContext(ctx, query, eventID, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Rsvp, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRsvps(rows)
}

func (r *rsvpRepository) ListByStatusWithEmail(ctx context.Context, eventID string, statuses []domain.RsvpStatus) ([]*domain.Rsvp, error) {
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}
	query := `
		SELECT ` + rsvpColumns + `
		FROM rsvps
		WHERE event_id = $1 AND status = ANY($2) AND email IS NOT NULL
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, pq.Array(statusStrings))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRsvps(rows)
}

func (r *rsvpRepository) ListByRsvpUserID(ctx context.Context, rsvpUserID string) ([]*domain.RsvpWithEvent, error) {
	query := `
		SELECT r.id, r.event_id, r.first_name, r.last_initial, r.email, r.status, r.session_token, r.rsvp_user_id, r.created_at, r.updated_at,
		       e.id, e.slug, e.title, e.description, e.date_time, e.location, e.capacity, e.image_path, e.published, e.organizer_id, e.created_at, e.updated_at
		FROM rsvps r
		JOIN events e ON e.id = r.event_id
		WHERE r.rsvp_user_id = $1
		ORDER BY e.date_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, rsvpUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.RsvpWithEvent{}
	for rows.Next() {
		rsvp := &domain.Rsvp{}
		e := &domain.Event{}
		var emailNull, userIDNull sql.NullString
		var descNull, imageNull sql.NullString
		var capNull sql.NullInt64
		err := rows.Scan(
			&rsvp.ID, &rsvp.EventID, &rsvp.FirstName, &rsvp.LastInitial, &emailNull,
			&rsvp.Status, &rsvp.SessionToken, &userIDNull, &rsvp.CreatedAt, &rsvp.UpdatedAt,
			&e.ID, &e.Slug, &e.Title, &descNull, &e.DateTime, &e.Location,
			&capNull, &imageNull, &e.Published, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if emailNull.Valid {
			rsvp.Email = &emailNull.String
		}
		if userIDNull.Valid {
			rsvp.RsvpUserID = &userIDNull.String
		}
		if descNull.Valid {
			e.Description = descNull.String
		}
		if imageNull.Valid {
			e.ImagePath = imageNull.String
		}
		if capNull.Valid {
			c := int(capNull.Int64)
			e.Capacity = &c
		}
		result = append(result, &domain.RsvpWithEvent{Rsvp: rsvp, Event: e})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanRsvp(row rowScanner) (*domain.Rsvp, error) {
	rsvp := &domain.Rsvp{}
	var emailNull, userIDNull sql.NullString
	err := row.Scan(
		&rsvp.ID, &rsvp.EventID, &rsvp.FirstName, &rsvp.LastInitial, &emailNull,
		&rsvp.Status, &rsvp.SessionToken, &userIDNull, &rsvp.CreatedAt, &rsvp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if emailNull.Valid {
		rsvp.Email = &emailNull.String
	}
	if userIDNull.Valid {
		rsvp.RsvpUserID = &userIDNull.String
	}
	return rsvp, nil
}

func collectRsvps(rows *sql.Rows) ([]*domain.Rsvp, error) {
	rsvps := []*domain.Rsvp{}
	for rows.Next() {
		rsvp, err := scanRsvp(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rsvps, nil
}
