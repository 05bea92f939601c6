package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventrsvp/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, slug, title, description, date_time, location, capacity, image_path, published, organizer_id, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (slug, title, description, date_time, location, capacity, published, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Slug, e.Title, nullString(e.Description), e.DateTime, e.Location,
		nullInt(e.Capacity), e.Published, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, slug))
}

func (r *eventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY date_time ASC`
	rows, err := r.DB.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, date_time = $3, location = $4, capacity = $5, published = $6, updated_at = $7
		WHERE id = $8
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.Title, nullString(e.Description), e.DateTime, e.Location,
		nullInt(e.Capacity), e.Published, time.Now(), e.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *eventRepository) SetImagePath(ctx context.Context, id, imagePath string) error {
	query := `UPDATE events SET image_path = $1, updated_at = $2 WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, imagePath, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *eventRepository) scanOne(row rowScanner) (*domain.Event, error) {
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, imageNull sql.NullString
	var capNull sql.NullInt64
	err := row.Scan(
		&e.ID, &e.Slug, &e.Title, &descNull, &e.DateTime, &e.Location,
		&capNull, &imageNull, &e.Published, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
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
	return e, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
