package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventrsvp/internal/domain"
)

type rsvpUserRepository struct {
	DB *sql.DB
}

// NewRsvpUserRepository returns a domain.RsvpUserRepository implemented with Postgres.
func NewRsvpUserRepository(db *sql.DB) domain.RsvpUserRepository {
	return &rsvpUserRepository{DB: db}
}

func (r *rsvpUserRepository) GetByEmail(ctx context.Context, email string) (*domain.RsvpUser, error) {
	query := `
		SELECT id, email, email_verified, created_at, updated_at
		FROM rsvp_users
		WHERE email = $1
	`
	return scanRsvpUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *rsvpUserRepository) GetByID(ctx context.Context, id string) (*domain.RsvpUser, error) {
	query := `
		SELECT id, email, email_verified, created_at, updated_at
		FROM rsvp_users
		WHERE id = $1
	`
	return scanRsvpUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *rsvpUserRepository) Create(ctx context.Context, user *domain.RsvpUser) error {
	query := `
		INSERT INTO rsvp_users (email, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, user.Email, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
}

func scanRsvpUser(row rowScanner) (*domain.RsvpUser, error) {
	user := &domain.RsvpUser{}
	var verifiedNull sql.NullTime
	err := row.Scan(&user.ID, &user.Email, &verifiedNull, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if verifiedNull.Valid {
		user.EmailVerified = &verifiedNull.Time
	}
	return user, nil
}
