package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventrsvp/internal/domain"
)

type verificationTokenRepository struct {
	DB *sql.DB
}

// NewVerificationTokenRepository returns a domain.VerificationTokenRepository
// implemented with Postgres.
func NewVerificationTokenRepository(db *sql.DB) domain.VerificationTokenRepository {
	return &verificationTokenRepository{DB: db}
}

// Replace enforces the single-live-token rule: any prior tokens for the user
// are removed in the same transaction that stores the new one.
func (r *verificationTokenRepository) Replace(ctx context.Context, token *domain.VerificationToken) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM verification_tokens WHERE rsvp_user_id = $1`, token.RsvpUserID); err != nil {
		return fmt.Errorf("delete prior tokens: %w", err)
	}

	insertQuery := `
		INSERT INTO verification_tokens (token, rsvp_user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, insertQuery, token.Token, token.RsvpUserID, token.ExpiresAt).Scan(&token.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// Consume verifies a login token as a single transaction. The token row is
// locked FOR UPDATE so a concurrent replay blocks until this transaction
// commits its delete, then sees ErrInvalidToken.
func (r *verificationTokenRepository) Consume(ctx context.Context, token string) (*domain.RsvpUser, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var tokenID, userID string
	var expiresAt time.Time
	selectQuery := `
		SELECT id, rsvp_user_id, expires_at
		FROM verification_tokens
		WHERE token = $1
		FOR UPDATE
	`
	err = tx.QueryRowContext(ctx, selectQuery, token).Scan(&tokenID, &userID, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	if time.Now().After(expiresAt) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM verification_tokens WHERE id = $1`, tokenID); err != nil {
			return nil, fmt.Errorf("delete expired token: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return nil, domain.ErrTokenExpired
	}

	now := time.Now()
	user := &domain.RsvpUser{}
	var verifiedNull sql.NullTime
	updateQuery := `
		UPDATE rsvp_users
		SET email_verified = $1, updated_at = $1
		WHERE id = $2
		RETURNING id, email, email_verified, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, updateQuery, now, userID).Scan(
		&user.ID, &user.Email, &verifiedNull, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("mark email verified: %w", err)
	}
	if verifiedNull.Valid {
		user.EmailVerified = &verifiedNull.Time
	}

	// Claim anonymous responses that share this email.
	linkQuery := `UPDATE rsvps SET rsvp_user_id = $1 WHERE email = $2 AND rsvp_user_id IS NULL`
	if _, err := tx.ExecContext(ctx, linkQuery, user.ID, user.Email); err != nil {
		return nil, fmt.Errorf("link responses: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM verification_tokens WHERE id = $1`, tokenID); err != nil {
		return nil, fmt.Errorf("delete consumed token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return user, nil
}
