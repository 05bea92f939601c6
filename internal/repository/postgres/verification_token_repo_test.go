package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventrsvp/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestVerificationTokenRepository_Replace(t *testing.T) {
	ctx := context.Background()
	expires := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM verification_tokens WHERE rsvp_user_id`).
		WithArgs("ru-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO verification_tokens`).
		WithArgs("tok-abc", "ru-1", expires).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("vt-1"))
	mock.ExpectCommit()

	token := &domain.VerificationToken{Token: "tok-abc", RsvpUserID: "ru-1", ExpiresAt: expires}
	repo := NewVerificationTokenRepository(db)
	require.NoError(t, repo.Replace(ctx, token))
	require.Equal(t, "vt-1", token.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationTokenRepository_Consume(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("success verifies, links and deletes in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, rsvp_user_id, expires_at`).
			WithArgs("tok-abc").
			WillReturnRows(sqlmock.NewRows([]string{"id", "rsvp_user_id", "expires_at"}).
				AddRow("vt-1", "ru-1", now.Add(time.Hour)))
		mock.ExpectQuery(`UPDATE rsvp_users`).
			WithArgs(sqlmock.AnyArg(), "ru-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "email_verified", "created_at", "updated_at"}).
				AddRow("ru-1", "ada@example.com", now, now, now))
		mock.ExpectExec(`UPDATE rsvps SET rsvp_user_id`).
			WithArgs("ru-1", "ada@example.com").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM verification_tokens WHERE id`).
			WithArgs("vt-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewVerificationTokenRepository(db)
		user, err := repo.Consume(ctx, "tok-abc")
		require.NoError(t, err)
		require.Equal(t, "ru-1", user.ID)
		require.Equal(t, "ada@example.com", user.Email)
		require.NotNil(t, user.EmailVerified)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown token", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, rsvp_user_id, expires_at`).
			WithArgs("tok-missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		repo := NewVerificationTokenRepository(db)
		_, err = repo.Consume(ctx, "tok-missing")
		require.ErrorIs(t, err, domain.ErrInvalidToken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired token is deleted and reported", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, rsvp_user_id, expires_at`).
			WithArgs("tok-old").
			WillReturnRows(sqlmock.NewRows([]string{"id", "rsvp_user_id", "expires_at"}).
				AddRow("vt-1", "ru-1", now.Add(-time.Hour)))
		mock.ExpectExec(`DELETE FROM verification_tokens WHERE id`).
			WithArgs("vt-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewVerificationTokenRepository(db)
		_, err = repo.Consume(ctx, "tok-old")
		require.ErrorIs(t, err, domain.ErrTokenExpired)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
