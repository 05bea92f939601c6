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

var rsvpTestColumns = []string{
	"id", "event_id", "first_name", "last_initial", "email",
	"status", "session_token", "rsvp_user_id", "created_at", "updated_at",
}

func TestRsvpRepository_FindByIdentity(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	email := "ada@example.com"

	tests := []struct {
		name    string
		email   *string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name:  "match by session token",
			email: nil,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM rsvps`).
					WithArgs("ev-1", "sess-1", sql.NullString{}).
					WillReturnRows(sqlmock.NewRows(rsvpTestColumns).
						AddRow("rsvp-1", "ev-1", "Ada", "L", nil, "GOING", "sess-1", nil, now, now))
			},
			wantID: "rsvp-1",
		},
		{
			name:  "match by email from another session",
			email: &email,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM rsvps`).
					WithArgs("ev-1", "sess-1", sql.NullString{String: email, Valid: true}).
					WillReturnRows(sqlmock.NewRows(rsvpTestColumns).
						AddRow("rsvp-2", "ev-1", "Ada", "L", email, "MAYBE", "sess-old", nil, now, now))
			},
			wantID: "rsvp-2",
		},
		{
			name:  "no match",
			email: nil,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM rsvps`).
					WithArgs("ev-1", "sess-1", sql.NullString{}).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRsvpRepository(db)
			rsvp, err := repo.FindByIdentity(ctx, "ev-1", "sess-1", tt.email)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, rsvp.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRsvpRepository_CreateWithCapacity(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	newRsvp := func() *domain.Rsvp {
		return &domain.Rsvp{
			EventID:      "ev-1",
			FirstName:    "Ada",
			LastInitial:  "L",
			Status:       domain.StatusGoing,
			SessionToken: "sess-1",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	t.Run("admits below capacity", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rsvps`).
			WithArgs("ev-1", domain.StatusGoing).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
		mock.ExpectQuery(`INSERT INTO rsvps`).
			WithArgs("ev-1", "Ada", "L", sql.NullString{}, domain.StatusGoing, "sess-1", now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rsvp-1"))
		mock.ExpectCommit()

		rsvp := newRsvp()
		repo := NewRsvpRepository(db)
		require.NoError(t, repo.CreateWithCapacity(ctx, rsvp, 5))
		require.Equal(t, "rsvp-1", rsvp.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects at capacity without inserting", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rsvps`).
			WithArgs("ev-1", domain.StatusGoing).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
		mock.ExpectRollback()

		repo := NewRsvpRepository(db)
		err = repo.CreateWithCapacity(ctx, newRsvp(), 5)
		require.ErrorIs(t, err, domain.ErrCapacityExceeded)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		repo := NewRsvpRepository(db)
		err = repo.CreateWithCapacity(ctx, newRsvp(), 5)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

