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

var eventTestColumns = []string{
	"id", "slug", "title", "description", "date_time", "location",
	"capacity", "image_path", "published", "organizer_id", "created_at", "updated_at",
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	capacity := 50

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Slug:        "aB3dE5fG7h",
				Title:       "Launch Party",
				Description: "Drinks on the roof",
				DateTime:    now.Add(72 * time.Hour),
				Location:    "HQ Rooftop",
				Capacity:    &capacity,
				Published:   true,
				OrganizerID: "org-1",
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs("aB3dE5fG7h", "Launch Party",
						sql.NullString{String: "Drinks on the roof", Valid: true},
						now.Add(72*time.Hour), "HQ Rooftop",
						sql.NullInt64{Int64: 50, Valid: true},
						true, "org-1", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
			},
			wantID: "ev-1",
		},
		{
			name: "db error",
			event: &domain.Event{
				Slug:        "xY9zA1bC3d",
				Title:       "Retro",
				DateTime:    now,
				Location:    "HQ",
				OrganizerID: "org-1",
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found with nullable fields unset", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM events WHERE slug`).
			WithArgs("aB3dE5fG7h").
			WillReturnRows(sqlmock.NewRows(eventTestColumns).
				AddRow("ev-1", "aB3dE5fG7h", "Launch Party", nil, now, "HQ", nil, nil, true, "org-1", now, now))

		repo := NewEventRepository(db)
		event, err := repo.GetBySlug(ctx, "aB3dE5fG7h")
		require.NoError(t, err)
		require.Equal(t, "ev-1", event.ID)
		require.Empty(t, event.Description)
		require.Nil(t, event.Capacity)
		require.Empty(t, event.ImagePath)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM events WHERE slug`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetBySlug(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Delete(ctx, "ev-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row reports not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events`).
			WithArgs("ev-404").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "ev-404"), domain.ErrNotFound)
	})
}
