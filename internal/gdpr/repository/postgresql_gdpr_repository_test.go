package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gdprDomain "github.com/journeymanhq/dataprotect/internal/gdpr/domain"
)

var exportColumns = []string{"id", "user_id", "created_at"}

func newTestExport() *gdprDomain.DataExport {
	return &gdprDomain.DataExport{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    uuid.Must(uuid.NewV7()),
		CreatedAt: time.Now().UTC(),
	}
}

func newTestDeletion() *gdprDomain.AccountDeletion {
	return &gdprDomain.AccountDeletion{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    uuid.Must(uuid.NewV7()),
		Reason:    gdprDomain.DeletionReasonRightToBeForgotten,
		DeletedAt: time.Now().UTC(),
	}
}

func TestPostgreSQLGDPRRepository_CreateExport(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLGDPRRepository(db)
		export := newTestExport()

		mock.ExpectExec(`INSERT INTO data_exports`).
			WithArgs(export.ID, export.UserID, export.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.CreateExport(ctx, export)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DatabaseFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLGDPRRepository(db)

		mock.ExpectExec(`INSERT INTO data_exports`).
			WillReturnError(errors.New("connection refused"))

		err = repo.CreateExport(ctx, newTestExport())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create data export")
	})
}

func TestPostgreSQLGDPRRepository_ListExportsByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLGDPRRepository(db)
		userID := uuid.Must(uuid.NewV7())
		newer := uuid.Must(uuid.NewV7())
		older := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		rows := sqlmock.NewRows(exportColumns).
			AddRow(newer, userID, now).
			AddRow(older, userID, now.Add(-24*time.Hour))

		mock.ExpectQuery(`SELECT id, user_id, created_at FROM data_exports`).
			WithArgs(userID).
			WillReturnRows(rows)

		exports, err := repo.ListExportsByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, exports, 2)
		assert.Equal(t, newer, exports[0].ID)
		assert.Equal(t, older, exports[1].ID)
	})

	t.Run("Success_EmptyResult", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLGDPRRepository(db)
		userID := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(`SELECT id, user_id, created_at FROM data_exports`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(exportColumns))

		exports, err := repo.ListExportsByUser(ctx, userID)
		require.NoError(t, err)
		assert.NotNil(t, exports)
		assert.Empty(t, exports)
	})

	t.Run("Error_QueryFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLGDPRRepository(db)

		mock.ExpectQuery(`SELECT id, user_id, created_at FROM data_exports`).
			WillReturnError(errors.New("connection refused"))

		exports, err := repo.ListExportsByUser(ctx, uuid.Must(uuid.NewV7()))
		assert.Nil(t, exports)
		assert.Contains(t, err.Error(), "failed to list data exports")
	})
}

func TestPostgreSQLGDPRRepository_CreateDeletion(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLGDPRRepository(db)
		deletion := newTestDeletion()

		mock.ExpectExec(`INSERT INTO account_deletions`).
			WithArgs(deletion.ID, deletion.UserID, deletion.Reason, deletion.DeletedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.CreateDeletion(ctx, deletion)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DatabaseFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLGDPRRepository(db)

		mock.ExpectExec(`INSERT INTO account_deletions`).
			WillReturnError(errors.New("connection refused"))

		err = repo.CreateDeletion(ctx, newTestDeletion())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account deletion")
	})
}
