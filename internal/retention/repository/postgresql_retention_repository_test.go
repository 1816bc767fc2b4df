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

	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
)

func TestPostgreSQLRetentionRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLRetentionRepository(db)

		record := &retentionDomain.RetainedRecord{
			ID:        uuid.Must(uuid.NewV7()),
			RecordID:  "consent-42",
			Category:  retentionDomain.CategoryMarketingData,
			CreatedAt: time.Now().UTC(),
		}

		mock.ExpectExec(`INSERT INTO retained_records`).
			WithArgs(record.ID, record.RecordID, "marketing_data", record.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Create(ctx, record)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DatabaseFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLRetentionRepository(db)

		record := &retentionDomain.RetainedRecord{
			ID:        uuid.Must(uuid.NewV7()),
			RecordID:  "consent-42",
			Category:  retentionDomain.CategoryMarketingData,
			CreatedAt: time.Now().UTC(),
		}

		mock.ExpectExec(`INSERT INTO retained_records`).
			WillReturnError(errors.New("connection refused"))

		err = repo.Create(ctx, record)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create retained record")
	})
}

func TestPostgreSQLRetentionRepository_ListCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReturnsRecordsOldestFirst", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLRetentionRepository(db)

		firstID := uuid.Must(uuid.NewV7())
		secondID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		rows := sqlmock.NewRows([]string{"id", "record_id", "category", "created_at"}).
			AddRow(firstID, "log-1", "activity_logs", now.Add(-48*time.Hour)).
			AddRow(secondID, "log-2", "activity_logs", now.Add(-24*time.Hour))

		mock.ExpectQuery(`SELECT id, record_id, category, created_at`).
			WithArgs("activity_logs", 1000).
			WillReturnRows(rows)

		records, err := repo.ListCandidates(ctx, retentionDomain.CategoryActivityLogs, 1000)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, firstID, records[0].ID)
		assert.Equal(t, "log-1", records[0].RecordID)
		assert.Equal(t, retentionDomain.CategoryActivityLogs, records[0].Category)
		assert.Equal(t, secondID, records[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_EmptyResult", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLRetentionRepository(db)

		rows := sqlmock.NewRows([]string{"id", "record_id", "category", "created_at"})
		mock.ExpectQuery(`SELECT id, record_id, category, created_at`).
			WithArgs("temporary_data", 100).
			WillReturnRows(rows)

		records, err := repo.ListCandidates(ctx, retentionDomain.CategoryTemporaryData, 100)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Len(t, records, 0)
	})

	t.Run("Error_QueryFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLRetentionRepository(db)

		mock.ExpectQuery(`SELECT id, record_id, category, created_at`).
			WillReturnError(errors.New("connection refused"))

		records, err := repo.ListCandidates(ctx, retentionDomain.CategoryActivityLogs, 1000)
		assert.Error(t, err)
		assert.Nil(t, records)
		assert.Contains(t, err.Error(), "failed to list retained records")
	})
}

func TestPostgreSQLRetentionRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLRetentionRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec(`DELETE FROM retained_records`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Delete(ctx, id)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_AlreadyDeleted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLRetentionRepository(db)
		id := uuid.Must(uuid.NewV7())

		// Zero rows affected is not an error: deletion is idempotent.
		mock.ExpectExec(`DELETE FROM retained_records`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Delete(ctx, id)
		assert.NoError(t, err)
	})
}

func TestPostgreSQLRetentionRepository_CreateDeletionLog(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLRetentionRepository(db)

		log := &retentionDomain.DeletionLog{
			ID:        uuid.Must(uuid.NewV7()),
			RecordID:  "log-1",
			Category:  retentionDomain.CategoryActivityLogs,
			DeletedAt: time.Now().UTC(),
		}

		mock.ExpectExec(`INSERT INTO deletion_logs`).
			WithArgs(log.ID, log.RecordID, "activity_logs", log.DeletedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.CreateDeletionLog(ctx, log)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DatabaseFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		repo := NewPostgreSQLRetentionRepository(db)

		log := &retentionDomain.DeletionLog{
			ID:        uuid.Must(uuid.NewV7()),
			RecordID:  "log-1",
			Category:  retentionDomain.CategoryActivityLogs,
			DeletedAt: time.Now().UTC(),
		}

		mock.ExpectExec(`INSERT INTO deletion_logs`).
			WillReturnError(errors.New("connection refused"))

		err = repo.CreateDeletionLog(ctx, log)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create deletion log")
	})
}
