package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/journeymanhq/dataprotect/internal/database"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
)

// MySQLRetentionRepository implements retention registry persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLRetentionRepository struct {
	db *sql.DB
}

// Create inserts a new registry entry into the MySQL database using BINARY(16)
// for UUIDs.
func (m *MySQLRetentionRepository) Create(
	ctx context.Context,
	record *retentionDomain.RetainedRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO retained_records (id, record_id, category, created_at)
			  VALUES (?, ?, ?, ?)`

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal retained record id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		record.RecordID,
		string(record.Category),
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create retained record")
	}

	return nil
}

// ListCandidates retrieves up to limit registry entries for the category,
// oldest first. Returns empty slice if no entries found. UUIDs are stored as
// BINARY(16) and must be unmarshaled.
func (m *MySQLRetentionRepository) ListCandidates(
	ctx context.Context,
	category retentionDomain.DataCategory,
	limit int,
) ([]*retentionDomain.RetainedRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, record_id, category, created_at
			  FROM retained_records
			  WHERE category = ?
			  ORDER BY created_at ASC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, string(category), limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list retained records")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	records := make([]*retentionDomain.RetainedRecord, 0)
	for rows.Next() {
		var record retentionDomain.RetainedRecord
		var idBinary []byte
		var categoryValue string

		err := rows.Scan(
			&idBinary,
			&record.RecordID,
			&categoryValue,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan retained record")
		}

		if err := record.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal retained record id")
		}

		record.Category = retentionDomain.DataCategory(categoryValue)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate retained records")
	}

	return records, nil
}

// Delete removes a registry entry. Deleting an already-deleted entry is not
// an error.
func (m *MySQLRetentionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM retained_records WHERE id = ?`

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal retained record id")
	}

	if _, err := querier.ExecContext(ctx, query, idBinary); err != nil {
		return apperrors.Wrap(err, "failed to delete retained record")
	}

	return nil
}

// CreateDeletionLog appends a deletion audit-trail entry.
func (m *MySQLRetentionRepository) CreateDeletionLog(
	ctx context.Context,
	log *retentionDomain.DeletionLog,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO deletion_logs (id, record_id, category, deleted_at)
			  VALUES (?, ?, ?, ?)`

	id, err := log.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal deletion log id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		log.RecordID,
		string(log.Category),
		log.DeletedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create deletion log")
	}

	return nil
}

// NewMySQLRetentionRepository creates a new MySQL retention repository.
func NewMySQLRetentionRepository(db *sql.DB) *MySQLRetentionRepository {
	return &MySQLRetentionRepository{db: db}
}
