// Package repository implements persistence for the retention registry and
// its deletion audit trail on PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/journeymanhq/dataprotect/internal/database"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
)

// PostgreSQLRetentionRepository implements retention registry persistence for
// PostgreSQL. Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLRetentionRepository struct {
	db *sql.DB
}

// Create inserts a new registry entry into the PostgreSQL database.
func (p *PostgreSQLRetentionRepository) Create(
	ctx context.Context,
	record *retentionDomain.RetainedRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO retained_records (id, record_id, category, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
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
// oldest first. Returns empty slice if no entries found.
func (p *PostgreSQLRetentionRepository) ListCandidates(
	ctx context.Context,
	category retentionDomain.DataCategory,
	limit int,
) ([]*retentionDomain.RetainedRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, record_id, category, created_at
			  FROM retained_records
			  WHERE category = $1
			  ORDER BY created_at ASC
			  LIMIT $2`

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
		var categoryValue string

		err := rows.Scan(
			&record.ID,
			&record.RecordID,
			&categoryValue,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan retained record")
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
func (p *PostgreSQLRetentionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM retained_records WHERE id = $1`

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete retained record")
	}

	return nil
}

// CreateDeletionLog appends a deletion audit-trail entry.
func (p *PostgreSQLRetentionRepository) CreateDeletionLog(
	ctx context.Context,
	log *retentionDomain.DeletionLog,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO deletion_logs (id, record_id, category, deleted_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		log.ID,
		log.RecordID,
		string(log.Category),
		log.DeletedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create deletion log")
	}

	return nil
}

// NewPostgreSQLRetentionRepository creates a new PostgreSQL retention repository.
func NewPostgreSQLRetentionRepository(db *sql.DB) *PostgreSQLRetentionRepository {
	return &PostgreSQLRetentionRepository{db: db}
}
