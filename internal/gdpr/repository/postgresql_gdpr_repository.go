// Package repository implements DSAR persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/journeymanhq/dataprotect/internal/database"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	gdprDomain "github.com/journeymanhq/dataprotect/internal/gdpr/domain"
)

// PostgreSQLGDPRRepository implements DSAR persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLGDPRRepository struct {
	db *sql.DB
}

// CreateExport inserts an export receipt.
func (p *PostgreSQLGDPRRepository) CreateExport(
	ctx context.Context,
	export *gdprDomain.DataExport,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO data_exports (id, user_id, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, export.ID, export.UserID, export.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create data export")
	}

	return nil
}

// ListExportsByUser retrieves a user's export receipts, newest first.
func (p *PostgreSQLGDPRRepository) ListExportsByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*gdprDomain.DataExport, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, created_at FROM data_exports WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list data exports")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	exports := make([]*gdprDomain.DataExport, 0)
	for rows.Next() {
		var export gdprDomain.DataExport
		if err := rows.Scan(&export.ID, &export.UserID, &export.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan data export")
		}

		exports = append(exports, &export)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate data exports")
	}

	return exports, nil
}

// CreateDeletion inserts an account deletion record.
func (p *PostgreSQLGDPRRepository) CreateDeletion(
	ctx context.Context,
	deletion *gdprDomain.AccountDeletion,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO account_deletions (id, user_id, reason, deleted_at) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		deletion.ID,
		deletion.UserID,
		deletion.Reason,
		deletion.DeletedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create account deletion")
	}

	return nil
}

// NewPostgreSQLGDPRRepository creates a new PostgreSQL DSAR repository.
func NewPostgreSQLGDPRRepository(db *sql.DB) *PostgreSQLGDPRRepository {
	return &PostgreSQLGDPRRepository{db: db}
}
