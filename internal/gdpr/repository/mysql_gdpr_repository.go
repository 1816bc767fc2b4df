package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/journeymanhq/dataprotect/internal/database"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	gdprDomain "github.com/journeymanhq/dataprotect/internal/gdpr/domain"
)

// MySQLGDPRRepository implements DSAR persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLGDPRRepository struct {
	db *sql.DB
}

// CreateExport inserts an export receipt.
func (m *MySQLGDPRRepository) CreateExport(
	ctx context.Context,
	export *gdprDomain.DataExport,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := export.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal export id")
	}

	userID, err := export.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO data_exports (id, user_id, created_at) VALUES (?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, userID, export.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create data export")
	}

	return nil
}

// ListExportsByUser retrieves a user's export receipts, newest first.
func (m *MySQLGDPRRepository) ListExportsByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*gdprDomain.DataExport, error) {
	querier := database.GetTx(ctx, m.db)

	userIDBinary, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, user_id, created_at FROM data_exports WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, userIDBinary)
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
		var idBinary, ownerBinary []byte

		if err := rows.Scan(&idBinary, &ownerBinary, &export.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan data export")
		}

		if err := export.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal export id")
		}
		if err := export.UserID.UnmarshalBinary(ownerBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal user id")
		}

		exports = append(exports, &export)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate data exports")
	}

	return exports, nil
}

// CreateDeletion inserts an account deletion record.
func (m *MySQLGDPRRepository) CreateDeletion(
	ctx context.Context,
	deletion *gdprDomain.AccountDeletion,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := deletion.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal deletion id")
	}

	userID, err := deletion.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO account_deletions (id, user_id, reason, deleted_at) VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, userID, deletion.Reason, deletion.DeletedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create account deletion")
	}

	return nil
}

// NewMySQLGDPRRepository creates a new MySQL DSAR repository.
func NewMySQLGDPRRepository(db *sql.DB) *MySQLGDPRRepository {
	return &MySQLGDPRRepository{db: db}
}
