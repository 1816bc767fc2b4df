package repository

import (
	"context"
	"database/sql"
	"errors"

	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	"github.com/journeymanhq/dataprotect/internal/database"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
)

// MySQLConsentRepository implements Consent persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLConsentRepository struct {
	db *sql.DB
}

// Create inserts a new consent record.
func (m *MySQLConsentRepository) Create(ctx context.Context, consent *consentDomain.Consent) error {
	querier := database.GetTx(ctx, m.db)

	id, err := consent.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal consent id")
	}

	query := `INSERT INTO consents (id, user_id, consent_type, status, purpose, ip_address, user_agent, granted_at, revoked_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		consent.UserID,
		consent.Type.String(),
		consent.Status.String(),
		consent.Purpose,
		consent.IPAddress,
		consent.UserAgent,
		consent.GrantedAt,
		consent.RevokedAt,
		consent.CreatedAt,
		consent.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create consent")
	}

	return nil
}

// Update persists changes to an existing consent record.
func (m *MySQLConsentRepository) Update(ctx context.Context, consent *consentDomain.Consent) error {
	querier := database.GetTx(ctx, m.db)

	id, err := consent.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal consent id")
	}

	query := `UPDATE consents
			  SET status = ?, purpose = ?, ip_address = ?, user_agent = ?, granted_at = ?, revoked_at = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		consent.Status.String(),
		consent.Purpose,
		consent.IPAddress,
		consent.UserAgent,
		consent.GrantedAt,
		consent.RevokedAt,
		consent.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update consent")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rowsAffected == 0 {
		return consentDomain.ErrConsentNotFound
	}

	return nil
}

// GetByUserAndType retrieves the consent record for a user and type.
func (m *MySQLConsentRepository) GetByUserAndType(
	ctx context.Context,
	userID string,
	consentType consentDomain.ConsentType,
) (*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, consent_type, status, purpose, ip_address, user_agent, granted_at, revoked_at, created_at, updated_at
			  FROM consents WHERE user_id = ? AND consent_type = ?`

	var consent consentDomain.Consent
	var idBinary []byte

	err := querier.QueryRowContext(ctx, query, userID, consentType.String()).Scan(
		&idBinary,
		&consent.UserID,
		&consent.Type,
		&consent.Status,
		&consent.Purpose,
		&consent.IPAddress,
		&consent.UserAgent,
		&consent.GrantedAt,
		&consent.RevokedAt,
		&consent.CreatedAt,
		&consent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, consentDomain.ErrConsentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get consent")
	}

	if err := consent.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal consent id")
	}

	return &consent, nil
}

// ListByUser retrieves all consent records for a user, newest first.
func (m *MySQLConsentRepository) ListByUser(
	ctx context.Context,
	userID string,
) ([]*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, consent_type, status, purpose, ip_address, user_agent, granted_at, revoked_at, created_at, updated_at
			  FROM consents WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list consents")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	consents := make([]*consentDomain.Consent, 0)
	for rows.Next() {
		var consent consentDomain.Consent
		var idBinary []byte

		err := rows.Scan(
			&idBinary,
			&consent.UserID,
			&consent.Type,
			&consent.Status,
			&consent.Purpose,
			&consent.IPAddress,
			&consent.UserAgent,
			&consent.GrantedAt,
			&consent.RevokedAt,
			&consent.CreatedAt,
			&consent.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan consent")
		}

		if err := consent.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal consent id")
		}

		consents = append(consents, &consent)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate consents")
	}

	return consents, nil
}

// NewMySQLConsentRepository creates a new MySQL Consent repository.
func NewMySQLConsentRepository(db *sql.DB) *MySQLConsentRepository {
	return &MySQLConsentRepository{db: db}
}
