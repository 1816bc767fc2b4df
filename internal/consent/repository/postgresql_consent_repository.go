// Package repository implements consent persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	"github.com/journeymanhq/dataprotect/internal/database"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
)

// PostgreSQLConsentRepository implements Consent persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLConsentRepository struct {
	db *sql.DB
}

// Create inserts a new consent record.
func (p *PostgreSQLConsentRepository) Create(ctx context.Context, consent *consentDomain.Consent) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO consents (id, user_id, consent_type, status, purpose, ip_address, user_agent, granted_at, revoked_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		consent.ID,
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
func (p *PostgreSQLConsentRepository) Update(ctx context.Context, consent *consentDomain.Consent) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE consents
			  SET status = $1, purpose = $2, ip_address = $3, user_agent = $4, granted_at = $5, revoked_at = $6, updated_at = $7
			  WHERE id = $8`

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
		consent.ID,
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
func (p *PostgreSQLConsentRepository) GetByUserAndType(
	ctx context.Context,
	userID string,
	consentType consentDomain.ConsentType,
) (*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, consent_type, status, purpose, ip_address, user_agent, granted_at, revoked_at, created_at, updated_at
			  FROM consents WHERE user_id = $1 AND consent_type = $2`

	var consent consentDomain.Consent
	err := querier.QueryRowContext(ctx, query, userID, consentType.String()).Scan(
		&consent.ID,
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

	return &consent, nil
}

// ListByUser retrieves all consent records for a user, newest first.
func (p *PostgreSQLConsentRepository) ListByUser(
	ctx context.Context,
	userID string,
) ([]*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, consent_type, status, purpose, ip_address, user_agent, granted_at, revoked_at, created_at, updated_at
			  FROM consents WHERE user_id = $1 ORDER BY created_at DESC`

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
		err := rows.Scan(
			&consent.ID,
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

		consents = append(consents, &consent)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate consents")
	}

	return consents, nil
}

// NewPostgreSQLConsentRepository creates a new PostgreSQL Consent repository.
func NewPostgreSQLConsentRepository(db *sql.DB) *PostgreSQLConsentRepository {
	return &PostgreSQLConsentRepository{db: db}
}
