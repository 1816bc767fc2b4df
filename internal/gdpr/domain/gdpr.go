// Package domain defines the core domain models for data subject access
// requests: export receipts and account deletion records.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeletionReasonRightToBeForgotten marks deletions triggered by an erasure request.
const DeletionReasonRightToBeForgotten = "right_to_be_forgotten"

// DataExport is the receipt of one data export request. Kept so the export
// itself can show the user's prior export activity.
type DataExport struct {
	// ID is the unique identifier for this export receipt.
	ID uuid.UUID
	// UserID identifies the data subject whose data was exported.
	UserID uuid.UUID
	// CreatedAt is the UTC timestamp when the export was produced.
	CreatedAt time.Time
}

// AccountDeletion records that a user account was anonymized.
// The record outlives the personal data it refers to.
type AccountDeletion struct {
	// ID is the unique identifier for this deletion record.
	ID uuid.UUID
	// UserID identifies the anonymized account.
	UserID uuid.UUID
	// Reason is why the account was deleted.
	Reason string
	// DeletedAt is the UTC timestamp when anonymization happened.
	DeletedAt time.Time
}
