package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/journeymanhq/dataprotect/internal/errors"
)

// RetainedRecord is an entry in the retention registry: a pointer to a piece
// of stored personal data, tagged with its category and creation time. The
// scanner decides expiry from (CreatedAt, Category) alone; the registry never
// holds the data itself.
type RetainedRecord struct {
	ID        uuid.UUID
	RecordID  string
	Category  DataCategory
	CreatedAt time.Time
}

// DeletionLog is the audit-trail entry appended for every record removed by
// the retention scanner.
type DeletionLog struct {
	ID        uuid.UUID
	RecordID  string
	Category  DataCategory
	DeletedAt time.Time
}

// Domain-specific errors for retention operations.
var (
	// ErrRecordNotFound indicates the registry entry does not exist.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "retained record not found")

	// ErrArchivedNotScannable indicates an attempt to run the scanner against
	// archived_data, which is retained indefinitely.
	ErrArchivedNotScannable = errors.Wrap(
		errors.ErrInvalidInput,
		"archived_data is retained indefinitely and cannot be scanned",
	)
)
