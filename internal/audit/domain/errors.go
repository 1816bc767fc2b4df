package domain

import (
	"github.com/journeymanhq/dataprotect/internal/errors"
)

// Audit-specific error definitions.
var (
	// ErrAuditLogNotFound indicates the audit log entry does not exist.
	ErrAuditLogNotFound = errors.Wrap(errors.ErrNotFound, "audit log not found")
)
