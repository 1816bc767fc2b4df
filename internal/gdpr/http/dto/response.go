package dto

import (
	"time"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
	consentDTO "github.com/journeymanhq/dataprotect/internal/consent/http/dto"
	gdprDomain "github.com/journeymanhq/dataprotect/internal/gdpr/domain"
	gdprUseCase "github.com/journeymanhq/dataprotect/internal/gdpr/usecase"
	userDomain "github.com/journeymanhq/dataprotect/internal/user/domain"
)

// UserResponse represents a user in DSAR responses.
// The password hash never leaves storage.
type UserResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *userDomain.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		Username:   user.Username,
		Email:      user.Email,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		LastLogin:  user.LastLogin,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// AuditLogEntry represents one audit trail entry in an export.
type AuditLogEntry struct {
	ID           string         `json:"id"`
	Actor        string         `json:"actor"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ExportReceipt represents one export receipt in the export history.
type ExportReceipt struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportResponse is the complete data set returned for an export request.
type ExportResponse struct {
	User          UserResponse                 `json:"user"`
	Consents      []consentDTO.ConsentResponse `json:"consents"`
	AuditLogs     []AuditLogEntry              `json:"audit_logs"`
	ExportHistory []ExportReceipt              `json:"export_history"`
	DataSummary   gdprUseCase.DataSummary      `json:"data_summary"`
}

// MapExportToResponse converts an export result to an API response.
func MapExportToResponse(result *gdprUseCase.ExportResult) ExportResponse {
	consents := make([]consentDTO.ConsentResponse, 0, len(result.Consents))
	for _, consent := range result.Consents {
		consents = append(consents, consentDTO.MapConsentToResponse(consent))
	}

	auditLogs := make([]AuditLogEntry, 0, len(result.AuditLogs))
	for _, entry := range result.AuditLogs {
		auditLogs = append(auditLogs, mapAuditLogEntry(entry))
	}

	exportHistory := make([]ExportReceipt, 0, len(result.ExportHistory))
	for _, export := range result.ExportHistory {
		exportHistory = append(exportHistory, mapExportReceipt(export))
	}

	return ExportResponse{
		User:          MapUserToResponse(result.User),
		Consents:      consents,
		AuditLogs:     auditLogs,
		ExportHistory: exportHistory,
		DataSummary:   result.DataSummary,
	}
}

func mapAuditLogEntry(entry *auditDomain.AuditLog) AuditLogEntry {
	return AuditLogEntry{
		ID:           entry.ID.String(),
		Actor:        entry.Actor,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Metadata:     entry.Metadata,
		CreatedAt:    entry.CreatedAt,
	}
}

func mapExportReceipt(export *gdprDomain.DataExport) ExportReceipt {
	return ExportReceipt{
		ID:        export.ID.String(),
		UserID:    export.UserID.String(),
		CreatedAt: export.CreatedAt,
	}
}

// AnonymizeResponse represents the outcome of an erasure request.
type AnonymizeResponse struct {
	UserID             string    `json:"user_id"`
	AnonymizedEmail    string    `json:"anonymized_email"`
	AnonymizedUsername string    `json:"anonymized_username"`
	DeletedAt          time.Time `json:"deleted_at"`
}

// MapAnonymizeToResponse converts an erasure result to an API response.
func MapAnonymizeToResponse(result *gdprUseCase.AnonymizeResult) AnonymizeResponse {
	return AnonymizeResponse{
		UserID:             result.UserID.String(),
		AnonymizedEmail:    result.AnonymizedEmail,
		AnonymizedUsername: result.AnonymizedUsername,
		DeletedAt:          result.DeletedAt,
	}
}
