// Package dto contains response types for audit log endpoints.
package dto

import (
	"time"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
)

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	Actor        string         `json:"actor"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// MapAuditLogToResponse converts a domain audit log to an API response.
func MapAuditLogToResponse(auditLog *auditDomain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:           auditLog.ID.String(),
		Actor:        auditLog.Actor,
		Action:       auditLog.Action,
		ResourceType: auditLog.ResourceType,
		ResourceID:   auditLog.ResourceID,
		Metadata:     auditLog.Metadata,
		CreatedAt:    auditLog.CreatedAt,
	}
}

// ListAuditLogsResponse represents a paginated list of audit logs.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogsToListResponse converts a slice of domain audit logs to a list API response.
func MapAuditLogsToListResponse(auditLogs []*auditDomain.AuditLog) ListAuditLogsResponse {
	responses := make([]AuditLogResponse, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		responses = append(responses, MapAuditLogToResponse(auditLog))
	}
	return ListAuditLogsResponse{
		Data: responses,
	}
}
