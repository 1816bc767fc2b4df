package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
	"github.com/journeymanhq/dataprotect/internal/audit/http/dto"
)

// mockAuditLogUseCase is a mock implementation of AuditLogUseCase for testing.
type mockAuditLogUseCase struct {
	mock.Mock
}

func (m *mockAuditLogUseCase) Create(
	ctx context.Context,
	actor, action, resourceType, resourceID string,
	metadata map[string]any,
) error {
	args := m.Called(ctx, actor, action, resourceType, resourceID, metadata)
	return args.Error(0)
}

func (m *mockAuditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditLog, error) {
	args := m.Called(ctx, offset, limit, createdAtFrom, createdAtTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditLog), args.Error(1)
}

func (m *mockAuditLogUseCase) ListByActor(
	ctx context.Context,
	actor string,
	limit int,
) ([]*auditDomain.AuditLog, error) {
	args := m.Called(ctx, actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditLog), args.Error(1)
}

func (m *mockAuditLogUseCase) DeleteOlderThan(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*AuditLogHandler, *mockAuditLogUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mockAuditLogUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewAuditLogHandler(mockUseCase, logger)

	return handler, mockUseCase
}

// createTestContext creates a test Gin context for the given query string.
func createTestContext(query string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodGet, "/v1/audit-logs"+query, nil)
	c.Request = req

	return c, w
}

func TestAuditLogHandler_ListHandler(t *testing.T) {
	t.Run("Success_DefaultPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		now := time.Now().UTC()
		auditLogs := []*auditDomain.AuditLog{
			{
				ID:           uuid.Must(uuid.NewV7()),
				Actor:        "user-1",
				Action:       auditDomain.ActionConsentRecorded,
				ResourceType: "consent",
				ResourceID:   "consent-1",
				Metadata:     map[string]any{"consent_type": "marketing"},
				CreatedAt:    now,
			},
		}

		mockUseCase.On("List", mock.Anything, 0, 50, (*time.Time)(nil), (*time.Time)(nil)).
			Return(auditLogs, nil).
			Once()

		c, w := createTestContext("")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)

		var response dto.ListAuditLogsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "user-1", response.Data[0].Actor)
		assert.Equal(t, auditDomain.ActionConsentRecorded, response.Data[0].Action)
	})

	t.Run("Success_WithTimeFilters", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 2, 14, 23, 59, 59, 0, time.UTC)

		mockUseCase.On("List", mock.Anything, 10, 20, &from, &to).
			Return([]*auditDomain.AuditLog{}, nil).
			Once()

		c, w := createTestContext(
			"?offset=10&limit=20&created_at_from=2026-02-01T00:00:00Z&created_at_to=2026-02-14T23:59:59Z")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidOffset", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext("?offset=-1")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List")
	})

	t.Run("Error_LimitTooLarge", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext("?limit=500")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List")
	})

	t.Run("Error_InvalidTimeFormat", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext("?created_at_from=yesterday")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "created_at_from")
		mockUseCase.AssertNotCalled(t, "List")
	})

	t.Run("Error_FromAfterTo", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(
			"?created_at_from=2026-02-14T00:00:00Z&created_at_to=2026-02-01T00:00:00Z")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List")
	})

	t.Run("Error_UseCaseFailure", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("List", mock.Anything, 0, 50, (*time.Time)(nil), (*time.Time)(nil)).
			Return(nil, errors.New("database down")).
			Once()

		c, w := createTestContext("")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
