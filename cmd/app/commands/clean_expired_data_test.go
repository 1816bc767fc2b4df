package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
	retentionUsecase "github.com/journeymanhq/dataprotect/internal/retention/usecase"
)

type mockRetentionUseCase struct {
	mock.Mock
}

func (m *mockRetentionUseCase) Track(
	ctx context.Context,
	recordID string,
	category retentionDomain.DataCategory,
) (*retentionDomain.RetainedRecord, error) {
	args := m.Called(ctx, recordID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionDomain.RetainedRecord), args.Error(1)
}

func (m *mockRetentionUseCase) DeleteExpired(
	ctx context.Context,
	category retentionDomain.DataCategory,
	dryRun bool,
) (*retentionUsecase.CleanupResult, error) {
	args := m.Called(ctx, category, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionUsecase.CleanupResult), args.Error(1)
}

func (m *mockRetentionUseCase) CleanupAll(
	ctx context.Context,
	dryRun bool,
) ([]*retentionUsecase.CleanupResult, error) {
	args := m.Called(ctx, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*retentionUsecase.CleanupResult), args.Error(1)
}

func TestRunCleanExpiredData(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("single-category-text-output", func(t *testing.T) {
		mockUseCase := &mockRetentionUseCase{}
		mockUseCase.On("DeleteExpired", ctx, retentionDomain.CategoryActivityLogs, false).
			Return(&retentionUsecase.CleanupResult{
				Category: retentionDomain.CategoryActivityLogs,
				Expired:  7,
				Deleted:  7,
			}, nil)

		var out bytes.Buffer
		err := RunCleanExpiredData(ctx, mockUseCase, logger, &out, "activity_logs", false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 7 expired record(s) in category activity_logs")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("all-categories-dry-run", func(t *testing.T) {
		mockUseCase := &mockRetentionUseCase{}
		mockUseCase.On("CleanupAll", ctx, true).
			Return([]*retentionUsecase.CleanupResult{
				{Category: retentionDomain.CategoryTemporaryData, Expired: 3, DryRun: true},
				{Category: retentionDomain.CategoryMarketingData, Expired: 1, DryRun: true},
			}, nil)

		var out bytes.Buffer
		err := RunCleanExpiredData(ctx, mockUseCase, logger, &out, "", true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Would delete 3 expired record(s) in category temporary_data")
		require.Contains(t, out.String(), "Would delete 1 expired record(s) in category marketing_data")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockRetentionUseCase{}
		mockUseCase.On("DeleteExpired", ctx, retentionDomain.CategoryTemporaryData, true).
			Return(&retentionUsecase.CleanupResult{
				Category: retentionDomain.CategoryTemporaryData,
				Expired:  5,
				DryRun:   true,
			}, nil)

		var out bytes.Buffer
		err := RunCleanExpiredData(ctx, mockUseCase, logger, &out, "temporary_data", true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"expired": 5`)
		require.Contains(t, out.String(), `"dry_run": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-category", func(t *testing.T) {
		mockUseCase := &mockRetentionUseCase{}

		err := RunCleanExpiredData(ctx, mockUseCase, logger, &bytes.Buffer{}, "bogus", false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid category")
		mockUseCase.AssertNotCalled(t, "DeleteExpired")
	})

	t.Run("use-case-failure", func(t *testing.T) {
		mockUseCase := &mockRetentionUseCase{}
		mockUseCase.On("CleanupAll", ctx, false).
			Return(nil, context.DeadlineExceeded)

		err := RunCleanExpiredData(ctx, mockUseCase, logger, &bytes.Buffer{}, "", false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to clean expired data")
		mockUseCase.AssertExpectations(t)
	})
}
