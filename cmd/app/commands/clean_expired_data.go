package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
	retentionUsecase "github.com/journeymanhq/dataprotect/internal/retention/usecase"
)

// RunCleanExpiredData deletes retained records whose retention window has
// elapsed. With an empty category it scans every scannable category; with a
// category it scans only that one. Supports dry-run mode to preview deletion
// counts and both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredData(
	ctx context.Context,
	useCase retentionUsecase.RetentionUseCase,
	logger *slog.Logger,
	out io.Writer,
	category string,
	dryRun bool,
	format string,
) error {
	logger.Info("cleaning expired data",
		slog.String("category", category),
		slog.Bool("dry_run", dryRun),
	)

	var results []*retentionUsecase.CleanupResult

	if category == "" {
		allResults, err := useCase.CleanupAll(ctx, dryRun)
		if err != nil {
			return fmt.Errorf("failed to clean expired data: %w", err)
		}
		results = allResults
	} else {
		parsed, err := retentionDomain.ParseCategory(category)
		if err != nil {
			return fmt.Errorf("invalid category: %w", err)
		}

		result, err := useCase.DeleteExpired(ctx, parsed, dryRun)
		if err != nil {
			return fmt.Errorf("failed to clean expired data: %w", err)
		}
		results = []*retentionUsecase.CleanupResult{result}
	}

	if format == "json" {
		if err := outputCleanupJSON(out, results); err != nil {
			return err
		}
	} else {
		outputCleanupText(out, results)
	}

	for _, result := range results {
		logger.Info("cleanup completed",
			slog.String("category", string(result.Category)),
			slog.Int64("expired", result.Expired),
			slog.Int64("deleted", result.Deleted),
			slog.Bool("dry_run", result.DryRun),
		)
	}

	return nil
}

// outputCleanupText writes the results in human-readable text format.
func outputCleanupText(out io.Writer, results []*retentionUsecase.CleanupResult) {
	for _, result := range results {
		if result.DryRun {
			fmt.Fprintf(out, "Dry-run mode: Would delete %d expired record(s) in category %s\n",
				result.Expired, result.Category)
		} else {
			fmt.Fprintf(out, "Successfully deleted %d expired record(s) in category %s\n",
				result.Deleted, result.Category)
		}
	}
}

// outputCleanupJSON writes the results in JSON format for machine consumption.
func outputCleanupJSON(out io.Writer, results []*retentionUsecase.CleanupResult) error {
	jsonBytes, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(out, string(jsonBytes))
	return nil
}
