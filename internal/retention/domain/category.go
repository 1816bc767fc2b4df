// Package domain defines the data categories and retention rules applied to
// stored personal data.
package domain

import (
	"fmt"

	"github.com/journeymanhq/dataprotect/internal/errors"
)

// DataCategory tags stored personal data with the retention class it belongs
// to. It carries no instance state and is used only as a lookup key.
type DataCategory string

const (
	// CategoryUserProfile covers account records; kept seven years after deletion.
	CategoryUserProfile DataCategory = "user_profile"
	// CategoryActivityLogs covers request/audit activity; kept 90 days.
	CategoryActivityLogs DataCategory = "activity_logs"
	// CategoryFinancialRecords covers billing data; kept seven years (legal requirement).
	CategoryFinancialRecords DataCategory = "financial_records"
	// CategoryMarketingData covers campaign and preference data; kept two years.
	CategoryMarketingData DataCategory = "marketing_data"
	// CategoryTemporaryData covers short-lived working data; kept 30 days.
	CategoryTemporaryData DataCategory = "temporary_data"
	// CategoryArchivedData is kept indefinitely until deletion is requested;
	// the retention scanner skips it.
	CategoryArchivedData DataCategory = "archived_data"
)

// ErrUnknownCategory indicates a category string that is not part of the
// closed DataCategory set. Note this applies to parsing external input only;
// retention-period lookup never fails and uses the safe default instead.
var ErrUnknownCategory = errors.Wrap(errors.ErrInvalidInput, "unknown data category")

// AllCategories returns every defined category, including archived_data.
func AllCategories() []DataCategory {
	return []DataCategory{
		CategoryUserProfile,
		CategoryActivityLogs,
		CategoryFinancialRecords,
		CategoryMarketingData,
		CategoryTemporaryData,
		CategoryArchivedData,
	}
}

// ParseCategory converts external input into a DataCategory.
func ParseCategory(s string) (DataCategory, error) {
	category := DataCategory(s)
	for _, known := range AllCategories() {
		if category == known {
			return category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// String implements fmt.Stringer.
func (c DataCategory) String() string {
	return string(c)
}
