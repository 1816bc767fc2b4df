package domain

import (
	"time"
)

// DefaultRetentionPeriod applies to archived_data and any unmapped category.
// Over-retaining an unknown category is safer than mishandling it, so lookup
// falls back to a year instead of failing.
const DefaultRetentionPeriod = 365 * 24 * time.Hour

// retentionPeriods is the static rule table. archived_data is deliberately
// absent: it is retained indefinitely and excluded from scanning, so a lookup
// for it only happens through the safe default.
var retentionPeriods = map[DataCategory]time.Duration{
	CategoryUserProfile:      7 * 365 * 24 * time.Hour,
	CategoryActivityLogs:     90 * 24 * time.Hour,
	CategoryFinancialRecords: 7 * 365 * 24 * time.Hour,
	CategoryMarketingData:    2 * 365 * 24 * time.Hour,
	CategoryTemporaryData:    30 * 24 * time.Hour,
}

// Clock supplies the current time. Injected so expiry decisions are testable.
type Clock func() time.Time

// Policy computes retention periods and expiry decisions for data categories.
// The rule table is immutable; a Policy is safe for unsynchronized concurrent use.
type Policy struct {
	now Clock
}

// NewPolicy creates a Policy using the real clock.
func NewPolicy() *Policy {
	return NewPolicyWithClock(time.Now)
}

// NewPolicyWithClock creates a Policy with an injected clock.
func NewPolicyWithClock(clock Clock) *Policy {
	return &Policy{now: clock}
}

// Period returns the retention duration for a category. Unmapped categories
// (including archived_data) return DefaultRetentionPeriod; this never fails.
func (p *Policy) Period(category DataCategory) time.Duration {
	if period, ok := retentionPeriods[category]; ok {
		return period
	}
	return DefaultRetentionPeriod
}

// IsExpired reports whether a record created at createdAt has exceeded its
// category's retention period. The comparison is strict: a record exactly at
// the boundary is not yet expired. Evaluation uses the injected clock in UTC.
func (p *Policy) IsExpired(createdAt time.Time, category DataCategory) bool {
	expiry := createdAt.Add(p.Period(category))
	return p.now().UTC().After(expiry)
}
