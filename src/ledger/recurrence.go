package ledger

import (
	"time"

	"wealth-server/src/models"
)

// NextRecurringDate returns date advanced by one interval, or nil when the transaction does
// not recur. Month and year steps use time.AddDate, so Jan 31 + 1 month normalizes into March.
func NextRecurringDate(date time.Time, isRecurring bool, interval models.RecurringInterval) *time.Time {
	if !isRecurring || interval == "" {
		return nil
	}

	var next time.Time
	switch interval {
	case models.IntervalDaily:
		next = date.AddDate(0, 0, 1)
	case models.IntervalWeekly:
		next = date.AddDate(0, 0, 7)
	case models.IntervalMonthly:
		next = date.AddDate(0, 1, 0)
	case models.IntervalYearly:
		next = date.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &next
}
