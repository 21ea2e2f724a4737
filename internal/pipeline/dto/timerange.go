package dto

import (
	"fmt"
	"time"
)

// ParseTimeRange parses optional RFC3339 "from"/"to" query parameters.
// Missing bounds default to the trailing def window ending now.
func ParseTimeRange(fromStr, toStr string, def time.Duration) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.Add(-def)
	to := now

	var err error
	if fromStr != "" {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'from' timestamp: %w", err)
		}
	}
	if toStr != "" {
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'to' timestamp: %w", err)
		}
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("'from' must be before 'to'")
	}
	return from, to, nil
}
