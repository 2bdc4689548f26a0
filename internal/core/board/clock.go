package board

import (
	"fmt"
	"time"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

// ClockLayout renders 22:36:00 as "22:36.00".
const ClockLayout = "15:04.05"

// FormatClock converts a zoned ISO 8601 timestamp such as
// "2025-03-19T22:36:00+01:00" into "22:36.00", keeping the timestamp's own
// offset. Timestamps without an offset are rejected.
func FormatClock(ts string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", domain.ErrInvalidTimestamp, ts, err)
	}
	return t.Format(ClockLayout), nil
}
