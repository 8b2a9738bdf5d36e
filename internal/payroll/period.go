package payroll

import (
	"time"

	payrollerrors "go-payroll/internal/payroll/errors"
)

var periodLayouts = []string{"2006-01", "2006-01-02"}

// ParsePeriod canonicalizes a caller-supplied period string to the first
// day of its month in UTC. Any date inside a month addresses that month's
// payroll run; unparseable input fails before any other work happens.
func ParsePeriod(v string) (time.Time, error) {
	for _, layout := range periodLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, payrollerrors.ErrInvalidPeriod
}

// FormatPeriod is the inverse of ParsePeriod for responses and events.
func FormatPeriod(periodKey time.Time) string {
	return periodKey.Format("2006-01")
}
