package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for civil dates.
const DateLayout = "2006-01-02"

// Today returns the current civil date, truncated to midnight UTC.
func Today() time.Time {
	return TruncateToDate(time.Now())
}

// TruncateToDate drops the time-of-day component.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole civil days from one date to another. Negative
// when to precedes from.
func DaysBetween(from, to time.Time) int {
	f := TruncateToDate(from)
	t := TruncateToDate(to)
	return int(t.Sub(f).Hours() / 24)
}

// ParseDate parses a civil date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// GenerateBarcode builds a copy barcode from the owning work's id plus a
// random suffix, e.g. EX-1a2b3c4d-9f8e7d6c.
func GenerateBarcode(workID uuid.UUID) string {
	short := strings.ReplaceAll(workID.String(), "-", "")[:8]
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("EX-%s-%s", short, suffix)
}
