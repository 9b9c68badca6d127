package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(from, from))
	assert.Equal(t, 4, DaysBetween(from, from.AddDate(0, 0, 4)))
	assert.Equal(t, -2, DaysBetween(from, from.AddDate(0, 0, -2)))

	// time-of-day must not leak into the count
	noon := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	nextMorning := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(noon, nextMorning))
}

func TestTruncateToDate(t *testing.T) {
	got := TruncateToDate(time.Date(2026, 3, 10, 23, 59, 58, 123, time.FixedZone("X", 3600)))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-10")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("10/03/2026")
	assert.Error(t, err)
}

func TestGenerateBarcode(t *testing.T) {
	workID := uuid.New()
	barcode := GenerateBarcode(workID)

	assert.Regexp(t, regexp.MustCompile(`^EX-[0-9a-f]{8}-[0-9a-f]{8}$`), barcode)
	assert.NotEqual(t, barcode, GenerateBarcode(workID))
}
