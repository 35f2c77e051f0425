package streak

import (
	"fmt"
	"time"

	"github.com/julianstephens/deedlog/internal/constants"
)

// ToDateKey returns the YYYY-MM-DD key of the UTC calendar day containing t.
//
// Keys are always derived from the UTC day, never the local one. Persisted
// journals were written with this rule, so a check-in made late in the
// evening west of Greenwich lands on the following UTC day.
func ToDateKey(t time.Time) string {
	return t.UTC().Format(constants.DateFormat)
}

// AddDays moves t by n UTC calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.UTC().AddDate(0, 0, n)
}

// ParseDateKey parses a YYYY-MM-DD key into midnight UTC of that day.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// IsDateKey reports whether key is a canonical YYYY-MM-DD key.
func IsDateKey(key string) bool {
	t, err := ParseDateKey(key)
	if err != nil {
		return false
	}
	return ToDateKey(t) == key
}

// MonthKey returns the YYYY-MM prefix shared by every date key in t's UTC month.
func MonthKey(t time.Time) string {
	return t.UTC().Format(constants.MonthFormat)
}
