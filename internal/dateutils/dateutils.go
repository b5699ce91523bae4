// Package dateutils provides date handling for Indian financial reporting
// periods.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayoutISO is the layout used for all dates in XBRL instance documents.
const DateLayoutISO = "2006-01-02"

// instantFormats lists the layouts accepted for context dates. Filings
// occasionally carry full timestamps where plain dates are expected.
var instantFormats = []string{
	DateLayoutISO,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// ParseISODate parses a context date value. Trailing "Z" markers and time
// components are tolerated; only the calendar date is retained.
func ParseISODate(dateStr string) (time.Time, error) {
	cleaned := strings.TrimSpace(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	trimmed := strings.TrimSuffix(cleaned, "Z")
	for _, format := range instantFormats {
		if t, err := time.Parse(format, trimmed); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// FinancialYearFor returns the Indian financial-year label for a date.
// The financial year runs April 1 to March 31: a date in January 2024 falls
// in FY2023-24 while a date in April 2024 falls in FY2024-25.
func FinancialYearFor(date time.Time) (string, error) {
	if date.IsZero() {
		return "", fmt.Errorf("cannot derive financial year from zero date")
	}
	startYear := date.Year()
	if date.Month() < time.April {
		startYear--
	}
	endYear := startYear + 1
	return fmt.Sprintf("FY%d-%02d", startYear, endYear%100), nil
}
