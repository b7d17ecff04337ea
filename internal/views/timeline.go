package views

import (
	"fmt"
	"strings"
	"time"
)

const present = "Present"

// FormatDuration renders an optional month count. Absent durations render as
// an empty string so the caller can drop the segment.
func FormatDuration(months *int) string {
	if months == nil {
		return ""
	}
	return FormatMonths(*months)
}

// FormatMonths renders whole months as "11 months", "2 years" or "1y 1m".
func FormatMonths(months int) string {
	if months <= 0 {
		return ""
	}
	if months < 12 {
		return plural(months, "month")
	}

	years, rest := months/12, months%12
	if rest == 0 {
		return plural(years, "year")
	}
	return fmt.Sprintf("%dy %dm", years, rest)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
}

// FormatDate renders a timeline date as "Jan 2006". "present" in any case
// becomes "Present", a bare year is kept as is, and anything unparseable is
// returned unchanged.
func FormatDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, present) {
		return present
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("Jan 2006")
		}
	}

	if t, err := time.Parse("2006", trimmed); err == nil {
		return t.Format("2006")
	}

	return s
}

// FormatDateRange joins the formatted start and end dates.
func FormatDateRange(start, end string) string {
	return FormatDate(start) + " - " + FormatDate(end)
}
