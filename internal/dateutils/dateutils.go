// Package dateutils provides the date parsing used by the CAS pipeline.
// Statement layouts disagree on date formats even within one depository, so
// parsing tries a list of known layouts rather than a single format.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layout constants seen across CAS statements.
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutDashed    = "02-01-2006"
	DateLayoutSlashed   = "02/01/2006"
	DateLayoutDotted    = "02.01.2006"
	DateLayoutWithMonth = "02-Jan-2006"
	DateLayoutMonthFull = "02 January 2006"
)

// CommonFormats is the ordered list of layouts tried when parsing. Layouts
// with named months come first because they are unambiguous.
var CommonFormats = []string{
	DateLayoutWithMonth,
	"2-Jan-2006",
	"02 Jan 2006",
	DateLayoutMonthFull,
	DateLayoutISO,
	DateLayoutDashed,
	DateLayoutSlashed,
	DateLayoutDotted,
	"2006/01/02",
}

var spaceRe = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using the known CAS layouts.
// Returns the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// LooksLikeDate reports whether the string parses under any known layout.
// Used by the row classifier, which must not treat "N/A" or a folio number
// as a date.
func LooksLikeDate(s string) bool {
	_, _, err := ParseDate(s)
	return err == nil
}

// CleanDateString trims and collapses whitespace in a date string.
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return spaceRe.ReplaceAllString(dateStr, " ")
}

// Truncate drops the time-of-day component, normalizing to midnight UTC.
// All parsed transaction dates use this single calendar representation.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// minPlausible is the earliest date a statement row can plausibly carry.
var minPlausible = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// InPlausibleRange reports whether the date falls within [1900-01-01, now].
// now is passed in by the caller so one pipeline run uses a single
// processing timestamp throughout.
func InPlausibleRange(t, now time.Time) bool {
	return !t.Before(minPlausible) && !t.After(now)
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}
