package rules

import (
	"errors"
	"regexp"
	"time"
)

// FoundationDateLayout is the wire and input layout of organizational foundation dates.
const FoundationDateLayout = "02/01/2006"

var (
	ErrDateFormat = errors.New("date must use the DD/MM/YYYY format")
	ErrDateFuture = errors.New("date is invalid or in the future")

	foundationDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// ParseFoundationDate parses a DD/MM/YYYY date that must exist on the calendar and
// must not be after now.
func ParseFoundationDate(s string, now time.Time) (time.Time, error) {
	if !foundationDatePattern.MatchString(s) {
		return time.Time{}, ErrDateFormat
	}

	// time.Parse rejects impossible days such as 31/02.
	date, err := time.ParseInLocation(FoundationDateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, ErrDateFuture
	}
	if date.After(now) {
		return time.Time{}, ErrDateFuture
	}
	return date, nil
}
