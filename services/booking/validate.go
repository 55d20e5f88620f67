package booking

import (
	"regexp"
	"strings"
	"time"

	"washbot/models"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// timeNow is swapped out by tests to pin the clock.
var timeNow = time.Now

// validateBookingParams checks a date (and optionally a time) before any store
// call. Returns the list of human-readable problems; empty means valid.
func validateBookingParams(date, timeLabel string) []string {
	var errs []string

	if !isoDatePattern.MatchString(date) {
		errs = append(errs, "Date must be in YYYY-MM-DD format")
	} else if parsed, err := time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
		errs = append(errs, "Invalid date provided")
	} else {
		today := timeNow()
		midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
		if parsed.Before(midnight) {
			errs = append(errs, "Cannot book appointments in the past")
		}
	}

	if timeLabel != "" && !models.IsCanonicalTime(timeLabel) {
		errs = append(errs, "Invalid time slot. Available: "+strings.Join(models.TimeColumns, ", "))
	}

	return errs
}
