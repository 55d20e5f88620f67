// Package nlp holds the heuristic text rules the chat surface runs before and
// during tool calling: relative-date normalization, time-label resolution,
// booking-intent routing and best-effort argument extraction. The canonical
// eight-slot enumeration in models is the single source of truth; anything
// that does not resolve to it passes through unchanged.
package nlp

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// timeNow is swapped out by tests to pin the clock.
var timeNow = time.Now

var (
	todayRe            = regexp.MustCompile(`(?i)\btoday\b`)
	tomorrowRe         = regexp.MustCompile(`(?i)\btomorrow\b`)
	dayAfterTomorrowRe = regexp.MustCompile(`(?i)\bday\s+after\s+tomorrow\b`)

	isoDateRe = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)

	// "4:00 PM", "04:00pm" and friends.
	clockTimeRe = regexp.MustCompile(`(?i)^(0?[1-9]|1[0-6]):00(am|pm)$`)
)

// twentyFourHour maps the 24-hour forms the schedule recognizes onto labels.
var twentyFourHour = map[string]string{
	"09:00": "9:00 AM", "10:00": "10:00 AM", "11:00": "11:00 AM", "12:00": "12:00 PM",
	"13:00": "1:00 PM", "14:00": "2:00 PM", "15:00": "3:00 PM", "16:00": "4:00 PM",
}

// compactTwelveHour maps "9am".."4pm" forms onto labels.
var compactTwelveHour = map[string]string{
	"9am": "9:00 AM", "10am": "10:00 AM", "11am": "11:00 AM", "12pm": "12:00 PM",
	"1pm": "1:00 PM", "2pm": "2:00 PM", "3pm": "3:00 PM", "4pm": "4:00 PM",
}

// hourToLabel resolves an hour + meridiem to a canonical label, when in range.
func hourToLabel(hour int, meridiem string) (string, bool) {
	if meridiem == "AM" {
		switch hour {
		case 9, 10, 11:
			return fmt.Sprintf("%d:00 AM", hour), true
		}
		return "", false
	}
	switch hour {
	case 12:
		return "12:00 PM", true
	case 1, 2, 3, 4:
		return fmt.Sprintf("%d:00 PM", hour), true
	case 13, 14, 15, 16:
		return fmt.Sprintf("%d:00 PM", hour-12), true
	}
	return "", false
}

// NormalizeDate maps relative phrases onto ISO dates. "day after tomorrow" is
// matched before "tomorrow" so the longer phrase is consumed atomically.
// Unrecognized input is returned unchanged.
func NormalizeDate(value string) string {
	today := timeNow()
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "day after tomorrow":
		return today.AddDate(0, 0, 2).Format("2006-01-02")
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format("2006-01-02")
	case "today":
		return today.Format("2006-01-02")
	}
	return value
}

// NormalizeRelativeDates rewrites relative-date phrases inside free text,
// longest phrase first to avoid partial shadowing.
func NormalizeRelativeDates(text string) string {
	if text == "" {
		return text
	}
	today := timeNow()
	normalized := dayAfterTomorrowRe.ReplaceAllString(text, today.AddDate(0, 0, 2).Format("2006-01-02"))
	normalized = tomorrowRe.ReplaceAllString(normalized, today.AddDate(0, 0, 1).Format("2006-01-02"))
	normalized = todayRe.ReplaceAllString(normalized, today.Format("2006-01-02"))
	return normalized
}

// NormalizeTime maps 24-hour ("16:00"), compact 12-hour ("4pm") and spaced
// 12-hour ("4:00 PM") forms onto one of the eight canonical labels. Hours
// outside the 9:00–16:00 business day are not recognized and pass through
// unchanged.
func NormalizeTime(value string) string {
	v := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))

	if label, ok := twentyFourHour[v]; ok {
		return label
	}
	if label, ok := compactTwelveHour[v]; ok {
		return label
	}
	if m := clockTimeRe.FindStringSubmatch(v); m != nil {
		hour := 0
		fmt.Sscanf(m[1], "%d", &hour)
		if label, ok := hourToLabel(hour, strings.ToUpper(m[2])); ok {
			return label
		}
	}
	return value
}

// ContainsISODate reports whether text carries a YYYY-MM-DD date.
func ContainsISODate(text string) bool {
	return isoDateRe.MatchString(text)
}

// ContainsRelativeDate reports whether lowercased text mentions a relative day.
func ContainsRelativeDate(text string) bool {
	for _, p := range []string{"today", "tomorrow", "day after tomorrow"} {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
