package nlp

import (
	"fmt"
	"regexp"
	"strings"
)

// Best-effort extraction rules for the direct-booking short circuit. These are
// pre-filters, not a grammar: whatever they yield still has to pass the tool
// executor's validation before it reaches the store.
var (
	spacedTimeRe   = regexp.MustCompile(`(?i)\b(0?[1-9]|1[0-6]):00\s*(AM|PM)\b`)
	bareHourRe     = regexp.MustCompile(`(?i)\b(9|10|11|12|1|2|3|4)\s*(?:o'clock)?\s*(AM|PM)\b`)
	twentyFourRe   = regexp.MustCompile(`\b(09|10|11|12|13|14|15|16):00\b`)
	labeledUserRe  = regexp.MustCompile(`(?i)user\s*id\s*[:\-]?\s*([A-Za-z0-9\-]+)`)
	hyphenedUserRe = regexp.MustCompile(`\b[A-Za-z0-9]+(?:-[A-Za-z0-9]+)+\b`)
)

// ExtractDate pulls an ISO or relative date out of free text. Empty when none.
func ExtractDate(text string) string {
	if m := isoDateRe.FindString(text); m != "" {
		return m
	}
	low := strings.ToLower(text)
	// Longest phrase first, same precedence as normalization.
	switch {
	case strings.Contains(low, "day after tomorrow"):
		return NormalizeDate("day after tomorrow")
	case strings.Contains(low, "tomorrow"):
		return NormalizeDate("tomorrow")
	case strings.Contains(low, "today"):
		return NormalizeDate("today")
	}
	return ""
}

// ExtractTime pulls a time reference out of free text and resolves it to a
// canonical label. Empty when nothing resolves.
func ExtractTime(text string) string {
	if m := spacedTimeRe.FindStringSubmatch(text); m != nil {
		hour := 0
		fmt.Sscanf(m[1], "%d", &hour)
		if label, ok := hourToLabel(hour, strings.ToUpper(m[2])); ok {
			return label
		}
	}
	if m := twentyFourRe.FindStringSubmatch(text); m != nil {
		return twentyFourHour[m[1]+":00"]
	}
	if m := bareHourRe.FindStringSubmatch(text); m != nil {
		hour := 0
		fmt.Sscanf(m[1], "%d", &hour)
		if label, ok := hourToLabel(hour, strings.ToUpper(m[2])); ok {
			return label
		}
	}
	return ""
}

// ExtractUserID pulls a user identifier out of free text: an explicit
// "user id: X" label, or a hyphenated token like "Taha-9999". Empty when none.
func ExtractUserID(text string) string {
	if m := labeledUserRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := hyphenedUserRe.FindString(text); m != "" {
		return m
	}
	return ""
}
