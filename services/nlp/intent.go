package nlp

import (
	"strings"

	"washbot/models"
)

// Keyword sets for the booking-intent signal. The history set also matches the
// plural "slots" the model tends to use when listing availability.
var (
	bookingKeywords = []string{"book", "appointment", "schedule", "slot", "service", "wash"}
	contextKeywords = []string{"slot", "slots", "appointment", "book", "schedule", "service", "wash"}
)

const (
	bookingContextWindow = 3
	dateContextWindow    = 5
)

// ShouldEnableTools decides whether the orchestrator attaches the booking tool
// schemas for this turn. Both signals are required: booking vocabulary (or
// recent model-side booking context) AND a date reference (in the message or
// recent history). A date alone or booking words alone never trigger tools.
func ShouldEnableTools(message string, history []models.Turn) bool {
	lower := strings.ToLower(message)

	bookingIntent := HasBookingKeyword(message) || hasBookingContext(history)
	hasDate := ContainsISODate(lower) || ContainsRelativeDate(lower) || historyContainsDate(history)

	return bookingIntent && hasDate
}

// HasBookingKeyword reports whether the lowercased message carries any of the
// booking vocabulary.
func HasBookingKeyword(message string) bool {
	return containsAny(strings.ToLower(message), bookingKeywords)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// hasBookingContext looks for booking vocabulary in recent model turns.
func hasBookingContext(history []models.Turn) bool {
	for _, turn := range tail(history, bookingContextWindow) {
		if turn.Role != "model" {
			continue
		}
		if containsAny(strings.ToLower(turn.Text), contextKeywords) {
			return true
		}
	}
	return false
}

// historyContainsDate looks for any date reference in recent turns.
func historyContainsDate(history []models.Turn) bool {
	for _, turn := range tail(history, dateContextWindow) {
		text := strings.ToLower(turn.Text)
		if ContainsISODate(text) || ContainsRelativeDate(text) {
			return true
		}
	}
	return false
}

func tail(history []models.Turn, n int) []models.Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
