package schedule

import (
	"strings"

	"washbot/models"
)

// Cell states derived from a raw grid value.
type cellState int

const (
	cellAvailable cellState = iota
	cellBlackout
	cellBooked
)

// classifyCell interprets one raw cell value. Empty means available; the
// blackout marker is matched case-insensitively.
func classifyCell(value string) cellState {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return cellAvailable
	}
	if strings.EqualFold(trimmed, models.BlackoutMarker) {
		return cellBlackout
	}
	return cellBooked
}

// rowForDate finds the 0-based data-row index whose Date column equals date.
// values includes the header row at index 0. Returns -1 when absent.
func rowForDate(values [][]any, date string) int {
	for i := 1; i < len(values); i++ {
		if len(values[i]) > 0 && cellString(values[i][0]) == date {
			return i
		}
	}
	return -1
}

// columnForTime finds the 0-based column index of a time label in the header
// row. Returns -1 when absent.
func columnForTime(header []any, timeLabel string) int {
	for i, h := range header {
		if cellString(h) == timeLabel {
			return i
		}
	}
	return -1
}

// cellAt returns the raw value at (row, col), tolerating short rows: the
// Sheets API drops trailing empty cells.
func cellAt(row []any, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return cellString(row[col])
}

func cellString(v any) string {
	s, _ := v.(string)
	return s
}

// columnLetter converts a 0-based column index to its A1-notation letter.
func columnLetter(col int) string {
	letters := ""
	for col >= 0 {
		letters = string(rune('A'+col%26)) + letters
		col = col/26 - 1
	}
	return letters
}
