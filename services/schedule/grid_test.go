package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCell(t *testing.T) {
	tests := []struct {
		value string
		want  cellState
	}{
		{"", cellAvailable},
		{"   ", cellAvailable},
		{"suday", cellBlackout},
		{"SUDAY", cellBlackout},
		{"SuDay", cellBlackout},
		{" suday ", cellBlackout},
		{"Taha-9999", cellBooked},
		{"sudays", cellBooked},
	}
	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyCell(tt.value))
		})
	}
}

func testGrid() [][]any {
	return [][]any{
		{"Date", "9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM"},
		{"2026-03-10", "Taha-9999", "", "suday"},
		{"2026-03-11", "", ""},
	}
}

func TestRowForDate(t *testing.T) {
	grid := testGrid()
	assert.Equal(t, 1, rowForDate(grid, "2026-03-10"))
	assert.Equal(t, 2, rowForDate(grid, "2026-03-11"))
	assert.Equal(t, -1, rowForDate(grid, "2026-03-12"))
	// The header row never matches a date.
	assert.Equal(t, -1, rowForDate(grid, "Date"))
}

func TestColumnForTime(t *testing.T) {
	header := testGrid()[0]
	assert.Equal(t, 1, columnForTime(header, "9:00 AM"))
	assert.Equal(t, 8, columnForTime(header, "4:00 PM"))
	assert.Equal(t, -1, columnForTime(header, "5:00 PM"))
}

func TestCellAtToleratesShortRows(t *testing.T) {
	row := testGrid()[2]
	assert.Equal(t, "", cellAt(row, 1))
	// Trailing cells the API dropped read as available.
	assert.Equal(t, "", cellAt(row, 8))
	assert.Equal(t, "", cellAt(row, -1))
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(0))
	assert.Equal(t, "I", columnLetter(8))
	assert.Equal(t, "Z", columnLetter(25))
	assert.Equal(t, "AA", columnLetter(26))
}
