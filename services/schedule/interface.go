// Package schedule is the slot-store adapter: a date-row by time-column grid
// kept in a Google Sheets worksheet. A cell is empty (available), the blackout
// marker (not offered) or an occupant id (booked).
package schedule

import (
	"context"
	"fmt"

	"washbot/models"
)

// SlotRepository reads and writes the appointment grid.
type SlotRepository interface {
	// AvailableSlots returns the available slots for a date in fixed column
	// order. ErrNoSchedule when no row exists for the date.
	AvailableSlots(ctx context.Context, date string) ([]models.Slot, error)
	// Book writes userID into the (date, time) cell. ErrNoSchedule when the
	// date row is absent, ErrUnknownTime when the column is absent,
	// ErrBlackedOut when the cell carries the blackout marker, and a
	// *SlotTakenError when the cell is already occupied.
	Book(ctx context.Context, date, timeLabel, userID string) (*models.BookingResult, error)
}

// ErrNoSchedule means no row exists for the requested date.
var ErrNoSchedule = fmt.Errorf("no schedule found for this date")

// ErrUnknownTime means the requested time does not map to a grid column.
var ErrUnknownTime = fmt.Errorf("time slot not valid or header not found")

// ErrBlackedOut means the cell carries the blackout marker and is not offered.
var ErrBlackedOut = fmt.Errorf("slot is not offered on this date")

// SlotTakenError reports the occupant blocking a booking.
type SlotTakenError struct {
	Occupant string
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("Slot already booked by %s.", e.Occupant)
}
