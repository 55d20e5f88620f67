package models

// TimeColumns is the canonical slot-label set in fixed column order.
var TimeColumns = []string{
	"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM",
}

// BlackoutMarker is the sentinel cell value meaning "not offered".
// Matched case-insensitively; a blackout cell is never overwritten by a booking.
const BlackoutMarker = "suday"

// IsCanonicalTime reports whether t is one of the eight slot labels.
func IsCanonicalTime(t string) bool {
	for _, col := range TimeColumns {
		if col == t {
			return true
		}
	}
	return false
}

// Slot is one (date, time) cell of the schedule grid as exposed over HTTP.
type Slot struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// SlotStatusAvailable is the only status a listed slot carries; occupied and
// blacked-out cells are simply omitted from availability responses.
const SlotStatusAvailable = "Available"

// BookingRequest is the body of POST /api/appointments/slots.
type BookingRequest struct {
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
	UserID string `json:"user_id" binding:"required,min=3"`
}

// BookingResult is the success payload of a booking write.
type BookingResult struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	CellUpdated string `json:"cell_updated,omitempty"`
}
