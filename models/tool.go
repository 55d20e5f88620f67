package models

// Tool result status vocabulary. The executor resolves every outcome, including
// faults, into one of these; callers never see an error value escape a tool run.
const (
	ToolStatusSuccess         = "success"
	ToolStatusNoSlots         = "no_slots"
	ToolStatusNoSchedule      = "no_schedule"
	ToolStatusAlreadyBooked   = "already_booked"
	ToolStatusValidationError = "validation_error"
	ToolStatusExecutionError  = "execution_error"
	ToolStatusError           = "error"
)

// Tool function names understood by the executor.
const (
	ToolGetAvailableSlots   = "get_available_slots"
	ToolBookAppointmentSlot = "book_appointment_slot"
)

// ToolResult is the structured outcome of a tool execution, fed back to the
// model as a function response and surfaced to clients verbatim.
type ToolResult struct {
	Status         string         `json:"status"`
	Message        string         `json:"message"`
	AvailableSlots []string       `json:"available_slots,omitempty"`
	BookingDetails map[string]any `json:"booking_details,omitempty"`
}

// AsMap converts the result into the shape the generation service expects for
// a function-response turn.
func (r ToolResult) AsMap() map[string]any {
	m := map[string]any{
		"status":  r.Status,
		"message": r.Message,
	}
	if r.AvailableSlots != nil {
		m["available_slots"] = r.AvailableSlots
	}
	if r.BookingDetails != nil {
		m["booking_details"] = r.BookingDetails
	}
	return m
}
