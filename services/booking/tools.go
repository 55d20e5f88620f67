// Package booking implements the tool-calling side of the chat surface: the
// Gemini function declarations for the two appointment tools and the executor
// that validates arguments and runs them against the appointments API.
package booking

import (
	"github.com/google/generative-ai-go/genai"

	"washbot/models"
)

// BookingTools are the function declarations attached to the first-phase
// generation call when the intent router enables tool calling.
func BookingTools() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        models.ToolGetAvailableSlots,
					Description: "Get available appointment slots for a specific date",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"date": {
								Type:        genai.TypeString,
								Description: "Date in YYYY-MM-DD format",
							},
						},
						Required: []string{"date"},
					},
				},
				{
					Name:        models.ToolBookAppointmentSlot,
					Description: "Book a specific appointment slot",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"date": {
								Type:        genai.TypeString,
								Description: "Date in YYYY-MM-DD format",
							},
							"time": {
								Type:        genai.TypeString,
								Description: "Time slot (e.g., '9:00 AM', '10:00 AM')",
								Enum:        models.TimeColumns,
							},
							"user_id": {
								Type:        genai.TypeString,
								Description: "Unique identifier for the user booking the slot",
							},
						},
						Required: []string{"date", "time", "user_id"},
					},
				},
			},
		},
	}
}
