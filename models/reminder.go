package models

// ReminderPayload is the asynq task body for an appointment reminder.
type ReminderPayload struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}
