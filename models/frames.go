package models

// Streaming channel frame types.
const (
	FrameSessionStart = "session_start"
	FrameSessionAck   = "session_ack"
	FrameUserMessage  = "user_message"
	FrameModelChunk   = "model_response_chunk"
	FrameModelDone    = "model_response_done"
	FrameError        = "error"
	FrameReminder     = "appointment_reminder"
)

// ClientFrame is a JSON frame sent by a streaming client.
type ClientFrame struct {
	Type         string `json:"type"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
	Text         string `json:"text,omitempty"`
	MessageID    string `json:"messageId,omitempty"`
	History      []Turn `json:"history,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}

// ServerFrame is a JSON frame sent to a streaming client.
type ServerFrame struct {
	Type       string      `json:"type"`
	MessageID  string      `json:"messageId,omitempty"`
	Delta      string      `json:"delta,omitempty"`
	Response   string      `json:"response,omitempty"`
	ToolUsed   string      `json:"tool_used,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
	Mode       string      `json:"mode,omitempty"`
	Message    string      `json:"message,omitempty"`
}
