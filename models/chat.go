package models

// Turn is one entry of the rolling conversation history.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Orchestrator modes reported in chat responses.
const (
	ModeRegular     = "regular"
	ModeRAG         = "RAG"
	ModeBaseLLM     = "Base LLM"
	ModeToolCalling = "tool_calling"
	ModeError       = "error"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	UserMessage  string `json:"userMessage" binding:"required"`
	SystemPrompt string `json:"systemPrompt"`
	History      []Turn `json:"history"`
	UserID       string `json:"user_id"`
}

// Source is one grounding attribution extracted from a model response.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// ChatResult is the orchestrator's outcome for one turn.
type ChatResult struct {
	Response   string      `json:"response"`
	Sources    []Source    `json:"sources,omitempty"`
	ToolUsed   string      `json:"tool_used,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
	Mode       string      `json:"mode"`
}
