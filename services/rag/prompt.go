package rag

import (
	"fmt"
	"strings"

	"washbot/services/knowledge"
)

// ragPrompt wraps the user question with retrieved context.
func ragPrompt(userMessage string, chunks []knowledge.Chunk) string {
	var parts []string
	for i, chunk := range chunks {
		source := chunk.URL
		if source == "" {
			source = chunk.Name
		}
		if source == "" {
			source = "Unknown Source"
		}
		parts = append(parts, fmt.Sprintf("--- Document Chunk %d (Source: %s) ---\n%s", i+1, source, chunk.Text))
	}
	context := strings.Join(parts, "\n\n")

	return fmt.Sprintf(`You are a helpful and concise assistant. Use the following CONTEXT to answer the user's question.
If the CONTEXT does not contain the answer, say you cannot answer based on the provided documents.

CONTEXT:
%s

USER QUESTION: %s`, context, userMessage)
}

// bookingSystemPrompt extends the caller's system prompt with the tool-use
// instructions and the acting user id.
func bookingSystemPrompt(systemPrompt, userID string) string {
	if userID == "" {
		userID = "guest"
	}
	return fmt.Sprintf(`%s

You have access to appointment booking functions. When users want to book appointments:
1. First get available slots for the requested date
2. Present the available options to the user
3. When they confirm a slot, book it for them
4. Always be conversational and helpful

Current user ID: %s`, systemPrompt, userID)
}
