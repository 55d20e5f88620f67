// Package rag drives generation for the chat surface: plain and
// retrieval-augmented responses, streaming, and the two-phase tool-calling
// protocol for appointment booking.
package rag

import (
	"context"

	"washbot/models"
)

// Service is the orchestrator interface the HTTP and streaming handlers use.
type Service interface {
	// Generate produces a plain or retrieval-augmented reply, depending on
	// whether a knowledge base is loaded.
	Generate(ctx context.Context, userMessage, systemPrompt string, history []models.Turn) (*models.ChatResult, error)
	// GenerateStream is Generate with incremental delivery; onDelta receives
	// each produced fragment in order.
	GenerateStream(ctx context.Context, userMessage, systemPrompt string, history []models.Turn, onDelta func(string)) (*models.ChatResult, error)
	// GenerateWithTools runs the tool-calling protocol. It never returns an
	// error: faults resolve into a ChatResult with mode "error".
	GenerateWithTools(ctx context.Context, userMessage, systemPrompt string, history []models.Turn, userID string) *models.ChatResult
	// KnowledgeLoaded reports whether retrieval context is available.
	KnowledgeLoaded() bool
}

// ToolExecutor is the slice of the booking executor the orchestrator needs.
type ToolExecutor interface {
	SafeExecute(functionName string, args map[string]any) models.ToolResult
}
