package rag

import (
	"context"
	"fmt"
	"sync"

	"washbot/services/knowledge"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const chatModel = "gemini-2.5-flash"

// Engine is the default Service implementation over the Gemini API.
type Engine struct {
	client   *genai.Client
	kb       knowledge.Store
	executor ToolExecutor
	logger   *zap.Logger

	// Remembers the last date used for a slot lookup so a follow-up booking
	// that omits the date can infer it.
	mu            sync.Mutex
	lastSlotsDate string
}

// NewEngine builds the orchestrator. The returned engine owns the Gemini
// client; callers share one engine across all sessions.
func NewEngine(ctx context.Context, apiKey string, kb knowledge.Store, executor ToolExecutor, logger *zap.Logger) (*Engine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Engine{
		client:   client,
		kb:       kb,
		executor: executor,
		logger:   logger,
	}, nil
}

// Close releases the underlying API client.
func (e *Engine) Close() error {
	return e.client.Close()
}

func (e *Engine) KnowledgeLoaded() bool {
	return e.kb.Loaded()
}

func (e *Engine) rememberSlotsDate(date string) {
	if date == "" {
		return
	}
	e.mu.Lock()
	e.lastSlotsDate = date
	e.mu.Unlock()
}

func (e *Engine) recallSlotsDate() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSlotsDate
}
