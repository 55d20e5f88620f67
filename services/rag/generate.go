package rag

import (
	"context"
	"fmt"

	"washbot/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// toContents converts rolling history into the vendor chat format. Unknown
// roles are coerced to "user" so a malformed turn cannot poison the session.
func toContents(history []models.Turn) []*genai.Content {
	var contents []*genai.Content
	for _, turn := range history {
		role := turn.Role
		if role != "user" && role != "model" {
			role = "user"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}
	return contents
}

// chatSession builds a fresh chat model primed with the system prompt and
// history. When no knowledge base is loaded the model gets web search so
// general questions still ground somewhere.
func (e *Engine) chatSession(systemPrompt string, history []models.Turn, withSearch bool) *genai.ChatSession {
	model := e.client.GenerativeModel(chatModel)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}
	if withSearch {
		model.Tools = []*genai.Tool{{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}}}
	}
	cs := model.StartChat()
	cs.History = toContents(history)
	return cs
}

// buildPrompt returns the message to send and the mode it implies. With a
// loaded knowledge base the message is wrapped in retrieved context.
func (e *Engine) buildPrompt(ctx context.Context, userMessage string) (string, string, error) {
	if !e.kb.Loaded() {
		return userMessage, models.ModeBaseLLM, nil
	}
	chunks, err := e.kb.Search(ctx, userMessage, 0)
	if err != nil {
		return "", "", fmt.Errorf("retrieve context: %w", err)
	}
	if len(chunks) == 0 {
		return userMessage, models.ModeBaseLLM, nil
	}
	return ragPrompt(userMessage, chunks), models.ModeRAG, nil
}

func (e *Engine) Generate(ctx context.Context, userMessage, systemPrompt string, history []models.Turn) (*models.ChatResult, error) {
	withSearch := !e.kb.Loaded()
	prompt, mode, err := e.buildPrompt(ctx, userMessage)
	if err != nil {
		return nil, err
	}

	cs := e.chatSession(systemPrompt, history, withSearch)
	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	out := parseResponse(resp)
	return &models.ChatResult{
		Response: textOrFallback(out),
		Sources:  parseSources(resp),
		Mode:     mode,
	}, nil
}

func (e *Engine) GenerateStream(ctx context.Context, userMessage, systemPrompt string, history []models.Turn, onDelta func(string)) (*models.ChatResult, error) {
	withSearch := !e.kb.Loaded()
	prompt, mode, err := e.buildPrompt(ctx, userMessage)
	if err != nil {
		return nil, err
	}

	cs := e.chatSession(systemPrompt, history, withSearch)
	iter := cs.SendMessageStream(ctx, genai.Text(prompt))

	var full string
	var sources []models.Source
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			e.logger.Error("stream interrupted", zap.Error(err))
			return nil, fmt.Errorf("generate stream: %w", err)
		}
		out := parseResponse(resp)
		if out.Text != "" {
			full += out.Text
			onDelta(out.Text)
		}
		if s := parseSources(resp); len(s) > 0 {
			sources = s
		}
	}

	if full == "" {
		full = fallbackText
		onDelta(full)
	}
	return &models.ChatResult{Response: full, Sources: sources, Mode: mode}, nil
}
