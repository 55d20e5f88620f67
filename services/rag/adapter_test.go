package rag

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("concatenates text parts", func(t *testing.T) {
		out := parseResponse(textResponse(genai.Text("Hello, "), genai.Text("world.")))
		assert.Nil(t, out.FunctionCall)
		assert.Equal(t, "Hello, world.", out.Text)
	})

	t.Run("function call wins over text", func(t *testing.T) {
		out := parseResponse(textResponse(
			genai.Text("Let me check."),
			genai.FunctionCall{Name: "get_available_slots", Args: map[string]any{"date": "2026-03-11"}},
		))
		require.NotNil(t, out.FunctionCall)
		assert.Equal(t, "get_available_slots", out.FunctionCall.Name)
		assert.Equal(t, "2026-03-11", out.FunctionCall.Args["date"])
	})

	t.Run("nil and empty responses", func(t *testing.T) {
		assert.Equal(t, ModelOutput{}, parseResponse(nil))
		assert.Equal(t, ModelOutput{}, parseResponse(&genai.GenerateContentResponse{}))
	})
}

func TestParseSources(t *testing.T) {
	uri := "https://example.com/pricing"
	empty := ""
	resp := textResponse(genai.Text("answer"))
	resp.Candidates[0].CitationMetadata = &genai.CitationMetadata{
		CitationSources: []*genai.CitationSource{
			{URI: &uri},
			{URI: nil},
			{URI: &empty},
		},
	}

	sources := parseSources(resp)
	require.Len(t, sources, 1)
	assert.Equal(t, uri, sources[0].URI)
}

func TestTextOrFallback(t *testing.T) {
	assert.Equal(t, "hi", textOrFallback(ModelOutput{Text: "hi"}))
	assert.Equal(t, fallbackText, textOrFallback(ModelOutput{Text: "   "}))
	assert.Equal(t, fallbackText, textOrFallback(ModelOutput{}))
}
