package rag

import (
	"strings"

	"washbot/models"

	"github.com/google/generative-ai-go/genai"
)

// ModelOutput is the tagged view of a generation response: either final text
// or a function-call directive. Exactly one side is set.
type ModelOutput struct {
	Text         string
	FunctionCall *genai.FunctionCall
}

// parseResponse flattens a vendor response into a ModelOutput. A function
// call anywhere in the candidate parts wins over text; concatenated text
// parts otherwise. An empty candidate list yields empty text.
func parseResponse(resp *genai.GenerateContentResponse) ModelOutput {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ModelOutput{}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			fc := p
			return ModelOutput{FunctionCall: &fc}
		case genai.Text:
			sb.WriteString(string(p))
		}
	}
	return ModelOutput{Text: sb.String()}
}

// parseSources extracts grounding attributions from candidate citation
// metadata, when the model reports any.
func parseSources(resp *genai.GenerateContentResponse) []models.Source {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cm := resp.Candidates[0].CitationMetadata
	if cm == nil {
		return nil
	}

	var sources []models.Source
	for _, cs := range cm.CitationSources {
		if cs == nil || cs.URI == nil || *cs.URI == "" {
			continue
		}
		sources = append(sources, models.Source{URI: *cs.URI, Title: "Source"})
	}
	return sources
}

// fallbackText is returned when the model produced no usable text.
const fallbackText = "I'm sorry, I couldn't generate a response."

func textOrFallback(out ModelOutput) string {
	if strings.TrimSpace(out.Text) == "" {
		return fallbackText
	}
	return out.Text
}
