package knowledge

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

const embeddingModel = "text-embedding-004"

// Embedder produces embedding vectors for chunk and query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder embeds with the Gemini embedding model.
type GeminiEmbedder struct {
	model *genai.EmbeddingModel
}

func NewGeminiEmbedder(client *genai.Client) *GeminiEmbedder {
	return &GeminiEmbedder{model: client.EmbeddingModel(embeddingModel)}
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("embed content: empty embedding")
	}
	return res.Embedding.Values, nil
}
