package answer

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Matcher runs similarity search in a tenant namespace.
type Matcher interface {
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]domain.Match, error)
}

// Generator produces a chat completion from a system and user prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
