package ingest

import (
	"context"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// StatusStore records document lifecycle transitions.
type StatusStore interface {
	SetStatus(ctx context.Context, docID string, status domain.DocumentStatus, processedAt time.Time) error
}

// BlobLoader reads back uploaded file bytes by locator.
type BlobLoader interface {
	Load(locator string) ([]byte, error)
}

// Extractor converts file bytes into plain text.
type Extractor interface {
	Text(content []byte, filename string) (string, error)
}

// Chunker splits text into overlapping pieces.
type Chunker interface {
	Split(text string) []string
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorWriter replaces a document's vectors in the tenant namespace.
type VectorWriter interface {
	Upsert(ctx context.Context, namespace, docID string, vectors []domain.Vector) error
}
