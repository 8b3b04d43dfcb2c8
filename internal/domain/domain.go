// Package domain holds the core types of the ragdex ingestion and retrieval
// pipelines. It has no dependencies on storage or transport layers.
package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// DocumentStatus tracks the ingestion lifecycle of an uploaded document.
type DocumentStatus string

// Document lifecycle states. Every ingestion attempt passes through
// StatusProcessing before reaching a terminal state.
const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Document is the metadata record of an uploaded file. The raw bytes live in
// the blob store under Locator; the derived vectors live in the tenant's
// namespace of the vector index.
type Document struct {
	DocID       string
	OwnerID     string
	Filename    string
	FileType    string
	ByteSize    int64
	Locator     string
	Status      DocumentStatus
	UploadedAt  time.Time
	ProcessedAt time.Time // zero until a terminal status is reached
}

// ExcerptLimit bounds the amount of chunk text stored as vector metadata.
const ExcerptLimit = 1000

// Namespace returns the vector index partition for a tenant. All index reads
// and writes go through a namespace, so one tenant can never retrieve
// another's chunks.
func Namespace(ownerID string) string {
	return "user_" + ownerID
}

// VectorID builds the deterministic vector identifier for a document chunk.
// Re-ingesting the same document produces the same IDs, so upserts overwrite
// instead of duplicating.
func VectorID(docID string, seq int) string {
	return fmt.Sprintf("%s_chunk_%d", docID, seq)
}

// VectorMetadata is the payload stored next to each embedding. Text holds at
// most ExcerptLimit characters of the source chunk.
type VectorMetadata struct {
	OwnerID    string
	DocID      string
	DocName    string
	Seq        int
	Text       string
	CharLength int
}

// Vector is one embedded chunk ready for the index.
type Vector struct {
	ID       string
	Values   []float32
	Metadata VectorMetadata
}

// NewVector assembles a Vector for a chunk, truncating the stored text to
// ExcerptLimit characters.
func NewVector(ownerID, docID, docName string, seq int, chunkText string, values []float32) Vector {
	return Vector{
		ID:     VectorID(docID, seq),
		Values: values,
		Metadata: VectorMetadata{
			OwnerID:    ownerID,
			DocID:      docID,
			DocName:    docName,
			Seq:        seq,
			Text:       Excerpt(chunkText),
			CharLength: utf8.RuneCountInString(chunkText),
		},
	}
}

// Excerpt returns the first ExcerptLimit characters of text.
func Excerpt(text string) string {
	if utf8.RuneCountInString(text) <= ExcerptLimit {
		return text
	}
	return string([]rune(text)[:ExcerptLimit])
}

// Match is a read-only similarity search hit. Score is a similarity in [0,1],
// higher is more relevant.
type Match struct {
	ID       string
	Score    float64
	Metadata VectorMetadata
}

// Source is a deduplicated citation: one entry per distinct document name,
// carrying the best relevance score observed across its chunks.
type Source struct {
	DocName        string
	DocID          string
	RelevanceScore float64
}

// NamespaceStats reports the size of a tenant's index partition.
type NamespaceStats struct {
	TotalVectors int
	Namespace    string
}

// EmbeddingResult carries an embedding vector and provider token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
