// Package ingest runs the document processing pipeline: load, extract,
// chunk, embed, and index, with lifecycle status tracking along the way.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	domingest "github.com/kailas-cloud/ragdex/internal/domain/ingest"
	"github.com/kailas-cloud/ragdex/internal/logger"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// Service processes uploaded documents into searchable vectors.
type Service struct {
	status    StatusStore
	blobs     BlobLoader
	extractor Extractor
	chunker   Chunker
	embedder  Embedder
	vectors   VectorWriter
}

// New creates an ingestion service.
func New(
	status StatusStore,
	blobs BlobLoader,
	extractor Extractor,
	chunker Chunker,
	embedder Embedder,
	vectors VectorWriter,
) *Service {
	return &Service{
		status:    status,
		blobs:     blobs,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		vectors:   vectors,
	}
}

// Process runs the full pipeline for one document. Individual chunks that
// fail to embed are skipped; the document only fails when no chunk at all
// produced a vector or a pipeline stage broke down entirely.
func (s *Service) Process(ctx context.Context, doc domain.Document) error {
	log := logger.FromContext(ctx).With(
		zap.String("doc_id", doc.DocID),
		zap.String("owner_id", doc.OwnerID),
	)
	start := time.Now()

	s.setStatus(ctx, log, doc.DocID, domain.StatusProcessing, time.Time{})

	if err := s.process(ctx, log, doc); err != nil {
		s.setStatus(ctx, log, doc.DocID, domain.StatusFailed, time.Now())
		metrics.IngestDocumentsTotal.WithLabelValues("failed").Inc()
		return err
	}

	s.setStatus(ctx, log, doc.DocID, domain.StatusCompleted, time.Now())
	metrics.IngestDocumentsTotal.WithLabelValues("completed").Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	return nil
}

func (s *Service) process(ctx context.Context, log *zap.Logger, doc domain.Document) error {
	content, err := s.blobs.Load(doc.Locator)
	if err != nil {
		return fmt.Errorf("load blob %s: %w", doc.Locator, err)
	}

	text, err := s.extractor.Text(content, doc.Filename)
	if err != nil {
		return fmt.Errorf("extract %s: %w", doc.Filename, err)
	}

	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		return fmt.Errorf("document %s: %w", doc.DocID, domain.ErrNoChunks)
	}

	vectors, outcome := s.embedChunks(ctx, log, doc, chunks)
	if outcome.Succeeded == 0 {
		return fmt.Errorf("document %s: %w", doc.DocID, domain.ErrNoVectors)
	}
	if outcome.Skipped > 0 {
		log.Warn("some chunks skipped during embedding",
			zap.Int("skipped", outcome.Skipped),
			zap.Int("succeeded", outcome.Succeeded),
		)
	}

	namespace := domain.Namespace(doc.OwnerID)
	if err := s.vectors.Upsert(ctx, namespace, doc.DocID, vectors); err != nil {
		return fmt.Errorf("index %d vectors: %w", len(vectors), err)
	}

	log.Info("document ingested",
		zap.Int("chunks", len(chunks)),
		zap.Int("vectors", len(vectors)),
	)
	return nil
}

// embedChunks embeds every chunk, folding each attempt into a per-chunk
// result. Chunk sequence numbers keep their original positions even when
// earlier chunks are skipped.
func (s *Service) embedChunks(
	ctx context.Context, log *zap.Logger, doc domain.Document, chunks []string,
) ([]domain.Vector, domingest.Outcome) {
	vectors := make([]domain.Vector, 0, len(chunks))
	results := make([]domingest.ChunkResult, 0, len(chunks))

	for seq, chunkText := range chunks {
		result, err := s.embedder.Embed(ctx, chunkText)
		if err != nil {
			log.Warn("chunk embedding failed, skipping",
				zap.Int("chunk_index", seq),
				zap.Error(err),
			)
			metrics.IngestChunksTotal.WithLabelValues("skipped").Inc()
			results = append(results, domingest.NewSkipped(seq, err))
			continue
		}

		vectors = append(vectors, domain.NewVector(
			doc.OwnerID, doc.DocID, doc.Filename, seq, chunkText, result.Embedding,
		))
		metrics.IngestChunksTotal.WithLabelValues("embedded").Inc()
		results = append(results, domingest.NewOK(seq))
	}

	return vectors, domingest.Collect(results)
}

// setStatus is best-effort: a failed status write must not fail the
// pipeline, the document's vectors are the source of truth.
func (s *Service) setStatus(
	ctx context.Context, log *zap.Logger, docID string, st domain.DocumentStatus, processedAt time.Time,
) {
	if err := s.status.SetStatus(ctx, docID, st, processedAt); err != nil {
		log.Warn("status write failed",
			zap.String("status", string(st)),
			zap.Error(err),
		)
	}
}
