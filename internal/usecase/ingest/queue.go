package ingest

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/logger"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// ErrQueueFull is returned when the ingestion queue cannot accept more work.
var ErrQueueFull = errors.New("ingestion queue full")

// processor runs the pipeline for one document.
type processor interface {
	Process(ctx context.Context, doc domain.Document) error
}

// Queue feeds uploaded documents to a pool of background workers.
type Queue struct {
	jobs   chan domain.Document
	svc    processor
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewQueue creates an ingestion queue with the given buffer size.
func NewQueue(svc processor, size int, log *zap.Logger) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{
		jobs:   make(chan domain.Document, size),
		svc:    svc,
		logger: log,
	}
}

// Start launches the worker pool. Workers exit when Stop is called or the
// context is canceled.
func (q *Queue) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Enqueue hands a document to the worker pool without blocking. Callers
// should mark the document failed when the queue is full.
func (q *Queue) Enqueue(doc domain.Document) error {
	select {
	case q.jobs <- doc:
		metrics.IngestQueueDepth.Set(float64(len(q.jobs)))
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight documents to finish.
func (q *Queue) Stop() {
	close(q.jobs)
	q.wg.Wait()
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()

	log := q.logger.With(zap.Int("worker", id))
	workerCtx := logger.ContextWithLogger(ctx, log)

	for {
		select {
		case <-ctx.Done():
			return
		case doc, ok := <-q.jobs:
			if !ok {
				return
			}
			metrics.IngestQueueDepth.Set(float64(len(q.jobs)))
			if err := q.svc.Process(workerCtx, doc); err != nil {
				log.Error("document processing failed",
					zap.String("doc_id", doc.DocID),
					zap.Error(err),
				)
			}
		}
	}
}
