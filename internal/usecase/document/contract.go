package document

import (
	"context"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Statuses persists document metadata records.
type Statuses interface {
	Save(ctx context.Context, doc *domain.Document) error
	SetStatus(ctx context.Context, docID string, status domain.DocumentStatus, processedAt time.Time) error
	Get(ctx context.Context, docID string) (domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)
	Delete(ctx context.Context, docID, ownerID string) error
}

// Blobs stores and removes raw file bytes.
type Blobs interface {
	Save(ownerID, docID, ext string, content []byte) (string, error)
	Remove(locator string) error
}

// VectorDeleter removes a document's vectors from its tenant namespace, and
// the namespace index itself once the tenant has no documents left.
type VectorDeleter interface {
	DeleteByDoc(ctx context.Context, namespace, docID string) (int, error)
	DropNamespace(ctx context.Context, namespace string) error
}

// Enqueuer hands a document to the background ingestion pool.
type Enqueuer interface {
	Enqueue(doc domain.Document) error
}
