package status

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// store is the consumer interface for document records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo keeps document metadata in Redis hashes and tracks each owner's
// documents in a set for listing.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a document status repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Save writes the full document record and registers it under its owner.
func (r *Repo) Save(ctx context.Context, doc *domain.Document) error {
	key := r.docKey(doc.DocID)
	if err := r.store.HSet(ctx, key, buildHashFields(doc)); err != nil {
		return fmt.Errorf("save document %s: %w", doc.DocID, err)
	}
	if err := r.store.SAdd(ctx, r.ownerKey(doc.OwnerID), doc.DocID); err != nil {
		return fmt.Errorf("register document %s for owner %s: %w", doc.DocID, doc.OwnerID, err)
	}
	return nil
}

// SetStatus updates only the lifecycle fields of an existing record.
func (r *Repo) SetStatus(ctx context.Context, docID string, status domain.DocumentStatus, processedAt time.Time) error {
	fields := map[string]string{"status": string(status)}
	if !processedAt.IsZero() {
		fields["processed_at"] = processedAt.UTC().Format(time.RFC3339Nano)
	}
	if err := r.store.HSet(ctx, r.docKey(docID), fields); err != nil {
		return fmt.Errorf("set status %s=%s: %w", docID, status, err)
	}
	return nil
}

// Get returns a document record by ID.
func (r *Repo) Get(ctx context.Context, docID string) (domain.Document, error) {
	m, err := r.store.HGetAll(ctx, r.docKey(docID))
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document %s: %w", docID, err)
	}
	if len(m) == 0 {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return parseHashFields(docID, m), nil
}

// ListByOwner returns all document records of an owner. Set members whose
// hash has already been removed are skipped.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	ids, err := r.store.SMembers(ctx, r.ownerKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("list documents for %s: %w", ownerID, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch documents for %s: %w", ownerID, err)
	}

	docs := make([]domain.Document, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		docs = append(docs, parseHashFields(ids[i], m))
	}
	return docs, nil
}

// Delete removes the record and its owner-set membership.
func (r *Repo) Delete(ctx context.Context, docID, ownerID string) error {
	if err := r.store.Del(ctx, r.docKey(docID)); err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	if err := r.store.SRem(ctx, r.ownerKey(ownerID), docID); err != nil {
		return fmt.Errorf("unregister document %s: %w", docID, err)
	}
	return nil
}

func (r *Repo) docKey(docID string) string {
	return r.keyPrefix + "doc:" + docID
}

func (r *Repo) ownerKey(ownerID string) string {
	return r.keyPrefix + "owner:" + ownerID + ":docs"
}
