// Package document handles the upload, listing, and deletion of tenant
// documents. Ingestion itself runs in the background; upload only validates,
// persists the raw file, records the metadata, and enqueues.
package document

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/logger"
)

// Service manages tenant document records and their raw blobs.
type Service struct {
	statuses Statuses
	blobs    Blobs
	vectors  VectorDeleter
	queue    Enqueuer

	supported   func(filename string) bool
	newID       func() string
	minFileSize int64
	maxFileSize int64
}

// New creates a document service. supported reports whether a filename's
// extension has a registered extractor.
func New(
	statuses Statuses,
	blobs Blobs,
	vectors VectorDeleter,
	queue Enqueuer,
	supported func(filename string) bool,
	minFileSize, maxFileSize int64,
) *Service {
	return &Service{
		statuses:    statuses,
		blobs:       blobs,
		vectors:     vectors,
		queue:       queue,
		supported:   supported,
		newID:       uuid.NewString,
		minFileSize: minFileSize,
		maxFileSize: maxFileSize,
	}
}

// Upload validates the file, stores its bytes and metadata, and enqueues it
// for background ingestion. The returned document is in StatusProcessing;
// callers poll the record for the terminal state.
func (s *Service) Upload(ctx context.Context, ownerID, filename string, content []byte) (domain.Document, error) {
	if !s.supported(filename) {
		return domain.Document{}, fmt.Errorf("%q: %w", filepath.Ext(filename), domain.ErrUnsupportedFormat)
	}
	size := int64(len(content))
	if size < s.minFileSize {
		return domain.Document{}, fmt.Errorf("%d bytes, minimum %d: %w", size, s.minFileSize, domain.ErrFileTooSmall)
	}
	if size > s.maxFileSize {
		return domain.Document{}, fmt.Errorf("%d bytes, maximum %d: %w", size, s.maxFileSize, domain.ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	doc := domain.Document{
		DocID:      s.newID(),
		OwnerID:    ownerID,
		Filename:   filename,
		FileType:   ext,
		ByteSize:   size,
		Status:     domain.StatusPending,
		UploadedAt: time.Now().UTC(),
	}

	locator, err := s.blobs.Save(ownerID, doc.DocID, ext, content)
	if err != nil {
		return domain.Document{}, fmt.Errorf("store blob: %w", err)
	}
	doc.Locator = locator

	// The store may retain the pointer; persist a copy so the saved record
	// stays pending when the returned view flips to processing below.
	rec := doc
	if err := s.statuses.Save(ctx, &rec); err != nil {
		return domain.Document{}, fmt.Errorf("save document record: %w", err)
	}

	if err := s.queue.Enqueue(doc); err != nil {
		if serr := s.statuses.SetStatus(ctx, doc.DocID, domain.StatusFailed, time.Now().UTC()); serr != nil {
			logger.FromContext(ctx).Warn("status write failed",
				zap.String("doc_id", doc.DocID),
				zap.Error(serr),
			)
		}
		return domain.Document{}, fmt.Errorf("enqueue document %s: %w", doc.DocID, err)
	}

	doc.Status = domain.StatusProcessing
	return doc, nil
}

// List returns the owner's documents, newest upload first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Document, error) {
	docs, err := s.statuses.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// Delete removes a document owned by ownerID: its vectors, its blob, and its
// metadata record. A document owned by someone else is reported as not found.
func (s *Service) Delete(ctx context.Context, ownerID, docID string) error {
	doc, err := s.statuses.Get(ctx, docID)
	if err != nil {
		return err
	}
	if doc.OwnerID != ownerID {
		return domain.ErrDocumentNotFound
	}

	deleted, err := s.vectors.DeleteByDoc(ctx, domain.Namespace(ownerID), docID)
	if err != nil {
		return fmt.Errorf("delete vectors of %s: %w", docID, err)
	}

	if err := s.blobs.Remove(doc.Locator); err != nil {
		return fmt.Errorf("remove blob of %s: %w", docID, err)
	}

	if err := s.statuses.Delete(ctx, docID, ownerID); err != nil {
		return err
	}

	// Best-effort cleanup: an empty index left behind costs nothing but a
	// RediSearch slot, so failures here must not fail the deletion.
	s.dropNamespaceIfEmpty(ctx, ownerID)

	logger.FromContext(ctx).Info("document deleted",
		zap.String("doc_id", docID),
		zap.String("owner_id", ownerID),
		zap.Int("vectors_deleted", deleted),
	)
	return nil
}

// dropNamespaceIfEmpty removes the tenant's index once its last document is
// gone.
func (s *Service) dropNamespaceIfEmpty(ctx context.Context, ownerID string) {
	remaining, err := s.statuses.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.FromContext(ctx).Warn("could not list remaining documents",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		return
	}
	if len(remaining) > 0 {
		return
	}

	if err := s.vectors.DropNamespace(ctx, domain.Namespace(ownerID)); err != nil {
		logger.FromContext(ctx).Warn("could not drop empty namespace",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
	}
}
