package document

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/extract"
)

// --- mocks ---

type mockStatuses struct {
	saved       *domain.Document
	saveErr     error
	transitions []domain.DocumentStatus
	docs        map[string]domain.Document
	listed      []domain.Document
	deletedDoc  string
	deleteErr   error
}

func (m *mockStatuses) Save(_ context.Context, doc *domain.Document) error {
	m.saved = doc
	return m.saveErr
}

func (m *mockStatuses) SetStatus(_ context.Context, _ string, st domain.DocumentStatus, _ time.Time) error {
	m.transitions = append(m.transitions, st)
	return nil
}

func (m *mockStatuses) Get(_ context.Context, docID string) (domain.Document, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *mockStatuses) ListByOwner(_ context.Context, _ string) ([]domain.Document, error) {
	return m.listed, nil
}

func (m *mockStatuses) Delete(_ context.Context, docID, _ string) error {
	m.deletedDoc = docID
	return m.deleteErr
}

type mockBlobs struct {
	savedExt string
	removed  string
	saveErr  error
}

func (m *mockBlobs) Save(ownerID, docID, ext string, _ []byte) (string, error) {
	m.savedExt = ext
	if m.saveErr != nil {
		return "", m.saveErr
	}
	return ownerID + "/" + docID + ext, nil
}

func (m *mockBlobs) Remove(locator string) error {
	m.removed = locator
	return nil
}

type mockVectors struct {
	namespace string
	docID     string
	deleted   int
	dropped   string
	err       error
	dropErr   error
}

func (m *mockVectors) DeleteByDoc(_ context.Context, namespace, docID string) (int, error) {
	m.namespace = namespace
	m.docID = docID
	return m.deleted, m.err
}

func (m *mockVectors) DropNamespace(_ context.Context, namespace string) error {
	m.dropped = namespace
	return m.dropErr
}

type mockQueue struct {
	enqueued []domain.Document
	err      error
}

func (m *mockQueue) Enqueue(doc domain.Document) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, doc)
	return nil
}

type fixture struct {
	statuses *mockStatuses
	blobs    *mockBlobs
	vectors  *mockVectors
	queue    *mockQueue
}

func newFixture() *fixture {
	return &fixture{
		statuses: &mockStatuses{docs: map[string]domain.Document{}},
		blobs:    &mockBlobs{},
		vectors:  &mockVectors{},
		queue:    &mockQueue{},
	}
}

func (f *fixture) service() *Service {
	svc := New(f.statuses, f.blobs, f.vectors, f.queue, extract.Supported, 10, 1024)
	svc.newID = func() string { return "doc-1" }
	return svc
}

func validContent() []byte {
	return []byte(strings.Repeat("x", 100))
}

// --- upload ---

func TestUpload(t *testing.T) {
	f := newFixture()
	svc := f.service()

	doc, err := svc.Upload(context.Background(), "alice", "notes.txt", validContent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.DocID != "doc-1" || doc.OwnerID != "alice" {
		t.Errorf("unexpected document %+v", doc)
	}
	if doc.Status != domain.StatusProcessing {
		t.Errorf("expected processing, got %s", doc.Status)
	}
	if doc.Locator != "alice/doc-1.txt" {
		t.Errorf("unexpected locator %q", doc.Locator)
	}
	if doc.ByteSize != 100 {
		t.Errorf("unexpected size %d", doc.ByteSize)
	}

	if f.statuses.saved == nil || f.statuses.saved.Status != domain.StatusPending {
		t.Error("record should be saved as pending before enqueue")
	}
	if len(f.queue.enqueued) != 1 || f.queue.enqueued[0].DocID != "doc-1" {
		t.Errorf("unexpected enqueue %+v", f.queue.enqueued)
	}
}

func TestUpload_UppercaseExtension(t *testing.T) {
	f := newFixture()
	svc := f.service()

	doc, err := svc.Upload(context.Background(), "alice", "REPORT.PDF", validContent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FileType != ".pdf" {
		t.Errorf("extension should be normalized, got %q", doc.FileType)
	}
}

func TestUpload_UnsupportedFormat(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.Upload(context.Background(), "alice", "image.png", validContent())
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if f.statuses.saved != nil {
		t.Error("nothing should be persisted for a rejected upload")
	}
}

func TestUpload_SizeBounds(t *testing.T) {
	f := newFixture()
	svc := f.service()

	if _, err := svc.Upload(context.Background(), "alice", "a.txt", []byte("tiny")); !errors.Is(err, domain.ErrFileTooSmall) {
		t.Errorf("expected ErrFileTooSmall, got %v", err)
	}
	big := []byte(strings.Repeat("x", 2048))
	if _, err := svc.Upload(context.Background(), "alice", "a.txt", big); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestUpload_QueueFull(t *testing.T) {
	f := newFixture()
	f.queue.err = errors.New("ingestion queue full")
	svc := f.service()

	_, err := svc.Upload(context.Background(), "alice", "notes.txt", validContent())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.statuses.transitions) != 1 || f.statuses.transitions[0] != domain.StatusFailed {
		t.Errorf("document should be marked failed, got %v", f.statuses.transitions)
	}
}

func TestUpload_BlobSaveFails(t *testing.T) {
	f := newFixture()
	f.blobs.saveErr = errors.New("disk full")
	svc := f.service()

	if _, err := svc.Upload(context.Background(), "alice", "notes.txt", validContent()); err == nil {
		t.Fatal("expected error")
	}
	if f.statuses.saved != nil {
		t.Error("record should not be saved when the blob write fails")
	}
}

// --- list ---

func TestList_NewestFirst(t *testing.T) {
	now := time.Now().UTC()
	f := newFixture()
	f.statuses.listed = []domain.Document{
		{DocID: "old", UploadedAt: now.Add(-2 * time.Hour)},
		{DocID: "new", UploadedAt: now},
		{DocID: "mid", UploadedAt: now.Add(-time.Hour)},
	}
	svc := f.service()

	docs, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if docs[i].DocID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, docs[i].DocID)
		}
	}
}

// --- delete ---

func TestDelete(t *testing.T) {
	f := newFixture()
	f.statuses.docs["doc-1"] = domain.Document{
		DocID:   "doc-1",
		OwnerID: "alice",
		Locator: "alice/doc-1.txt",
	}
	f.vectors.deleted = 3
	svc := f.service()

	if err := svc.Delete(context.Background(), "alice", "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.vectors.namespace != "user_alice" || f.vectors.docID != "doc-1" {
		t.Errorf("unexpected vector delete %q %q", f.vectors.namespace, f.vectors.docID)
	}
	if f.blobs.removed != "alice/doc-1.txt" {
		t.Errorf("unexpected blob removal %q", f.blobs.removed)
	}
	if f.statuses.deletedDoc != "doc-1" {
		t.Errorf("record should be deleted, got %q", f.statuses.deletedDoc)
	}
}

func TestDelete_LastDocumentDropsNamespace(t *testing.T) {
	f := newFixture()
	f.statuses.docs["doc-1"] = domain.Document{DocID: "doc-1", OwnerID: "alice"}
	svc := f.service()

	if err := svc.Delete(context.Background(), "alice", "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.vectors.dropped != "user_alice" {
		t.Errorf("empty tenant should drop its index, got %q", f.vectors.dropped)
	}
}

func TestDelete_KeepsNamespaceWhileDocumentsRemain(t *testing.T) {
	f := newFixture()
	f.statuses.docs["doc-1"] = domain.Document{DocID: "doc-1", OwnerID: "alice"}
	f.statuses.listed = []domain.Document{{DocID: "doc-2", OwnerID: "alice"}}
	svc := f.service()

	if err := svc.Delete(context.Background(), "alice", "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.vectors.dropped != "" {
		t.Errorf("index must survive while documents remain, got drop of %q", f.vectors.dropped)
	}
}

func TestDelete_DropFailureIsTolerated(t *testing.T) {
	f := newFixture()
	f.statuses.docs["doc-1"] = domain.Document{DocID: "doc-1", OwnerID: "alice"}
	f.vectors.dropErr = errors.New("ft.dropindex timeout")
	svc := f.service()

	if err := svc.Delete(context.Background(), "alice", "doc-1"); err != nil {
		t.Fatalf("drop failure must not fail the deletion: %v", err)
	}
}

func TestDelete_WrongOwner(t *testing.T) {
	f := newFixture()
	f.statuses.docs["doc-1"] = domain.Document{DocID: "doc-1", OwnerID: "bob"}
	svc := f.service()

	err := svc.Delete(context.Background(), "alice", "doc-1")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("cross-tenant delete must look like a missing document, got %v", err)
	}
	if f.vectors.docID != "" {
		t.Error("no vectors should be touched")
	}
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture()
	svc := f.service()

	if err := svc.Delete(context.Background(), "alice", "ghost"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
