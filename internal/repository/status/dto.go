package status

import (
	"strconv"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// buildHashFields converts a domain Document into a flat map[string]string for HSET.
func buildHashFields(doc *domain.Document) map[string]string {
	m := map[string]string{
		"owner_id":    doc.OwnerID,
		"filename":    doc.Filename,
		"file_type":   doc.FileType,
		"byte_size":   strconv.FormatInt(doc.ByteSize, 10),
		"locator":     doc.Locator,
		"status":      string(doc.Status),
		"uploaded_at": doc.UploadedAt.UTC().Format(time.RFC3339Nano),
	}
	if !doc.ProcessedAt.IsZero() {
		m["processed_at"] = doc.ProcessedAt.UTC().Format(time.RFC3339Nano)
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Document.
func parseHashFields(docID string, m map[string]string) domain.Document {
	size, _ := strconv.ParseInt(m["byte_size"], 10, 64)

	doc := domain.Document{
		DocID:    docID,
		OwnerID:  m["owner_id"],
		Filename: m["filename"],
		FileType: m["file_type"],
		ByteSize: size,
		Locator:  m["locator"],
		Status:   domain.DocumentStatus(m["status"]),
	}
	if t, err := time.Parse(time.RFC3339Nano, m["uploaded_at"]); err == nil {
		doc.UploadedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, m["processed_at"]); err == nil {
		doc.ProcessedAt = t
	}
	return doc
}
