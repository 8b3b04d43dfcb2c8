package chi

import (
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes used across the API.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "document_not_found"
	codeQueueFull        = "queue_full"
	codeInternalError    = "internal_error"
)

type uploadResponse struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type fileItem struct {
	DocID       string     `json:"doc_id"`
	Filename    string     `json:"filename"`
	FileType    string     `json:"file_type"`
	FileSize    int64      `json:"file_size"`
	Status      string     `json:"status"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

type filesResponse struct {
	Files []fileItem `json:"files"`
}

type chatRequest struct {
	Query string `json:"query"`
}

type sourceItem struct {
	DocName        string  `json:"doc_name"`
	DocID          string  `json:"doc_id"`
	RelevanceScore float64 `json:"relevance_score"`
}

type chatResponse struct {
	Response string       `json:"response"`
	Sources  []sourceItem `json:"sources"`
}

type statsResponse struct {
	TotalDocuments     int            `json:"total_documents"`
	StatusDistribution map[string]int `json:"status_distribution"`
	VectorCount        int            `json:"vector_count"`
	Namespace          string         `json:"namespace"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func fileItemFromDoc(doc *domain.Document) fileItem {
	item := fileItem{
		DocID:      doc.DocID,
		Filename:   doc.Filename,
		FileType:   doc.FileType,
		FileSize:   doc.ByteSize,
		Status:     string(doc.Status),
		UploadedAt: doc.UploadedAt,
	}
	if !doc.ProcessedAt.IsZero() {
		t := doc.ProcessedAt
		item.ProcessedAt = &t
	}
	return item
}

func sourceItemsFromDomain(sources []domain.Source) []sourceItem {
	items := make([]sourceItem, len(sources))
	for i, s := range sources {
		items[i] = sourceItem{
			DocName:        s.DocName,
			DocID:          s.DocID,
			RelevanceScore: s.RelevanceScore,
		}
	}
	return items
}
