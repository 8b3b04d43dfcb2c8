package domain

import "errors"

var (
	// ErrEmptyQuery signals an empty chat query.
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrQueryTooLong signals a query over the allowed length.
	ErrQueryTooLong = errors.New("query too long")
	// ErrUnsupportedFormat signals a file type with no registered extractor.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrFileTooSmall signals an upload below the minimum size.
	ErrFileTooSmall = errors.New("file too small")
	// ErrFileTooLarge signals an upload above the maximum size.
	ErrFileTooLarge = errors.New("file too large")
	// ErrNoTextExtracted signals that extraction produced no usable text.
	ErrNoTextExtracted = errors.New("no text extracted from file")
	// ErrNoChunks signals that chunking produced nothing to embed.
	ErrNoChunks = errors.New("no chunks created from text")
	// ErrNoVectors signals that every chunk embedding failed.
	ErrNoVectors = errors.New("no vectors generated")
	// ErrDocumentNotFound signals a missing document record.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrBlobNotFound signals a missing blob for a known locator.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrIndexUnavailable signals a vector index failure.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrGenerationProvider signals a generation provider failure.
	ErrGenerationProvider = errors.New("generation provider error")
)
