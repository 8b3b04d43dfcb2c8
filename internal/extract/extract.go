// Package extract converts uploaded file bytes into plain text, keyed by
// filename extension. Office formats (docx, pptx) are zipped XML and are read
// with the standard archive and xml packages; PDF goes through ledongthuc/pdf.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// extractors maps a lowercase file extension to its extraction function.
var extractors = map[string]func([]byte) (string, error){
	".txt":  plainText,
	".md":   plainText,
	".pdf":  pdfText,
	".docx": docxText,
	".pptx": pptxText,
}

// Supported reports whether the filename's extension has a registered
// extractor.
func Supported(filename string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Text extracts plain text from content based on the filename extension.
// Returns domain.ErrUnsupportedFormat for unknown extensions and
// domain.ErrNoTextExtracted when the file yields no usable text.
func Text(content []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	fn, ok := extractors[ext]
	if !ok {
		return "", fmt.Errorf("%q: %w", ext, domain.ErrUnsupportedFormat)
	}

	text, err := fn(content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrNoTextExtracted
	}
	return text, nil
}

func plainText(content []byte) (string, error) {
	return string(content), nil
}

// Extractor adapts the package functions to the ingestion pipeline's
// extraction port.
type Extractor struct{}

// Text extracts plain text from content based on the filename extension.
func (Extractor) Text(content []byte, filename string) (string, error) {
	return Text(content, filename)
}
