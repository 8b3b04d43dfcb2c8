// Package chunk splits extracted document text into overlapping pieces sized
// for embedding.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// Default chunking parameters, in characters.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// separators is the split priority: paragraph breaks first, then line breaks,
// then word boundaries, then raw characters as a last resort.
var separators = []string{"\n\n", "\n", " ", ""}

// Splitter produces overlapping text chunks of at most Size characters, with
// adjacent chunks sharing roughly Overlap characters of context.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter creates a Splitter. Non-positive size and negative overlap fall
// back to the defaults; an overlap that would not fit inside a chunk is
// clamped to a quarter of the size.
func NewSplitter(size, overlap int) Splitter {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}
	return Splitter{size: size, overlap: overlap}
}

// Split chunks text recursively, always preferring the largest semantic unit
// that still fits. Whitespace-only input yields no chunks; input shorter than
// the chunk size yields exactly one trimmed chunk.
func (s Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, separators)
}

func (s Splitter) split(text string, seps []string) []string {
	// Pick the first separator that occurs in the text; "" always matches.
	sep := seps[len(seps)-1]
	var rest []string
	for i, candidate := range seps {
		if candidate == "" {
			sep = ""
			rest = nil
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = seps[i+1:]
			break
		}
	}

	parts := splitBy(text, sep)

	var chunks []string
	var fitting []string
	for _, p := range parts {
		if utf8.RuneCountInString(p) < s.size {
			fitting = append(fitting, p)
			continue
		}
		// Oversized piece: flush what fits so far, then recurse into it with
		// the finer separators.
		if len(fitting) > 0 {
			chunks = append(chunks, s.merge(fitting, sep)...)
			fitting = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, p)
		} else {
			chunks = append(chunks, s.split(p, rest)...)
		}
	}
	if len(fitting) > 0 {
		chunks = append(chunks, s.merge(fitting, sep)...)
	}
	return chunks
}

// merge greedily joins adjacent pieces into chunks of at most size characters,
// keeping an overlap-sized tail of pieces between neighbouring chunks.
func (s Splitter) merge(pieces []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)

	var chunks []string
	var current []string
	total := 0

	for _, p := range pieces {
		pLen := utf8.RuneCountInString(p)
		joinLen := 0
		if len(current) > 0 {
			joinLen = sepLen
		}
		if total+pLen+joinLen > s.size && len(current) > 0 {
			if c := strings.TrimSpace(strings.Join(current, sep)); c != "" {
				chunks = append(chunks, c)
			}
			// Drop leading pieces until the remainder fits inside the overlap
			// budget and leaves room for the next piece.
			for total > s.overlap || (total+pLen+currentJoinLen(current, sepLen) > s.size && total > 0) {
				dropped := utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					dropped += sepLen
				}
				total -= dropped
				current = current[1:]
			}
		}
		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, p)
		total += pLen
	}

	if c := strings.TrimSpace(strings.Join(current, sep)); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

func currentJoinLen(current []string, sepLen int) int {
	if len(current) > 0 {
		return sepLen
	}
	return 0
}

// splitBy splits on sep, or into single characters when sep is empty.
func splitBy(text, sep string) []string {
	if sep != "" {
		return strings.Split(text, sep)
	}
	runes := []rune(text)
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return parts
}
