package index

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// buildHashFields converts a domain Vector into a flat map[string]string for HSET.
func buildHashFields(v *domain.Vector) map[string]string {
	return map[string]string{
		"doc_id":      v.Metadata.DocID,
		"doc_name":    v.Metadata.DocName,
		"chunk_index": strconv.Itoa(v.Metadata.Seq),
		"text":        v.Metadata.Text,
		"char_length": strconv.Itoa(v.Metadata.CharLength),
		"owner_id":    v.Metadata.OwnerID,
		"vector":      vectorToBytes(v.Values),
	}
}

// parseMatch converts a search entry back into a domain Match.
func parseMatch(entry db.SearchEntry, keyPrefix string) domain.Match {
	seq, _ := strconv.Atoi(entry.Fields["chunk_index"])
	charLen, _ := strconv.Atoi(entry.Fields["char_length"])

	return domain.Match{
		ID:    strings.TrimPrefix(entry.Key, keyPrefix),
		Score: entry.Score,
		Metadata: domain.VectorMetadata{
			OwnerID:    entry.Fields["owner_id"],
			DocID:      entry.Fields["doc_id"],
			DocName:    entry.Fields["doc_name"],
			Seq:        seq,
			Text:       entry.Fields["text"],
			CharLength: charLen,
		},
	}
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
