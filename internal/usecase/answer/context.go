package answer

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// assembleContext concatenates match excerpts into the prompt context,
// stopping before the block that would push the total past limit. Blocks
// carry the document name so the model can cite it.
func assembleContext(matches []domain.Match, limit int) string {
	var blocks []string
	length := 0

	for _, m := range matches {
		block := fmt.Sprintf("[From %s]: %s", m.Metadata.DocName, m.Metadata.Text)
		if length+len(block) > limit {
			break
		}
		blocks = append(blocks, block)
		length += len(block)
	}

	return strings.Join(blocks, "\n\n")
}
