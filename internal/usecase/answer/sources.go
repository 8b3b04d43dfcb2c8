package answer

import (
	"math"
	"sort"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// extractSources deduplicates matches into one citation per document name,
// keeping the highest score seen for that document, rounded to three
// decimals. Ties keep the first occurrence, the sort is stable.
func extractSources(matches []domain.Match) []domain.Source {
	best := make(map[string]domain.Source)
	order := make([]string, 0, len(matches))

	for _, m := range matches {
		name := m.Metadata.DocName
		existing, seen := best[name]
		if !seen {
			order = append(order, name)
		}
		if !seen || existing.RelevanceScore < m.Score {
			best[name] = domain.Source{
				DocName:        name,
				DocID:          m.Metadata.DocID,
				RelevanceScore: m.Score,
			}
		}
	}

	sources := make([]domain.Source, 0, len(order))
	for _, name := range order {
		src := best[name]
		src.RelevanceScore = round3(src.RelevanceScore)
		sources = append(sources, src)
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].RelevanceScore > sources[j].RelevanceScore
	})
	return sources
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
