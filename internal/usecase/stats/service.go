// Package stats reports the size of a tenant's slice of the vector index.
package stats

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// VectorCounter counts vectors in a tenant namespace.
type VectorCounter interface {
	Count(ctx context.Context, namespace string) (int, error)
}

// Service aggregates per-tenant index statistics.
type Service struct {
	vectors VectorCounter
}

// New creates a stats service.
func New(vectors VectorCounter) *Service {
	return &Service{vectors: vectors}
}

// Stats returns the vector count for the owner's namespace. An owner who
// never ingested anything has zero vectors, not an error.
func (s *Service) Stats(ctx context.Context, ownerID string) (domain.NamespaceStats, error) {
	namespace := domain.Namespace(ownerID)

	n, err := s.vectors.Count(ctx, namespace)
	if err != nil {
		return domain.NamespaceStats{}, fmt.Errorf("count vectors in %s: %w", namespace, err)
	}

	return domain.NamespaceStats{
		TotalVectors: n,
		Namespace:    namespace,
	}, nil
}
