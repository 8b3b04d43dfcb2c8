package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// store is the consumer interface for vector storage (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	DropIndex(ctx context.Context, name string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo stores chunk vectors as Redis hashes under per-namespace key
// prefixes and searches them through one FT index per namespace.
type Repo struct {
	store     store
	keyPrefix string
	dims      int
	batchSize int
}

// New creates a vector index repository.
func New(s store, keyPrefix string, dims, batchSize int) *Repo {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Repo{store: s, keyPrefix: keyPrefix, dims: dims, batchSize: batchSize}
}

// EnsureNamespace creates the namespace's FT index if it does not exist yet.
func (r *Repo) EnsureNamespace(ctx context.Context, namespace string) error {
	def := &db.IndexDefinition{
		Name:     r.indexName(namespace),
		Prefixes: []string{r.namespacePrefix(namespace)},
		Fields: []db.IndexField{
			{Name: "doc_id", Type: db.IndexFieldTag},
			{Name: "chunk_index", Type: db.IndexFieldNumeric},
			{
				Name:           "vector",
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorFlat,
				VectorDim:      r.dims,
				VectorDistance: db.DistanceCosine,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Upsert replaces a document's vectors: any previously stored chunks for
// the doc are removed first so re-ingestion never leaves stale entries,
// then the new set is written in pipelined batches.
func (r *Repo) Upsert(ctx context.Context, namespace, docID string, vectors []domain.Vector) error {
	if err := r.EnsureNamespace(ctx, namespace); err != nil {
		return err
	}

	if _, err := r.DeleteByDoc(ctx, namespace, docID); err != nil {
		return err
	}

	prefix := r.namespacePrefix(namespace)
	for start := 0; start < len(vectors); start += r.batchSize {
		end := min(start+r.batchSize, len(vectors))

		items := make([]db.HashSetItem, 0, end-start)
		for _, v := range vectors[start:end] {
			items = append(items, db.HashSetItem{
				Key:    prefix + v.ID,
				Fields: buildHashFields(&v),
			})
		}
		if err := r.store.HSetMulti(ctx, items); err != nil {
			return fmt.Errorf("upsert batch [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// DropNamespace removes the namespace's FT index. Stored vector keys are
// expected to be gone already; dropping a namespace that was never created
// is a no-op.
func (r *Repo) DropNamespace(ctx context.Context, namespace string) error {
	name := r.indexName(namespace)

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if !exists {
		return nil
	}

	if err := r.store.DropIndex(ctx, name); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil
		}
		return fmt.Errorf("drop index %s: %w", name, err)
	}
	return nil
}

// Query runs a KNN search in the namespace. A namespace whose index was
// never created simply has no matches.
func (r *Repo) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]domain.Match, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: r.indexName(namespace),
		Vector:    vector,
		K:         topK,
		ReturnFields: []string{
			"doc_id", "doc_name", "chunk_index", "text", "char_length", "owner_id",
			"__vector_score",
		},
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("knn %s: %w", namespace, err)
	}

	prefix := r.namespacePrefix(namespace)
	matches := make([]domain.Match, 0, len(result.Entries))
	for _, entry := range result.Entries {
		matches = append(matches, parseMatch(entry, prefix))
	}
	return matches, nil
}

// DeleteByDoc removes all stored chunks of a document and returns how many
// keys were deleted.
func (r *Repo) DeleteByDoc(ctx context.Context, namespace, docID string) (int, error) {
	pattern := r.namespacePrefix(namespace) + docID + "_chunk_*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return 0, fmt.Errorf("delete %d chunks of %s: %w", len(keys), docID, err)
	}
	return len(keys), nil
}

// Count returns the number of vectors stored in the namespace.
func (r *Repo) Count(ctx context.Context, namespace string) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(namespace), "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("count %s: %w", namespace, err)
	}
	return n, nil
}

func (r *Repo) indexName(namespace string) string {
	return r.keyPrefix + namespace + ":idx"
}

func (r *Repo) namespacePrefix(namespace string) string {
	return r.keyPrefix + namespace + ":"
}
