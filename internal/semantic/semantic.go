// Package semantic implements best-effort candidate expansion: resource
// profiles are embedded into vectors and queried by cosine similarity.
package semantic

import (
	"context"
	"fmt"
	"sort"

	"workalloc/internal/embedding"
	"workalloc/internal/model"
	"workalloc/internal/store"
)

// Hit is one semantic search result.
type Hit struct {
	ResourceID string  `json:"id"`
	Score      float64 `json:"score"`
}

// Searcher finds resources semantically related to a query. Discovery
// treats any failure as "no additional candidates".
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Hit, error)
}

// Disabled is the searcher used when no embedder is configured: it
// always succeeds with no hits.
type Disabled struct{}

func (Disabled) Search(context.Context, string, int) ([]Hit, error) { return nil, nil }

// Storage is the slice of the store the index needs.
type Storage interface {
	ListResources(ctx context.Context) ([]model.Resource, error)
	PutResourceVector(ctx context.Context, v store.ResourceVector) error
	ListResourceVectors(ctx context.Context) ([]store.ResourceVector, error)
}

// Index embeds resource profiles and searches the stored vectors.
type Index struct {
	storage  Storage
	embedder embedding.Embedder
}

// NewIndex returns an index, or nil when no embedder is configured.
func NewIndex(storage Storage, embedder embedding.Embedder) *Index {
	if embedder == nil {
		return nil
	}
	return &Index{storage: storage, embedder: embedder}
}

// Profile renders the text that represents a resource in the index.
func Profile(r model.Resource) string {
	return fmt.Sprintf("%s | %s | skill:%d | cases:%d", r.Name, r.Specialty, r.SkillLevel, r.TotalCasesHandled)
}

// Reindex embeds every resource profile and persists the vectors.
// Returns the number of resources indexed.
func (ix *Index) Reindex(ctx context.Context) (int, error) {
	resources, err := ix.storage.ListResources(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range resources {
		profile := Profile(r)
		vec, err := ix.embedder.Embed(ctx, profile)
		if err != nil {
			return 0, fmt.Errorf("embed %s: %w", r.ID, err)
		}
		err = ix.storage.PutResourceVector(ctx, store.ResourceVector{
			ResourceID: r.ID,
			Profile:    profile,
			Embedding:  vec,
		})
		if err != nil {
			return 0, err
		}
	}
	return len(resources), nil
}

// Search returns the topK most similar resources to the query, best
// first. An empty index yields no hits, not an error.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = 5
	}
	qvec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	vectors, err := ix.storage.ListResourceVectors(ctx)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(vectors))
	for _, v := range vectors {
		hits = append(hits, Hit{
			ResourceID: v.ResourceID,
			Score:      embedding.CosineSimilarity(qvec, v.Embedding),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}
