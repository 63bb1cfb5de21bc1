package search

import (
	"context"

	"github.com/crewstack/memberdex/internal/domain"
	"github.com/crewstack/memberdex/internal/domain/search/candidate"
	"github.com/crewstack/memberdex/internal/domain/search/filter"
)

// Repository defines the storage contract for the retrieval branches.
type Repository interface {
	SearchSemantic(
		ctx context.Context, vector []float32, f filter.Filter, topK int,
	) ([]candidate.Match, error)

	SearchKeyword(
		ctx context.Context, query string, f filter.Filter, topK int,
	) ([]candidate.Match, error)

	SupportsTextSearch(ctx context.Context) bool
}

// Embedder vectorizes query text for the semantic branch.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
