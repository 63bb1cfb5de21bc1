// Package member is the repository over the member profile index.
package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crewstack/memberdex/internal/db"
	"github.com/crewstack/memberdex/internal/domain"
	memdom "github.com/crewstack/memberdex/internal/domain/member"
	"github.com/crewstack/memberdex/internal/domain/search/candidate"
	"github.com/crewstack/memberdex/internal/domain/search/filter"
)

// IndexName is the FT index over member profile hashes.
const IndexName = domain.KeyPrefix + "members:idx"

// keyPrefix scopes member profile hash keys.
const keyPrefix = domain.KeyPrefix + "members:"

// Matched-field labels contributed by the branches themselves, alongside
// the filter's field names.
const (
	matchedProfile  = "profile"
	matchedKeywords = "keywords"
)

// store is the consumer interface for member operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig tunes the vector index graph.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements usecase/search.Repository and usecase/ask.MemberReader.
type Repo struct {
	store store
	hnsw  HNSWConfig
}

// New creates a member repository.
func New(s store) *Repo {
	return &Repo{store: s, hnsw: HNSWConfig{M: 16, EFConstruct: 200}}
}

// WithHNSW overrides the HNSW graph parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureIndex creates the member FT index if it does not exist yet.
// Concurrent creation by another instance is not an error.
func (r *Repo) EnsureIndex(ctx context.Context, vectorDim int) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	if exists {
		return nil
	}

	def := db.NewIndex(IndexName).
		Prefix(keyPrefix).
		Text(memdom.FieldContent).
		Tag(memdom.FieldLocation, memdom.TagSeparator).
		Tag(memdom.FieldDegree, memdom.TagSeparator).
		Tag(memdom.FieldBranch, memdom.TagSeparator).
		Tag(memdom.FieldTurnoverTier, memdom.TagSeparator).
		Numeric(memdom.FieldGraduationYear).
		VectorHNSW(memdom.FieldVector, "vector", vectorDim, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct).
		Build()

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// SupportsTextSearch proxies the capability check from the store.
func (r *Repo) SupportsTextSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

// SearchSemantic runs the vector branch: a KNN query over profile
// embeddings with structured pre-filtering. Scores are cosine
// similarities in [0,1].
func (r *Repo) SearchSemantic(
	ctx context.Context, vector []float32, f filter.Filter, topK int,
) ([]candidate.Match, error) {
	q := &db.KNNQuery{
		IndexName:    IndexName,
		Filter:       f,
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{"__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search semantic: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	fields := append(f.MatchedFields(), matchedProfile)
	matches := make([]candidate.Match, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, keyPrefix)
		matches = append(matches, candidate.Semantic(id, entry.Score, fields))
	}
	return matches, nil
}

// SearchKeyword runs the lexical branch: a BM25 query over indexed profile
// text with the same structured pre-filtering. Raw BM25 scores are
// normalized by the best score in the result set; a filter-only query
// (no lexical terms) yields zero keyword scores.
func (r *Repo) SearchKeyword(
	ctx context.Context, query string, f filter.Filter, topK int,
) ([]candidate.Match, error) {
	q := &db.TextQuery{
		IndexName:    IndexName,
		Query:        query,
		Filter:       f,
		TopK:         topK,
		ReturnFields: []string{memdom.FieldGraduationYear},
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search keyword: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	var best float64
	for _, entry := range sr.Entries {
		if entry.Score > best {
			best = entry.Score
		}
	}

	fields := f.MatchedFields()
	if strings.TrimSpace(query) != "" {
		fields = append(fields, matchedKeywords)
	}

	matches := make([]candidate.Match, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, keyPrefix)
		score := 0.0
		if best > 0 {
			score = entry.Score / best
		}
		matches = append(matches, candidate.Keyword(id, score, fields))
	}
	return matches, nil
}

// Get hydrates a single member profile by id.
func (r *Repo) Get(ctx context.Context, id string) (memdom.Member, error) {
	fields, err := r.store.HGetAll(ctx, keyPrefix+id)
	if err != nil {
		return memdom.Member{}, fmt.Errorf("get member %s: %w", id, err)
	}
	if len(fields) == 0 {
		return memdom.Member{}, fmt.Errorf("get member %s: %w", id, domain.ErrMemberNotFound)
	}
	return memdom.FromFields(id, fields), nil
}

// GetMulti hydrates member profiles in order. Ids whose hash has vanished
// since the search are silently dropped.
func (r *Repo) GetMulti(ctx context.Context, ids []string) ([]memdom.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}

	all, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get members: %w", err)
	}

	members := make([]memdom.Member, 0, len(ids))
	for i, fields := range all {
		if len(fields) == 0 {
			continue
		}
		members = append(members, memdom.FromFields(ids[i], fields))
	}
	return members, nil
}
