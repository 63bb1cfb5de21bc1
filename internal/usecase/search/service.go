// Package search runs both retrieval branches concurrently and merges
// them into one ranked, paginated member list.
package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crewstack/memberdex/internal/domain"
	"github.com/crewstack/memberdex/internal/domain/search/candidate"
	"github.com/crewstack/memberdex/internal/domain/search/filter"
	"github.com/crewstack/memberdex/internal/domain/search/result"
	"github.com/crewstack/memberdex/internal/logger"
	"github.com/crewstack/memberdex/internal/metrics"
	"go.uber.org/zap"
)

// Config holds retrieval tunables.
type Config struct {
	// SemanticWeight and KeywordWeight combine branch scores when a member
	// appears in both result sets. A member present in only one branch keeps
	// that branch's raw score.
	SemanticWeight float64
	KeywordWeight  float64
	// Deadline bounds both branches jointly, embedding included.
	Deadline time.Duration
	// MinTopK floors the per-branch candidate count.
	MinTopK int
}

// DefaultConfig returns the standard retrieval configuration.
func DefaultConfig() Config {
	return Config{
		SemanticWeight: 0.7,
		KeywordWeight:  0.3,
		Deadline:       3 * time.Second,
		MinTopK:        20,
	}
}

// Service executes hybrid retrieval over the member index.
type Service struct {
	repo  Repository
	embed Embedder
	cfg   Config
}

// New creates a search service.
func New(repo Repository, embed Embedder, cfg Config) *Service {
	if cfg.SemanticWeight <= 0 && cfg.KeywordWeight <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = DefaultConfig().Deadline
	}
	if cfg.MinTopK <= 0 {
		cfg.MinTopK = DefaultConfig().MinTopK
	}
	return &Service{repo: repo, embed: embed, cfg: cfg}
}

// Search runs semantic and keyword retrieval concurrently under a joint
// deadline, merges the branches, sorts, and paginates. One failed branch
// degrades to the other's results; both failing is ErrRetrievalUnavailable.
func (s *Service) Search(
	ctx context.Context, query string, f filter.Filter, offset, limit int,
) (result.Page, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	// Candidates fetched per branch: enough to fill the requested page
	// twice over, so the merge has real overlap to work with.
	topK := 2 * (offset + limit)
	if topK < s.cfg.MinTopK {
		topK = s.cfg.MinTopK
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Deadline)
	defer cancel()

	var (
		semantic, keyword []candidate.Match
		semErr, kwErr     error
	)

	// Branches are independent: one failing must not cancel the other,
	// so errors are captured per branch and the group only joins.
	var g errgroup.Group
	g.Go(func() error {
		semantic, semErr = s.searchSemantic(ctx, query, f, topK)
		return nil
	})
	g.Go(func() error {
		keyword, kwErr = s.searchKeyword(ctx, query, f, topK)
		return nil
	})
	_ = g.Wait()

	log := logger.FromContext(ctx)
	if semErr != nil {
		metrics.SearchBranchFailures.WithLabelValues("semantic").Inc()
		log.Warn("Semantic branch failed, degrading to keyword results", zap.Error(semErr))
	}
	if kwErr != nil {
		metrics.SearchBranchFailures.WithLabelValues("keyword").Inc()
		log.Warn("Keyword branch failed, degrading to semantic results", zap.Error(kwErr))
	}
	if semErr != nil && kwErr != nil {
		return result.Page{}, fmt.Errorf("%w: semantic: %v; keyword: %v",
			domain.ErrRetrievalUnavailable, semErr, kwErr)
	}

	ranked := s.merge(semantic, keyword)
	return result.Paginate(ranked, offset, limit), nil
}

// searchSemantic embeds the query (one retry on transient provider
// failure) and runs the KNN branch.
func (s *Service) searchSemantic(
	ctx context.Context, query string, f filter.Filter, topK int,
) ([]candidate.Match, error) {
	start := time.Now()
	defer func() {
		metrics.SearchBranchDuration.WithLabelValues("semantic").Observe(time.Since(start).Seconds())
	}()

	emb, err := s.embed.Embed(ctx, query)
	if err != nil && ctx.Err() == nil {
		emb, err = s.embed.Embed(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	matches, err := s.repo.SearchSemantic(ctx, emb.Embedding, f, topK)
	if err != nil {
		return nil, fmt.Errorf("search semantic: %w", err)
	}
	return matches, nil
}

// searchKeyword runs the BM25 branch. A filter-only query (no lexical
// terms) is still valid: it matches on the structured predicates alone.
func (s *Service) searchKeyword(
	ctx context.Context, query string, f filter.Filter, topK int,
) ([]candidate.Match, error) {
	start := time.Now()
	defer func() {
		metrics.SearchBranchDuration.WithLabelValues("keyword").Observe(time.Since(start).Seconds())
	}()

	if !s.repo.SupportsTextSearch(ctx) {
		return nil, domain.ErrRetrievalUnavailable
	}
	if query == "" && f.IsEmpty() {
		return nil, nil
	}

	matches, err := s.repo.SearchKeyword(ctx, query, f, topK)
	if err != nil {
		return nil, fmt.Errorf("search keyword: %w", err)
	}
	return matches, nil
}
