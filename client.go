// Package memberdex is the in-process SDK for the member directory query
// pipeline: free-text understanding, hybrid retrieval, and intent-aware
// response formatting over a Redis-backed member index.
package memberdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crewstack/memberdex/internal/db"
	dbRedis "github.com/crewstack/memberdex/internal/db/redis"
	"github.com/crewstack/memberdex/internal/domain"
	memdom "github.com/crewstack/memberdex/internal/domain/member"
	memberrepo "github.com/crewstack/memberdex/internal/repository/member"
	askuc "github.com/crewstack/memberdex/internal/usecase/ask"
	"github.com/crewstack/memberdex/internal/usecase/classify"
	"github.com/crewstack/memberdex/internal/usecase/extract"
	"github.com/crewstack/memberdex/internal/usecase/llmextract"
	searchuc "github.com/crewstack/memberdex/internal/usecase/search"
	sessionuc "github.com/crewstack/memberdex/internal/usecase/session"
	"github.com/crewstack/memberdex/internal/usecase/understand"
)

const defaultReadinessTimeout = 10 * time.Second

// Embedder vectorizes text. Implementations wrap whatever embedding
// provider the host application already uses.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult is the outcome of one embedding call.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Completer produces a chat completion for the extraction fallback.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client is the memberdex SDK entry point.
type Client struct {
	store  db.Store
	askSvc *askuc.Service
}

// New creates a memberdex Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: domain.DefaultVectorConfig().Dimensions,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("memberdex: database address required (use WithRedis)")
	}
	if cfg.embedder == nil {
		return nil, errors.New("memberdex: embedder required (use WithEmbedder)")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("memberdex: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("memberdex: database not ready: %w", err)
	}

	return wireClient(ctx, store, cfg)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig) (*Client, error) {
	repo := memberrepo.New(store)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		repo = repo.WithHNSW(memberrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	if err := repo.EnsureIndex(ctx, cfg.vectorDimensions); err != nil {
		store.Close()
		return nil, fmt.Errorf("memberdex: ensure index: %w", err)
	}

	sessions := sessionuc.NewStore(cfg.sessionTTL, time.Now)

	var fallback understand.Fallback
	if cfg.completer != nil {
		fallback = llmextract.New(&completerAdapter{inner: cfg.completer}, llmextract.DefaultConfig())
	}

	understandCfg := understand.DefaultConfig()
	if cfg.fallbackThreshold > 0 {
		understandCfg.FallbackThreshold = cfg.fallbackThreshold
	}
	understandSvc := understand.New(classify.New(), extract.New(), fallback, sessions, understandCfg)

	searchCfg := searchuc.DefaultConfig()
	if cfg.semanticWeight > 0 || cfg.keywordWeight > 0 {
		searchCfg.SemanticWeight = cfg.semanticWeight
		searchCfg.KeywordWeight = cfg.keywordWeight
	}
	searchSvc := searchuc.New(repo, &embedderAdapter{inner: cfg.embedder}, searchCfg)

	return &Client{
		store:  store,
		askSvc: askuc.New(understandSvc, searchSvc, repo, sessions),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Question is one free-text query against the directory.
type Question struct {
	CallerID string
	Text     string
	Page     int
	PageSize int
}

// Member is one directory profile in an answer.
type Member struct {
	ID             string
	Name           string
	Phone          string
	Organization   string
	Designation    string
	Location       string
	Degree         string
	Branch         string
	GraduationYear int
	Skills         []string
	Services       []string
	Score          float64
	MatchedFields  []string
}

// Answer is the outcome of one question.
type Answer struct {
	RequestID    string
	Intent       string
	Confidence   float64
	Method       string
	DisplayText  string
	Members      []Member
	Page         int
	TotalPages   int
	TotalResults int
}

// Ask answers one free-text question.
func (c *Client) Ask(ctx context.Context, q Question) (Answer, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 10
	}

	a, err := c.askSvc.Ask(ctx, askuc.Request{
		CallerID: q.CallerID,
		Query:    q.Text,
		Offset:   (page - 1) * size,
		Limit:    size,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("ask: %w", err)
	}

	scores := make(map[string]float64, len(a.Page.Results))
	fields := make(map[string][]string, len(a.Page.Results))
	for _, r := range a.Page.Results {
		scores[r.MemberID()] = r.FinalScore()
		fields[r.MemberID()] = r.MatchedFields()
	}

	members := make([]Member, 0, len(a.Members))
	for _, m := range a.Members {
		members = append(members, toPublicMember(m, scores[m.ID], fields[m.ID]))
	}

	return Answer{
		RequestID:    a.RequestID,
		Intent:       a.Query.Intent.String(),
		Confidence:   a.Query.Confidence,
		Method:       string(a.Query.Method),
		DisplayText:  a.DisplayText,
		Members:      members,
		Page:         a.Page.PageNumber,
		TotalPages:   a.Page.TotalPages,
		TotalResults: a.Page.TotalResults,
	}, nil
}

func toPublicMember(m memdom.Member, score float64, matched []string) Member {
	return Member{
		ID:             m.ID,
		Name:           m.Name,
		Phone:          m.Phone,
		Organization:   m.Organization,
		Designation:    m.Designation,
		Location:       m.Location,
		Degree:         m.Degree,
		Branch:         m.Branch,
		GraduationYear: m.GraduationYear,
		Skills:         m.Skills,
		Services:       m.Services,
		Score:          score,
		MatchedFields:  matched,
	}
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// completerAdapter wraps the public Completer to satisfy domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := a.inner.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return out, nil
}
