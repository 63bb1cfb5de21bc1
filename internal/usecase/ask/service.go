// Package ask is the top of the query pipeline: it validates the inbound
// question, understands it, retrieves and hydrates members, formats the
// answer, and records the turn in the caller's conversation history.
package ask

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewstack/memberdex/internal/domain"
	"github.com/crewstack/memberdex/internal/domain/extraction"
	"github.com/crewstack/memberdex/internal/domain/member"
	"github.com/crewstack/memberdex/internal/domain/search/filter"
	"github.com/crewstack/memberdex/internal/domain/search/result"
	"github.com/crewstack/memberdex/internal/domain/session"
	"github.com/crewstack/memberdex/internal/logger"
	"github.com/crewstack/memberdex/internal/usecase/respond"
)

// maxQueryLen bounds inbound query text.
const maxQueryLen = 512

// Request is one inbound question.
type Request struct {
	CallerID string
	Query    string
	Offset   int
	Limit    int
}

// Answer is the full outcome of one question.
type Answer struct {
	RequestID   string
	Query       extraction.Query
	Page        result.Page
	Members     []member.Member
	DisplayText string
}

// Service orchestrates the query pipeline.
type Service struct {
	understand Understander
	search     Searcher
	members    MemberReader
	sessions   SessionRecorder
	now        func() time.Time
}

// New creates the ask service.
func New(u Understander, s Searcher, m MemberReader, rec SessionRecorder) *Service {
	return &Service{
		understand: u,
		search:     s,
		members:    m,
		sessions:   rec,
		now:        time.Now,
	}
}

// Ask answers one free-text question for one caller.
func (s *Service) Ask(ctx context.Context, req Request) (Answer, error) {
	if err := validate(req); err != nil {
		return Answer{}, err
	}

	requestID := uuid.NewString()
	log := logger.FromContext(ctx).With(zap.String("request_id", requestID))
	ctx = logger.ContextWithLogger(ctx, log)

	q := s.understand.Understand(ctx, req.Query, req.CallerID)

	page, err := s.search.Search(ctx, q.NormalizedText, filter.FromEntities(q.Entities), req.Offset, req.Limit)
	if err != nil {
		return Answer{}, fmt.Errorf("search members: %w", err)
	}

	members, err := s.hydrate(ctx, page)
	if err != nil {
		return Answer{}, err
	}

	s.sessions.Record(req.CallerID, session.Turn{
		QueryText:   req.Query,
		Timestamp:   s.now(),
		Intent:      q.Intent,
		Entities:    q.Entities,
		ResultCount: page.TotalResults,
	})

	log.Info("Answered query",
		zap.String("intent", q.Intent.String()),
		zap.Float64("confidence", q.Confidence),
		zap.String("method", string(q.Method)),
		zap.Int("results", page.TotalResults),
	)

	return Answer{
		RequestID: requestID,
		Query:     q,
		Page:      page,
		Members:   members,
		DisplayText: respond.Format(respond.Input{
			Intent:     q.Intent,
			Entities:   q.Entities,
			Confidence: q.Confidence,
			Page:       page,
			Members:    members,
		}),
	}, nil
}

// hydrate loads profiles for the ranked page. Members deleted between
// ranking and hydration are dropped.
func (s *Service) hydrate(ctx context.Context, page result.Page) ([]member.Member, error) {
	if len(page.Results) == 0 {
		return nil, nil
	}

	ids := make([]string, len(page.Results))
	for i, r := range page.Results {
		ids[i] = r.MemberID()
	}

	members, err := s.members.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate members: %w", err)
	}
	return members, nil
}

func validate(req Request) error {
	if strings.TrimSpace(req.CallerID) == "" {
		return fmt.Errorf("%w: caller id is required", domain.ErrInvalidCaller)
	}
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return fmt.Errorf("%w: query text is required", domain.ErrInvalidQuery)
	}
	if len(q) > maxQueryLen {
		return fmt.Errorf("%w: query exceeds %d characters", domain.ErrInvalidQuery, maxQueryLen)
	}
	return nil
}
