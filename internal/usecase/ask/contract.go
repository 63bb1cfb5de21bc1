package ask

import (
	"context"

	"github.com/crewstack/memberdex/internal/domain/extraction"
	"github.com/crewstack/memberdex/internal/domain/member"
	"github.com/crewstack/memberdex/internal/domain/search/filter"
	"github.com/crewstack/memberdex/internal/domain/search/result"
	"github.com/crewstack/memberdex/internal/domain/session"
)

// Understander turns free text into a structured query.
type Understander interface {
	Understand(ctx context.Context, query, callerID string) extraction.Query
}

// Searcher runs hybrid retrieval over the member index.
type Searcher interface {
	Search(ctx context.Context, query string, f filter.Filter, offset, limit int) (result.Page, error)
}

// MemberReader hydrates member profiles for presentation.
type MemberReader interface {
	GetMulti(ctx context.Context, ids []string) ([]member.Member, error)
}

// SessionRecorder appends completed turns to per-caller history.
type SessionRecorder interface {
	Record(callerID string, turn session.Turn)
}
