// Package session defines per-caller conversational context.
package session

import (
	"time"

	"github.com/crewstack/memberdex/internal/domain/entity"
	"github.com/crewstack/memberdex/internal/domain/intent"
)

// MaxTurns bounds the retained history per caller.
const MaxTurns = 5

// DefaultTTL is how long an idle session survives before the sweeper
// removes it.
const DefaultTTL = 30 * time.Minute

// Turn records one completed query exchange.
type Turn struct {
	QueryText   string
	Timestamp   time.Time
	Intent      intent.Intent
	Entities    entity.Set
	ResultCount int
}

// Session is the short-term memory for a single caller. It is exclusively
// owned by the context store; callers receive copies, never references.
type Session struct {
	Key          string
	History      []Turn
	LastActivity time.Time
}

// Append adds a turn, trims history to MaxTurns (oldest dropped), and bumps
// the activity timestamp.
func (s *Session) Append(t Turn) {
	s.History = append(s.History, t)
	if len(s.History) > MaxTurns {
		s.History = s.History[len(s.History)-MaxTurns:]
	}
	s.LastActivity = t.Timestamp
}

// Expired reports whether the session is older than ttl at the given time.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivity) > ttl
}

// Snapshot returns a deep copy of the history so readers never alias the
// store-owned slice.
func (s *Session) Snapshot() []Turn {
	out := make([]Turn, len(s.History))
	copy(out, s.History)
	return out
}
