// Package session implements the per-caller conversation context store.
package session

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	domses "github.com/crewstack/memberdex/internal/domain/session"
	"github.com/crewstack/memberdex/internal/metrics"
)

// shardCount spreads callers over independent locks so unrelated callers
// never serialize on each other. Power of two for cheap masking.
const shardCount = 32

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

// Store holds short-lived conversation sessions keyed by caller identity.
type Store struct {
	shards [shardCount]shard
	ttl    time.Duration
	now    Clock
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*domses.Session
}

// NewStore creates a Store with the given idle TTL. A nil clock uses
// wall-clock time.
func NewStore(ttl time.Duration, now Clock) *Store {
	if ttl <= 0 {
		ttl = domses.DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	s := &Store{ttl: ttl, now: now}
	for i := range s.shards {
		s.shards[i].sessions = make(map[string]*domses.Session)
	}
	return s
}

// Record appends a turn to the caller's session, creating it on first use.
// History is trimmed to the retention limit and the idle timer restarts.
func (s *Store) Record(callerID string, turn domses.Turn) {
	if callerID == "" {
		return
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = s.now()
	}

	sh := s.shardFor(callerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[callerID]
	if !ok {
		sess = &domses.Session{Key: callerID}
		sh.sessions[callerID] = sess
		metrics.SessionsActive.Inc()
	} else if sess.Expired(s.now(), s.ttl) {
		// The sweeper has not run yet; stale turns must not leak into the
		// fresh conversation.
		sess.History = nil
	}
	sess.Append(turn)
}

// History returns a copy of the caller's retained turns, oldest first.
func (s *Store) History(callerID string) []domses.Turn {
	sh := s.shardFor(callerID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	sess, ok := sh.sessions[callerID]
	if !ok || sess.Expired(s.now(), s.ttl) {
		return nil
	}
	return sess.Snapshot()
}

// ContextFor renders the caller's history as plain text for the model
// fallback, one line per turn, or an empty string without a session.
func (s *Store) ContextFor(callerID string) string {
	turns := s.History(callerID)
	if len(turns) == 0 {
		return ""
	}

	now := s.now()
	var b strings.Builder
	for i, t := range turns {
		fmt.Fprintf(&b, "%d. %q (%s, %d results)\n",
			i+1, t.QueryText, relativeTime(now.Sub(t.Timestamp)), t.ResultCount)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Sweep removes sessions idle longer than the TTL as of now. Callable from
// the scheduled sweeper and directly from tests; returns the count removed.
func (s *Store) Sweep(now time.Time) int {
	removed := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for key, sess := range sh.sessions {
			if sess.Expired(now, s.ttl) {
				delete(sh.sessions, key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	if removed > 0 {
		metrics.SessionsActive.Sub(float64(removed))
		metrics.SessionsSwept.Add(float64(removed))
	}
	return removed
}

// Len reports the number of retained sessions across all shards.
func (s *Store) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return n
}

func (s *Store) shardFor(callerID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(callerID))
	return &s.shards[h.Sum32()%shardCount]
}

// relativeTime renders a coarse human delta ("just now", "5m ago").
func relativeTime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
