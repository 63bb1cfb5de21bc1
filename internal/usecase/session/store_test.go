package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/crewstack/memberdex/internal/domain/intent"
	domses "github.com/crewstack/memberdex/internal/domain/session"
)

// fakeClock is advanced explicitly by tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestStore_RecordAndHistory(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, clock.Now)

	store.Record("caller-1", domses.Turn{QueryText: "1995 batch", Intent: intent.FindPeers, ResultCount: 4})

	got := store.History("caller-1")
	if len(got) != 1 {
		t.Fatalf("history len = %d, want 1", len(got))
	}
	if got[0].QueryText != "1995 batch" {
		t.Errorf("query = %q, want %q", got[0].QueryText, "1995 batch")
	}
	if !got[0].Timestamp.Equal(clock.Now()) {
		t.Errorf("timestamp not stamped from the clock")
	}
}

func TestStore_HistoryTrimmedToRetentionLimit(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, clock.Now)

	for i := 0; i < domses.MaxTurns+3; i++ {
		store.Record("caller-1", domses.Turn{QueryText: fmt.Sprintf("query %d", i)})
		clock.Advance(time.Minute)
	}

	got := store.History("caller-1")
	if len(got) != domses.MaxTurns {
		t.Fatalf("history len = %d, want %d", len(got), domses.MaxTurns)
	}
	// Oldest turns dropped; the window ends at the last recorded query.
	if got[0].QueryText != "query 3" {
		t.Errorf("oldest retained = %q, want %q", got[0].QueryText, "query 3")
	}
	if got[len(got)-1].QueryText != "query 7" {
		t.Errorf("newest retained = %q, want %q", got[len(got)-1].QueryText, "query 7")
	}
}

func TestStore_HistoryIsACopy(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, clock.Now)
	store.Record("caller-1", domses.Turn{QueryText: "original"})

	got := store.History("caller-1")
	got[0].QueryText = "mutated"

	if again := store.History("caller-1"); again[0].QueryText != "original" {
		t.Errorf("store history was mutated through the returned slice")
	}
}

func TestStore_ExpiredSessionInvisible(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, clock.Now)
	store.Record("caller-1", domses.Turn{QueryText: "q"})

	clock.Advance(31 * time.Minute)

	if got := store.History("caller-1"); got != nil {
		t.Errorf("history = %v, want nil for expired session", got)
	}
	if got := store.ContextFor("caller-1"); got != "" {
		t.Errorf("context = %q, want empty for expired session", got)
	}
}

func TestStore_RecordAfterExpiryStartsFresh(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, clock.Now)
	store.Record("caller-1", domses.Turn{QueryText: "stale"})

	// Past the TTL but before any sweep: the old turns must not carry over.
	clock.Advance(45 * time.Minute)
	store.Record("caller-1", domses.Turn{QueryText: "fresh"})

	got := store.History("caller-1")
	if len(got) != 1 {
		t.Fatalf("history len = %d, want 1", len(got))
	}
	if got[0].QueryText != "fresh" {
		t.Errorf("retained = %q, want %q", got[0].QueryText, "fresh")
	}
}

func TestStore_ActivityRestartsIdleTimer(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, clock.Now)
	store.Record("caller-1", domses.Turn{QueryText: "first"})

	clock.Advance(25 * time.Minute)
	store.Record("caller-1", domses.Turn{QueryText: "second"})
	clock.Advance(25 * time.Minute)

	got := store.History("caller-1")
	if len(got) != 2 {
		t.Fatalf("history len = %d, want 2 (session kept alive)", len(got))
	}
}

func TestStore_ContextForRendering(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, clock.Now)

	store.Record("caller-1", domses.Turn{QueryText: "1995 batch", ResultCount: 4})
	clock.Advance(5 * time.Minute)
	store.Record("caller-1", domses.Turn{QueryText: "in chennai", ResultCount: 2})
	clock.Advance(30 * time.Second)

	want := "1. \"1995 batch\" (5m ago, 4 results)\n2. \"in chennai\" (just now, 2 results)"
	if got := store.ContextFor("caller-1"); got != want {
		t.Errorf("context =\n%q\nwant\n%q", got, want)
	}
}

func TestStore_ContextForUnknownCaller(t *testing.T) {
	store := NewStore(30*time.Minute, newFakeClock().Now)
	if got := store.ContextFor("nobody"); got != "" {
		t.Errorf("context = %q, want empty", got)
	}
}

func TestStore_SweepRemovesOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, clock.Now)

	store.Record("old-caller", domses.Turn{QueryText: "q1"})
	clock.Advance(20 * time.Minute)
	store.Record("fresh-caller", domses.Turn{QueryText: "q2"})
	clock.Advance(15 * time.Minute)

	if removed := store.Sweep(clock.Now()); removed != 1 {
		t.Fatalf("swept = %d, want 1", removed)
	}
	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}
	if got := store.History("fresh-caller"); len(got) != 1 {
		t.Errorf("fresh caller history lost")
	}
}

func TestStore_EmptyCallerIgnored(t *testing.T) {
	store := NewStore(30*time.Minute, newFakeClock().Now)
	store.Record("", domses.Turn{QueryText: "q"})
	if store.Len() != 0 {
		t.Errorf("len = %d, want 0", store.Len())
	}
}

func TestStore_CallersIsolated(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, clock.Now)

	store.Record("caller-a", domses.Turn{QueryText: "a"})
	store.Record("caller-b", domses.Turn{QueryText: "b"})

	if got := store.History("caller-a"); len(got) != 1 || got[0].QueryText != "a" {
		t.Errorf("caller-a history = %v", got)
	}
	if got := store.History("caller-b"); len(got) != 1 || got[0].QueryText != "b" {
		t.Errorf("caller-b history = %v", got)
	}
}
