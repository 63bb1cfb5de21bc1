package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/crewstack/memberdex/internal/db"
	"github.com/crewstack/memberdex/internal/domain"
)

// --- Mocks ---

type mockStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	setTTL  time.Duration
	setKeys []string
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return data, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.setTTL = ttl
	m.setKeys = append(m.setKeys, key)
	return nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

// --- Tests ---

func TestEmbed_MissCallsInnerAndCaches(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.5, -1.0},
		TotalTokens: 7,
	}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	got, err := c.Embed(context.Background(), "1995 batch mechanical")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if got.TotalTokens != 7 {
		t.Errorf("expected TotalTokens=7 on miss, got %d", got.TotalTokens)
	}
	if len(store.setKeys) != 1 {
		t.Fatalf("expected 1 cache write, got %d", len(store.setKeys))
	}
	if store.setTTL != time.Hour {
		t.Errorf("expected TTL=1h, got %v", store.setTTL)
	}
}

func TestEmbed_HitSkipsInner(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.5, -1.0},
		TotalTokens: 7,
	}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "query"); err != nil {
		t.Fatalf("first embed: %v", err)
	}

	got, err := c.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("second embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner untouched on hit, got %d calls", inner.calls)
	}
	if got.TotalTokens != 0 {
		t.Errorf("expected TotalTokens=0 on hit, got %d", got.TotalTokens)
	}
	if len(got.Embedding) != 2 || got.Embedding[0] != 0.5 || got.Embedding[1] != -1.0 {
		t.Errorf("unexpected cached vector: %v", got.Embedding)
	}
}

func TestEmbed_DistinctTextsDistinctKeys(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "textile exports"); err != nil {
		t.Fatalf("embed: %v", err)
	}
	if _, err := c.Embed(context.Background(), "textile imports"); err != nil {
		t.Fatalf("embed: %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.calls)
	}
	if len(store.setKeys) != 2 || store.setKeys[0] == store.setKeys[1] {
		t.Errorf("expected 2 distinct cache keys, got %v", store.setKeys)
	}
}

func TestEmbed_StoreGetErrorFallsThrough(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("connection reset")
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	_, err := c.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestEmbed_StoreSetErrorIgnored(t *testing.T) {
	store := newMockStore()
	store.setErr = errors.New("write failed")
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	_, err := c.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmbed_InnerErrorSurfaces(t *testing.T) {
	store := newMockStore()
	providerErr := errors.New("rate limited")
	inner := &mockEmbedder{err: providerErr}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	_, err := c.Embed(context.Background(), "query")
	if !errors.Is(err, providerErr) {
		t.Errorf("expected provider error, got %v", err)
	}
	if len(store.setKeys) != 0 {
		t.Errorf("expected no cache write on error, got %v", store.setKeys)
	}
}

func TestEmbed_CorruptCacheEntryTreatedAsMiss(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	store.data[c.cacheKey("query")] = []byte{0x01, 0x02, 0x03} // not a multiple of 4

	_, err := c.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner call on corrupt entry, got %d", inner.calls)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.14159}
	out, err := bytesToVector(vectorToCacheBytes(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length mismatch: got %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("element %d: got %g, want %g", i, out[i], in[i])
		}
	}
}
