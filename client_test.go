package memberdex

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockCompleter struct {
	fn func(ctx context.Context, prompt string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return m.fn(ctx, prompt)
}

// --- Tests ---

func TestNew_NoAddress(t *testing.T) {
	_, err := New(WithEmbedder(&mockEmbedder{}))
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_NoEmbedder(t *testing.T) {
	_, err := New(WithRedis("localhost:6379", ""))
	if err == nil {
		t.Fatal("expected error when no embedder provided")
	}
}

func TestEmbedderAdapter(t *testing.T) {
	called := false
	mock := &mockEmbedder{
		fn: func(_ context.Context, text string) (EmbeddingResult, error) {
			called = true
			return EmbeddingResult{
				Embedding:    []float32{1, 2, 3},
				PromptTokens: 5,
				TotalTokens:  10,
			}, nil
		},
	}

	adapter := &embedderAdapter{inner: mock}
	result, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("inner embedder was not called")
	}
	if len(result.Embedding) != 3 {
		t.Errorf("embedding len = %d, want 3", len(result.Embedding))
	}
	if result.TotalTokens != 10 {
		t.Errorf("total tokens = %d, want 10", result.TotalTokens)
	}
}

func TestEmbedderAdapter_Error(t *testing.T) {
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			return EmbeddingResult{}, errors.New("provider down")
		},
	}

	adapter := &embedderAdapter{inner: mock}
	_, err := adapter.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error from adapter")
	}
}

func TestCompleterAdapter(t *testing.T) {
	mock := &mockCompleter{
		fn: func(_ context.Context, prompt string) (string, error) {
			return `{"intent":"get_info"}`, nil
		},
	}

	adapter := &completerAdapter{inner: mock}
	out, err := adapter.Complete(context.Background(), "extract entities")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"intent":"get_info"}` {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestCompleterAdapter_Error(t *testing.T) {
	mock := &mockCompleter{
		fn: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("model unavailable")
		},
	}

	adapter := &completerAdapter{inner: mock}
	_, err := adapter.Complete(context.Background(), "extract entities")
	if err == nil {
		t.Fatal("expected error from adapter")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithRedis("localhost:6379", "secret").apply(cfg)
	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v, want [localhost:6379]", cfg.addrs)
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	emb := &mockEmbedder{}
	WithEmbedder(emb).apply(cfg)
	if cfg.embedder != emb {
		t.Error("embedder not set")
	}

	comp := &mockCompleter{}
	WithCompleter(comp).apply(cfg)
	if cfg.completer != comp {
		t.Error("completer not set")
	}

	WithVectorDimensions(1024).apply(cfg)
	if cfg.vectorDimensions != 1024 {
		t.Errorf("vectorDimensions = %d, want 1024", cfg.vectorDimensions)
	}

	WithHNSW(32, 400).apply(cfg)
	if cfg.hnswM != 32 || cfg.hnswEFConstruct != 400 {
		t.Errorf("hnsw = (%d, %d), want (32, 400)", cfg.hnswM, cfg.hnswEFConstruct)
	}

	WithSessionTTL(15 * time.Minute).apply(cfg)
	if cfg.sessionTTL != 15*time.Minute {
		t.Errorf("sessionTTL = %v, want 15m", cfg.sessionTTL)
	}

	WithSearchWeights(0.6, 0.4).apply(cfg)
	if cfg.semanticWeight != 0.6 || cfg.keywordWeight != 0.4 {
		t.Errorf("weights = (%g, %g), want (0.6, 0.4)", cfg.semanticWeight, cfg.keywordWeight)
	}

	WithFallbackThreshold(0.5).apply(cfg)
	if cfg.fallbackThreshold != 0.5 {
		t.Errorf("fallbackThreshold = %g, want 0.5", cfg.fallbackThreshold)
	}

	l := zap.NewNop()
	WithLogger(l).apply(cfg)
	if cfg.logger != l {
		t.Error("logger not set")
	}
}
