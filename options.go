package memberdex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder  Embedder
	completer Completer

	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int

	sessionTTL        time.Duration
	semanticWeight    float64
	keywordWeight     float64
	fallbackThreshold float64

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider. Required: semantic
// retrieval cannot run without one.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithCompleter sets the chat-completion provider for the extraction
// fallback. Without one, every query takes the deterministic path.
func WithCompleter(p Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = p
	})
}

// WithVectorDimensions sets the member embedding dimension.
// Defaults to 768.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithSessionTTL sets how long idle conversation history is retained.
// Defaults to 30 minutes.
func WithSessionTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionTTL = ttl
	})
}

// WithSearchWeights sets the semantic/keyword blend for members found by
// both branches. Defaults: 0.7 semantic, 0.3 keyword.
func WithSearchWeights(semantic, keyword float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticWeight = semantic
		c.keywordWeight = keyword
	})
}

// WithFallbackThreshold sets the regex confidence below which the model
// fallback fires. Defaults to 0.7.
func WithFallbackThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.fallbackThreshold = t
	})
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
