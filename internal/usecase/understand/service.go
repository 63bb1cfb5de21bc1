// Package understand composes intent classification, regex extraction and
// the model fallback into one structured query understanding.
package understand

import (
	"context"

	"go.uber.org/zap"

	"github.com/crewstack/memberdex/internal/domain/extraction"
	"github.com/crewstack/memberdex/internal/logger"
	"github.com/crewstack/memberdex/internal/metrics"
	"github.com/crewstack/memberdex/internal/usecase/classify"
	"github.com/crewstack/memberdex/internal/usecase/extract"
)

// Config holds the orchestration thresholds. Kept as data, not code; wired
// from the top-level configuration.
type Config struct {
	// FallbackThreshold gates the model call: regex confidence at or above
	// it takes the fast path.
	FallbackThreshold float64
	// IntentPenalty is subtracted when regex-side classification and the
	// model disagree on intent (floored at zero).
	IntentPenalty float64
	// EmptyDiscount scales confidence down when neither source found any
	// entity, which signals a genuinely ambiguous query.
	EmptyDiscount float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{FallbackThreshold: 0.7, IntentPenalty: 0.2, EmptyDiscount: 0.5}
}

// Service is the query understanding orchestrator.
type Service struct {
	classifier Classifier
	regex      RegexExtractor
	fallback   Fallback
	contexts   ContextProvider
	cfg        Config
}

// New creates the orchestrator. fallback may be nil, in which case every
// query takes the deterministic path.
func New(
	classifier Classifier, regex RegexExtractor,
	fallback Fallback, contexts ContextProvider, cfg Config,
) *Service {
	if cfg.FallbackThreshold <= 0 {
		cfg.FallbackThreshold = DefaultConfig().FallbackThreshold
	}
	if cfg.EmptyDiscount <= 0 {
		cfg.EmptyDiscount = DefaultConfig().EmptyDiscount
	}
	return &Service{
		classifier: classifier, regex: regex,
		fallback: fallback, contexts: contexts, cfg: cfg,
	}
}

// Understand turns a free-text query into a structured extraction. The
// classifier and the regex extractor run in parallel (both pure); the model
// fallback only fires below the confidence threshold, and its failures are
// absorbed into a regex-only result.
func (s *Service) Understand(ctx context.Context, query, callerID string) extraction.Query {
	normalized := extract.Normalize(query)

	clsCh := make(chan classify.Classification, 1)
	go func() { clsCh <- s.classifier.Classify(normalized) }()

	reg := s.regex.Extract(normalized)
	cls := <-clsCh

	var out extraction.Query
	if reg.Confidence >= s.cfg.FallbackThreshold || s.fallback == nil {
		out = s.fastPath(reg, cls)
	} else {
		out = s.withFallback(ctx, query, callerID, reg, cls)
	}

	out.NormalizedText = normalized
	out.Confidence = extraction.ClampConfidence(out.Confidence)

	metrics.ExtractionTotal.WithLabelValues(string(out.Method), out.Intent.String()).Inc()
	metrics.ExtractionConfidence.Observe(out.Confidence)

	return out
}

// fastPath builds the regex-only extraction.
func (s *Service) fastPath(reg extract.Result, cls classify.Classification) extraction.Query {
	return extraction.Query{
		Intent:          cls.Primary,
		SecondaryIntent: cls.Secondary,
		Entities:        reg.Entities,
		Confidence:      reg.Confidence,
		Method:          extraction.MethodRegex,
		MatchedPatterns: reg.MatchedPatterns,
	}
}

// withFallback reads the caller's recent context, invokes the model and
// merges both sources. Timeouts and malformed output degrade silently to
// the regex-only result with its confidence untouched.
func (s *Service) withFallback(
	ctx context.Context, query, callerID string,
	reg extract.Result, cls classify.Classification,
) extraction.Query {
	// History is read and released before the network call; the session is
	// never locked across it.
	var contextText string
	if s.contexts != nil {
		contextText = s.contexts.ContextFor(callerID)
	}

	llm, err := s.fallback.Extract(ctx, query, contextText)
	if err != nil {
		logger.FromContext(ctx).Warn("model fallback degraded to regex-only extraction",
			zap.Error(err),
			zap.Float64("regex_confidence", reg.Confidence),
		)
		return s.fastPath(reg, cls)
	}

	return s.merge(reg, cls, llm)
}
