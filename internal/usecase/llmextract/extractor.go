// Package llmextract implements the model-backed fallback extractor for
// queries the regex path cannot resolve with enough confidence.
package llmextract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crewstack/memberdex/internal/domain"
	"github.com/crewstack/memberdex/internal/domain/entity"
	"github.com/crewstack/memberdex/internal/domain/intent"
	"github.com/crewstack/memberdex/internal/logger"
	"github.com/crewstack/memberdex/internal/metrics"
	"github.com/crewstack/memberdex/internal/usecase/extract"
)

// Config bounds the fallback call.
type Config struct {
	Timeout       time.Duration // hard deadline per attempt
	MaxConfidence float64       // model confidence is capped here
}

// DefaultConfig returns the standard fallback bounds.
func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second, MaxConfidence: 0.95}
}

// Result is a parsed, normalized model extraction.
type Result struct {
	Intent     intent.Intent
	Entities   entity.Set
	Confidence float64
}

// Extractor drives the completion provider. The only non-deterministic
// component in the pipeline; every output passes the same canonicalization
// as the regex extractor before it is merged.
type Extractor struct {
	completer domain.Completer
	cfg       Config
}

// New creates an Extractor.
func New(completer domain.Completer, cfg Config) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxConfidence <= 0 || cfg.MaxConfidence > 1 {
		cfg.MaxConfidence = DefaultConfig().MaxConfidence
	}
	return &Extractor{completer: completer, cfg: cfg}
}

// Extract asks the model to extract intent and entities, retrying exactly
// once with a repair prompt on malformed JSON. Timeouts and provider errors
// are returned to the orchestrator, which absorbs them.
func (e *Extractor) Extract(ctx context.Context, query, contextText string) (Result, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	res, err := e.attempt(ctx, query, contextText, false)
	if err != nil && errors.Is(err, domain.ErrMalformedCompletion) {
		log.Warn("model returned malformed JSON, retrying with repair prompt", zap.Error(err))
		metrics.LLMFallbackTotal.WithLabelValues("parse_error").Inc()
		res, err = e.attempt(ctx, query, contextText, true)
	}

	metrics.LLMFallbackDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.LLMFallbackTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, context.DeadlineExceeded):
		metrics.LLMFallbackTotal.WithLabelValues("timeout").Inc()
	case errors.Is(err, domain.ErrMalformedCompletion):
		metrics.LLMFallbackTotal.WithLabelValues("parse_error").Inc()
	default:
		metrics.LLMFallbackTotal.WithLabelValues("provider_error").Inc()
	}

	return res, err
}

func (e *Extractor) attempt(ctx context.Context, query, contextText string, repair bool) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	raw, err := e.completer.Complete(ctx, buildPrompt(query, contextText, repair))
	if err != nil {
		return Result{}, fmt.Errorf("completion: %w", err)
	}

	parsed, err := parseCompletion(raw)
	if err != nil {
		return Result{}, err
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > e.cfg.MaxConfidence {
		confidence = e.cfg.MaxConfidence
	}

	return Result{
		Intent:     parsed.parsedIntent,
		Entities:   extract.CanonicalizeEntities(parsed.entitySet()),
		Confidence: confidence,
	}, nil
}

// --- Completion parsing ---

type wireEntities struct {
	Skills          []string `json:"skills"`
	Services        []string `json:"services"`
	Location        string   `json:"location"`
	TurnoverTier    string   `json:"turnover_tier"`
	GraduationYears []int    `json:"graduation_years"`
	Degrees         []string `json:"degrees"`
	Branches        []string `json:"branches"`
}

type wireResult struct {
	Intent     string       `json:"intent"`
	Confidence float64      `json:"confidence"`
	Entities   wireEntities `json:"entities"`

	parsedIntent intent.Intent
}

func (w *wireResult) entitySet() entity.Set {
	tier, _ := entity.ParseTier(w.Entities.TurnoverTier)
	return entity.Set{
		Skills:          w.Entities.Skills,
		Services:        w.Entities.Services,
		Location:        w.Entities.Location,
		TurnoverTier:    tier,
		GraduationYears: w.Entities.GraduationYears,
		Degrees:         w.Entities.Degrees,
		Branches:        w.Entities.Branches,
	}
}

// parseCompletion extracts and strictly validates the JSON object in the
// model output. Anything off-schema is a malformed completion, which
// triggers the single repair retry.
func parseCompletion(raw string) (*wireResult, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return nil, fmt.Errorf("no JSON object in output: %w", domain.ErrMalformedCompletion)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var parsed wireResult
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode completion: %v: %w", err, domain.ErrMalformedCompletion)
	}

	in, err := intent.Parse(parsed.Intent)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrMalformedCompletion)
	}
	parsed.parsedIntent = in

	return &parsed, nil
}

// extractJSONObject strips code fences and surrounding prose, returning the
// outermost brace-delimited object.
func extractJSONObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
