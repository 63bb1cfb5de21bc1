// Package extraction defines the structured output of query understanding.
package extraction

import (
	"github.com/crewstack/memberdex/internal/domain/entity"
	"github.com/crewstack/memberdex/internal/domain/intent"
)

// Method identifies which extraction path produced a result.
type Method string

const (
	// MethodRegex marks the deterministic fast path.
	MethodRegex Method = "regex"
	// MethodLLM marks a pure model extraction.
	MethodLLM Method = "llm"
	// MethodHybrid marks a merge of regex and model extractions.
	MethodHybrid Method = "hybrid"
)

// Query is the structured understanding of one free-text query.
// Confidence is only ever reduced by fallback degradation, never raised.
type Query struct {
	Intent          intent.Intent
	SecondaryIntent intent.Intent
	Entities        entity.Set
	Confidence      float64
	Method          Method
	NormalizedText  string
	MatchedPatterns []string
}

// ClampConfidence bounds a confidence value to [0,1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
