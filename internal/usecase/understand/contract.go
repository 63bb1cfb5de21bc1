package understand

import (
	"context"

	"github.com/crewstack/memberdex/internal/usecase/classify"
	"github.com/crewstack/memberdex/internal/usecase/extract"
	"github.com/crewstack/memberdex/internal/usecase/llmextract"
)

// Classifier decides the caller's intent from a normalized query.
type Classifier interface {
	Classify(normalized string) classify.Classification
}

// RegexExtractor is the deterministic fast-path entity extractor.
type RegexExtractor interface {
	Extract(query string) extract.Result
}

// Fallback is the model-backed extractor invoked below the confidence
// threshold. Errors are absorbed by the orchestrator, never surfaced.
type Fallback interface {
	Extract(ctx context.Context, query, contextText string) (llmextract.Result, error)
}

// ContextProvider renders recent conversation history for a caller.
type ContextProvider interface {
	ContextFor(callerID string) string
}
