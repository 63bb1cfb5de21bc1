package understand

import (
	"github.com/crewstack/memberdex/internal/domain/extraction"
	"github.com/crewstack/memberdex/internal/domain/intent"
	"github.com/crewstack/memberdex/internal/usecase/classify"
	"github.com/crewstack/memberdex/internal/usecase/extract"
	"github.com/crewstack/memberdex/internal/usecase/llmextract"
)

// merge combines the regex and model extractions. Array-valued fields are
// unioned; scalar fields prefer the higher-confidence source. Confidence is
// the maximum of both, penalized on intent disagreement and discounted when
// neither source produced any entity. The penalty only ever lowers
// confidence, never raises it.
func (s *Service) merge(
	reg extract.Result, cls classify.Classification, llm llmextract.Result,
) extraction.Query {
	llmPreferred := llm.Confidence > reg.Confidence

	var entities = reg.Entities.Union(llm.Entities)
	if llmPreferred {
		entities = llm.Entities.Union(reg.Entities)
	}

	primary, secondary := mergeIntents(cls, llm, llmPreferred)

	confidence := reg.Confidence
	if llm.Confidence > confidence {
		confidence = llm.Confidence
	}
	if llm.Intent != cls.Primary {
		confidence -= s.cfg.IntentPenalty
	}
	if reg.Entities.IsEmpty() && llm.Entities.IsEmpty() {
		confidence *= s.cfg.EmptyDiscount
	}

	method := extraction.MethodHybrid
	if reg.Entities.IsEmpty() {
		method = extraction.MethodLLM
	}

	return extraction.Query{
		Intent:          primary,
		SecondaryIntent: secondary,
		Entities:        entities,
		Confidence:      extraction.ClampConfidence(confidence),
		Method:          method,
		MatchedPatterns: reg.MatchedPatterns,
	}
}

// mergeIntents picks the primary intent from the stronger source and keeps
// the other as secondary when they disagree.
func mergeIntents(
	cls classify.Classification, llm llmextract.Result, llmPreferred bool,
) (intent.Intent, intent.Intent) {
	if llm.Intent == cls.Primary {
		return cls.Primary, cls.Secondary
	}
	if llmPreferred && llm.Intent != intent.None {
		return llm.Intent, cls.Primary
	}
	return cls.Primary, llm.Intent
}
