// Package candidate defines per-branch retrieval hits before merge.
package candidate

// Match is a single member returned by one retrieval branch. At most one of
// the two scores is set; the merger combines matches from both branches.
type Match struct {
	memberID      string
	semanticScore float64
	keywordScore  float64
	hasSemantic   bool
	hasKeyword    bool
	matchedFields []string
}

// Semantic creates a vector-branch match with the given similarity in [0,1].
func Semantic(memberID string, score float64, matchedFields []string) Match {
	return Match{
		memberID:      memberID,
		semanticScore: clamp(score),
		hasSemantic:   true,
		matchedFields: matchedFields,
	}
}

// Keyword creates a lexical-branch match with the given normalized rank in [0,1].
func Keyword(memberID string, score float64, matchedFields []string) Match {
	return Match{
		memberID:      memberID,
		keywordScore:  clamp(score),
		hasKeyword:    true,
		matchedFields: matchedFields,
	}
}

// MemberID returns the member identity.
func (m Match) MemberID() string { return m.memberID }

// SemanticScore returns the vector similarity and whether it is present.
func (m Match) SemanticScore() (float64, bool) { return m.semanticScore, m.hasSemantic }

// KeywordScore returns the lexical score and whether it is present.
func (m Match) KeywordScore() (float64, bool) { return m.keywordScore, m.hasKeyword }

// MatchedFields lists the fields that drove this branch's inclusion.
func (m Match) MatchedFields() []string { return m.matchedFields }

func clamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
