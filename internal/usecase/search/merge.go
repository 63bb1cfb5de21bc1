package search

import (
	"sort"

	"github.com/crewstack/memberdex/internal/domain/search/candidate"
	"github.com/crewstack/memberdex/internal/domain/search/result"
)

// merge combines the two branch result sets into one ranked list, one
// entry per distinct member.
//
// A member present in both branches scores the weighted sum of its branch
// scores. A member present in only one branch keeps that branch's raw
// score: scaling single-source hits by their branch weight would rank a
// perfect keyword-only hit below a mediocre double hit.
func (s *Service) merge(semantic, keyword []candidate.Match) []result.Ranked {
	type slot struct {
		semantic, keyword float64
		hasSem, hasKw     bool
		fields            []string
	}

	merged := make(map[string]*slot, len(semantic)+len(keyword))

	for _, m := range semantic {
		score, _ := m.SemanticScore()
		merged[m.MemberID()] = &slot{
			semantic: score,
			hasSem:   true,
			fields:   m.MatchedFields(),
		}
	}

	for _, m := range keyword {
		score, _ := m.KeywordScore()
		if existing, ok := merged[m.MemberID()]; ok {
			existing.keyword = score
			existing.hasKw = true
			existing.fields = unionFields(existing.fields, m.MatchedFields())
		} else {
			merged[m.MemberID()] = &slot{
				keyword: score,
				hasKw:   true,
				fields:  m.MatchedFields(),
			}
		}
	}

	ranked := make([]result.Ranked, 0, len(merged))
	for id, sl := range merged {
		var score float64
		switch {
		case sl.hasSem && sl.hasKw:
			score = s.cfg.SemanticWeight*sl.semantic + s.cfg.KeywordWeight*sl.keyword
		case sl.hasSem:
			score = sl.semantic
		default:
			score = sl.keyword
		}
		ranked = append(ranked, result.New(id, score, sl.fields))
	}

	// Deterministic order: score descending, member id ascending on ties.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].FinalScore() != ranked[j].FinalScore() {
			return ranked[i].FinalScore() > ranked[j].FinalScore()
		}
		return ranked[i].MemberID() < ranked[j].MemberID()
	})

	return ranked
}

// unionFields merges two matched-field lists preserving first-seen order.
func unionFields(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, f := range list {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
