// Package extract implements the deterministic regex entity extractor and
// its pattern library.
package extract

import (
	"sort"
	"strconv"

	"github.com/crewstack/memberdex/internal/domain/entity"
)

// Confidence weights per populated slot, summed and capped at 1.0.
const (
	weightYear    = 0.3
	weightCity    = 0.25
	weightDegree  = 0.25
	weightSkill   = 0.2
	maxConfidence = 1.0

	// agreementBonus rewards queries where two or more independent slots
	// fire; a year plus a branch is far stronger evidence than either alone.
	agreementBonus = 0.15
)

// Result is one regex extraction: entities, a confidence estimate, and the
// names of the patterns that fired.
type Result struct {
	Entities        entity.Set
	Confidence      float64
	MatchedPatterns []string
	NormalizedText  string
}

// Extractor is the pure fast-path entity extractor. Zero value is ready to
// use; it holds no state beyond the shared pattern library.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor { return &Extractor{} }

// Extract runs every extraction rule independently over the normalized
// query and combines the hits. It performs no I/O and has no failure mode
// beyond "no match"; re-running it on its own normalized output yields an
// identical entity set.
func (e *Extractor) Extract(query string) Result {
	text := Normalize(query)

	res := Result{NormalizedText: text}
	var set entity.Set
	slots := 0

	if years, pattern := extractYears(text); len(years) > 0 {
		set.GraduationYears = years
		res.MatchedPatterns = append(res.MatchedPatterns, pattern...)
		res.Confidence += weightYear
		slots++
	}

	if city, ok := lookupFirst(text, cityLookup); ok {
		set.Location = city
		res.MatchedPatterns = append(res.MatchedPatterns, "location_dictionary")
		res.Confidence += weightCity
		slots++
	}

	educCtx := hasEducationContext(text)
	branches := lookupAll(text, branchLookup, educCtx)
	degrees := lookupAll(text, degreeLookup, educCtx)
	if len(branches) > 0 || len(degrees) > 0 {
		set.Branches = branches
		set.Degrees = degrees
		if len(branches) > 0 {
			res.MatchedPatterns = append(res.MatchedPatterns, "branch_dictionary")
		}
		if len(degrees) > 0 {
			res.MatchedPatterns = append(res.MatchedPatterns, "degree_dictionary")
		}
		res.Confidence += weightDegree
		slots++
	}

	if phrases := matchSkillGroups(text); len(phrases) > 0 {
		if hasServiceMarker(text) {
			set.Services = phrases
		} else {
			set.Skills = phrases
		}
		res.MatchedPatterns = append(res.MatchedPatterns, "skill_phrase")
		res.Confidence += weightSkill
		slots++
	}

	if tier, ok := matchTurnover(text); ok {
		set.TurnoverTier = tier
		res.MatchedPatterns = append(res.MatchedPatterns, "turnover_phrase")
	}

	if slots >= 2 {
		res.Confidence += agreementBonus
	}
	if set.IsEmpty() {
		res.Confidence = 0
	}
	if res.Confidence > maxConfidence {
		res.Confidence = maxConfidence
	}

	res.Entities = set
	return res
}

// extractYears applies the three year rules: explicit 4-digit years,
// 2-digit years next to batch words, and decade phrases.
func extractYears(text string) ([]int, []string) {
	seen := make(map[int]struct{})
	var patterns []string

	if matches := yearFull.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		for _, m := range matches {
			if y, err := strconv.Atoi(m[1]); err == nil {
				seen[y] = struct{}{}
			}
		}
		patterns = append(patterns, "year_full")
	}

	if matches := yearShort.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		matched := false
		for _, m := range matches {
			raw := m[1]
			if raw == "" {
				raw = m[2]
			}
			short, err := strconv.Atoi(raw)
			if err != nil {
				continue
			}
			matched = true
			seen[expandShortYear(short)] = struct{}{}
		}
		if matched {
			patterns = append(patterns, "year_short_batch")
		}
	}

	if matches := yearDecade.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		for _, m := range matches {
			for _, y := range expandDecade(m[1], m[2], m[3]) {
				seen[y] = struct{}{}
			}
		}
		patterns = append(patterns, "year_decade")
	}

	if len(seen) == 0 {
		return nil, nil
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, patterns
}

func expandShortYear(short int) int {
	if short < yearPivot {
		return 2000 + short
	}
	return 1900 + short
}

// expandDecade turns "mid-90s" style phrases into an explicit year list:
// early = x0–x3, mid = x4–x6, late = x7–x9, unqualified = the full decade.
func expandDecade(qualifier, century, decadeDigit string) []int {
	d, err := strconv.Atoi(decadeDigit)
	if err != nil {
		return nil
	}

	var base int
	switch century {
	case "19":
		base = 1900 + d*10
	case "20":
		base = 2000 + d*10
	default:
		base = expandShortYear(d * 10)
	}

	lo, hi := 0, 9
	switch qualifier {
	case "early":
		lo, hi = 0, 3
	case "mid":
		lo, hi = 4, 6
	case "late":
		lo, hi = 7, 9
	}

	years := make([]int, 0, hi-lo+1)
	for y := base + lo; y <= base+hi; y++ {
		years = append(years, y)
	}
	return years
}

// lookupFirst returns the canonical value of the first alias present in the
// text. Longest aliases are tried first so "new delhi" beats "delhi".
func lookupFirst(text string, aliases aliasList) (string, bool) {
	for _, a := range aliases {
		if containsPhrase(text, a.alias) {
			return a.canonical, true
		}
	}
	return "", false
}

// lookupAll returns every distinct canonical value whose alias appears.
// Ambiguous short aliases require education context to count.
func lookupAll(text string, aliases aliasList, educCtx bool) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, a := range aliases {
		if _, dup := seen[a.canonical]; dup {
			continue
		}
		if _, ambiguous := ambiguousAliases[a.alias]; ambiguous && !educCtx {
			continue
		}
		if containsPhrase(text, a.alias) {
			seen[a.canonical] = struct{}{}
			out = append(out, a.canonical)
		}
	}
	sort.Strings(out)
	return out
}

func hasEducationContext(text string) bool {
	for _, m := range educationMarkers {
		if containsPhrase(text, m) {
			return true
		}
	}
	return false
}

func matchSkillGroups(text string) []string {
	var out []string
	for _, g := range skillGroups {
		for _, trigger := range g.triggers {
			if containsPhrase(text, trigger) {
				out = append(out, g.canonical)
				break
			}
		}
	}
	return out
}

func hasServiceMarker(text string) bool {
	for _, marker := range serviceMarkers {
		if containsPhrase(text, marker) {
			return true
		}
	}
	return false
}

func matchTurnover(text string) (entity.Tier, bool) {
	for _, t := range turnoverPhrases {
		if containsPhrase(text, t.phrase) {
			return t.tier, true
		}
	}
	return entity.TierNone, false
}
