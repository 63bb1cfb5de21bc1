package extract

import (
	"sort"
	"strings"

	"github.com/crewstack/memberdex/internal/domain/entity"
)

// CanonicalizeEntities maps a loosely-typed entity set (typically model
// output) through the same dictionaries the regex extractor uses. Unknown
// values are kept in canonical casing rather than dropped; the model may
// legitimately know cities and skills the dictionaries do not.
func CanonicalizeEntities(set entity.Set) entity.Set {
	out := entity.Set{
		TurnoverTier: set.TurnoverTier,
	}

	if set.Location != "" {
		out.Location = canonicalCity(set.Location)
	}
	out.Branches = canonicalList(set.Branches, branchAliases)
	out.Degrees = canonicalList(set.Degrees, degreeAliases)
	out.Skills = canonicalPhrases(set.Skills)
	out.Services = canonicalPhrases(set.Services)

	for _, y := range set.GraduationYears {
		if y >= 0 && y < 100 {
			y = expandShortYear(y)
		}
		if y >= 1950 && y <= 2049 {
			out.GraduationYears = append(out.GraduationYears, y)
		}
	}
	sort.Ints(out.GraduationYears)

	return out
}

func canonicalCity(raw string) string {
	norm := Normalize(raw)
	if c, ok := cityAliases[norm]; ok {
		return c
	}
	return titleCase(norm)
}

func canonicalList(raw []string, aliases map[string]string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		norm := Normalize(v)
		if norm == "" {
			continue
		}
		canonical, ok := aliases[norm]
		if !ok {
			canonical = titleCase(norm)
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}

func canonicalPhrases(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		norm := Normalize(v)
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

func titleCase(norm string) string {
	words := strings.Fields(norm)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
