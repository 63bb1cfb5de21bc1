// Package entity defines the structured fields extracted from free-text queries.
package entity

import "sort"

// Tier buckets member turnover into coarse bands.
type Tier string

const (
	// TierNone is the zero value for the optional turnover slot.
	TierNone Tier = ""
	// TierLow marks small-turnover businesses.
	TierLow Tier = "low"
	// TierMedium marks mid-turnover businesses.
	TierMedium Tier = "medium"
	// TierHigh marks large-turnover businesses.
	TierHigh Tier = "high"
)

// ParseTier validates a raw turnover tier string.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierLow, TierMedium, TierHigh:
		return Tier(s), true
	}
	return TierNone, false
}

// Set holds the entities extracted from one query. All string values are
// canonicalized (casing, city and branch names) before they are stored here.
type Set struct {
	Skills          []string
	Services        []string
	Location        string
	TurnoverTier    Tier
	GraduationYears []int
	Degrees         []string
	Branches        []string
}

// IsEmpty reports whether no entity slot is populated.
func (s Set) IsEmpty() bool {
	return len(s.Skills) == 0 && len(s.Services) == 0 && s.Location == "" &&
		s.TurnoverTier == TierNone && len(s.GraduationYears) == 0 &&
		len(s.Degrees) == 0 && len(s.Branches) == 0
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (s Set) Clone() Set {
	out := s
	out.Skills = append([]string(nil), s.Skills...)
	out.Services = append([]string(nil), s.Services...)
	out.GraduationYears = append([]int(nil), s.GraduationYears...)
	out.Degrees = append([]string(nil), s.Degrees...)
	out.Branches = append([]string(nil), s.Branches...)
	return out
}

// FieldNames lists the populated slots in a fixed order.
func (s Set) FieldNames() []string {
	var names []string
	if len(s.GraduationYears) > 0 {
		names = append(names, "graduation_year")
	}
	if s.Location != "" {
		names = append(names, "location")
	}
	if len(s.Degrees) > 0 {
		names = append(names, "degree")
	}
	if len(s.Branches) > 0 {
		names = append(names, "branch")
	}
	if len(s.Skills) > 0 {
		names = append(names, "skills")
	}
	if len(s.Services) > 0 {
		names = append(names, "services")
	}
	if s.TurnoverTier != TierNone {
		names = append(names, "turnover_tier")
	}
	return names
}

// Union merges other into a copy of s. Array slots are unioned with
// duplicates removed; scalar slots keep s's value when both are set.
func (s Set) Union(other Set) Set {
	out := s.Clone()
	out.Skills = unionStrings(out.Skills, other.Skills)
	out.Services = unionStrings(out.Services, other.Services)
	out.Degrees = unionStrings(out.Degrees, other.Degrees)
	out.Branches = unionStrings(out.Branches, other.Branches)
	out.GraduationYears = unionInts(out.GraduationYears, other.GraduationYears)
	if out.Location == "" {
		out.Location = other.Location
	}
	if out.TurnoverTier == TierNone {
		out.TurnoverTier = other.TurnoverTier
	}
	return out
}

func unionStrings(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, lists := range [][]string{a, b} {
		for _, v := range lists {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func unionInts(a, b []int) []int {
	if len(b) == 0 {
		return a
	}
	seen := make(map[int]struct{}, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, lists := range [][]int{a, b} {
		for _, v := range lists {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
