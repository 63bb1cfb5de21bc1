// Package filter projects extracted entities into backend query predicates.
package filter

import (
	"sort"

	"github.com/crewstack/memberdex/internal/domain/entity"
)

// Filter is the deterministic projection of an entity set into structured
// search constraints. It is built once per request and never mutated.
type Filter struct {
	years    []int
	location string
	branches []string
	degrees  []string
	tier     entity.Tier
}

// FromEntities derives a Filter from extracted entities. Skills and services
// steer the lexical and semantic branches through the query text itself, so
// only exact-match fields become predicates.
func FromEntities(es entity.Set) Filter {
	years := append([]int(nil), es.GraduationYears...)
	sort.Ints(years)
	return Filter{
		years:    years,
		location: es.Location,
		branches: append([]string(nil), es.Branches...),
		degrees:  append([]string(nil), es.Degrees...),
		tier:     es.TurnoverTier,
	}
}

// Years returns the graduation-year constraints.
func (f Filter) Years() []int { return f.years }

// Location returns the canonical city constraint, if any.
func (f Filter) Location() string { return f.location }

// Branches returns the branch constraints.
func (f Filter) Branches() []string { return f.branches }

// Degrees returns the degree constraints.
func (f Filter) Degrees() []string { return f.degrees }

// Tier returns the turnover-tier constraint, if any.
func (f Filter) Tier() entity.Tier { return f.tier }

// IsEmpty reports whether no predicate is present.
func (f Filter) IsEmpty() bool {
	return len(f.years) == 0 && f.location == "" &&
		len(f.branches) == 0 && len(f.degrees) == 0 && f.tier == entity.TierNone
}

// MatchedFields lists the fields this filter restricts, in a fixed order.
// These feed the "matched on" clause of the response.
func (f Filter) MatchedFields() []string {
	var fields []string
	if len(f.years) > 0 {
		fields = append(fields, "graduation_year")
	}
	if f.location != "" {
		fields = append(fields, "location")
	}
	if len(f.degrees) > 0 {
		fields = append(fields, "degree")
	}
	if len(f.branches) > 0 {
		fields = append(fields, "branch")
	}
	if f.tier != entity.TierNone {
		fields = append(fields, "turnover_tier")
	}
	return fields
}
