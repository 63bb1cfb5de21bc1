package extract

import (
	"math"
	"reflect"
	"testing"

	"github.com/crewstack/memberdex/internal/domain/entity"
)

func TestExtract_Years(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"four digit year", "1995 batch mechanical", []int{1995}},
		{"four digit without batch word", "members from 2010 in pune", []int{2010}},
		{"short year before batch word", "95 batch civil", []int{1995}},
		{"short year after batch word", "batch of 05", []int{2005}},
		{"passed out phrasing", "passed out 98", []int{1998}},
		{"decade unqualified", "80s batchmates", []int{1980, 1981, 1982, 1983, 1984, 1985, 1986, 1987, 1988, 1989}},
		{"decade early", "early 90s mechanical", []int{1990, 1991, 1992, 1993}},
		{"decade mid with century", "mid 1990s", []int{1994, 1995, 1996}},
		{"decade late", "late 2000s batch", []int{2007, 2008, 2009}},
		{"multiple years deduped", "1995 or 1996 batch", []int{1995, 1996}},
		{"no year", "web developers in chennai", nil},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.query).Entities.GraduationYears
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) years = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestExtract_Location(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"mechanical engineers in chennai", "Chennai"},
		{"batchmates from madras", "Chennai"},
		{"blr startups", "Bengaluru"},
		{"members in new delhi", "Delhi"},
		{"caterers in trichy", "Tiruchirappalli"},
		{"no city here", ""},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := e.Extract(tt.query).Entities.Location
			if got != tt.want {
				t.Errorf("Extract(%q) location = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestExtract_DegreesAndBranches(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantBranches []string
		wantDegrees  []string
	}{
		{"branch full word", "mechanical engineers in salem", []string{"Mechanical"}, nil},
		{"branch abbreviation", "mech batch 1995", []string{"Mechanical"}, nil},
		{"degree with dots", "b.e. holders from coimbatore", nil, []string{"BE"}},
		{"ambiguous alias with context", "it batch 2005", []string{"Information Technology"}, nil},
		{"ambiguous alias without context", "find it companies in chennai", nil, nil},
		{"cs without context", "show me cs people", nil, nil},
		{"degree and branch together", "btech electronics 2010 batch", []string{"Electronics"}, []string{"BTech"}},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.query).Entities
			if !reflect.DeepEqual(got.Branches, tt.wantBranches) {
				t.Errorf("branches = %v, want %v", got.Branches, tt.wantBranches)
			}
			if !reflect.DeepEqual(got.Degrees, tt.wantDegrees) {
				t.Errorf("degrees = %v, want %v", got.Degrees, tt.wantDegrees)
			}
		})
	}
}

func TestExtract_SkillsVersusServices(t *testing.T) {
	e := New()

	// A service marker routes matched phrases to the services slot.
	withMarker := e.Extract("find web development company in chennai").Entities
	if len(withMarker.Services) != 1 || withMarker.Services[0] != "web development" {
		t.Errorf("services = %v, want [web development]", withMarker.Services)
	}
	if len(withMarker.Skills) != 0 {
		t.Errorf("skills = %v, want empty", withMarker.Skills)
	}

	// Without a marker the same phrase is a personal skill.
	withoutMarker := e.Extract("batchmates who know web development").Entities
	if len(withoutMarker.Skills) != 1 || withoutMarker.Skills[0] != "web development" {
		t.Errorf("skills = %v, want [web development]", withoutMarker.Skills)
	}
	if len(withoutMarker.Services) != 0 {
		t.Errorf("services = %v, want empty", withoutMarker.Services)
	}
}

func TestExtract_Turnover(t *testing.T) {
	e := New()
	tests := []struct {
		query string
		want  entity.Tier
	}{
		{"small business owners in erode", entity.TierLow},
		{"mid size companies", entity.TierMedium},
		{"crore turnover businesses in chennai", entity.TierHigh},
		{"batchmates from 1995", entity.TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := e.Extract(tt.query).Entities.TurnoverTier
			if got != tt.want {
				t.Errorf("tier = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_Confidence(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  float64
	}{
		// year + branch: two slots plus the agreement bonus.
		{"year plus branch", "1995 batch mechanical", 0.3 + 0.25 + 0.15},
		// city + service phrase: stays below the fallback threshold.
		{"city plus service", "find web development company in chennai", 0.25 + 0.2 + 0.15},
		// year + city + branch, capped contributions.
		{"three slots", "1995 batch mechanical in chennai", 0.3 + 0.25 + 0.25 + 0.15},
		{"single slot no bonus", "members in chennai", 0.25},
		{"nothing extracted", "hello there", 0},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.query).Confidence
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Extract(%q) confidence = %g, want %g", tt.query, got, tt.want)
			}
		})
	}
}

func TestExtract_ConfidenceCapped(t *testing.T) {
	e := New()
	got := e.Extract("1995 batch be mechanical web development company in chennai").Confidence
	if got > 1.0 {
		t.Errorf("confidence = %g, want at most 1.0", got)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	e := New()
	queries := []string{
		"1995 Batch, Mechanical — in Chennai!",
		"B.E. holders (mid 90's) from Madras",
		"find web-development company in BLR",
	}
	for _, q := range queries {
		first := e.Extract(q)
		second := e.Extract(first.NormalizedText)
		if !reflect.DeepEqual(first.Entities, second.Entities) {
			t.Errorf("Extract(%q): entities changed on re-extraction:\nfirst:  %+v\nsecond: %+v",
				q, first.Entities, second.Entities)
		}
	}
}

func TestExtract_MatchedPatterns(t *testing.T) {
	e := New()
	res := e.Extract("1995 batch mechanical in chennai")

	want := map[string]bool{
		"year_full":           true,
		"location_dictionary": true,
		"branch_dictionary":   true,
	}
	for _, p := range res.MatchedPatterns {
		delete(want, p)
	}
	if len(want) > 0 {
		t.Errorf("missing patterns %v in %v", want, res.MatchedPatterns)
	}
}
