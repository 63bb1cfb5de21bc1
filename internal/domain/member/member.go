// Package member defines the community-member profile record.
package member

import (
	"strconv"
	"strings"

	"github.com/crewstack/memberdex/internal/domain/entity"
)

// Stored hash field names for member profiles. TagSeparator splits
// multi-valued tag fields (skills, services).
const (
	FieldName           = "name"
	FieldPhone          = "phone"
	FieldOrganization   = "organization"
	FieldDesignation    = "designation"
	FieldLocation       = "location"
	FieldDegree         = "degree"
	FieldBranch         = "branch"
	FieldGraduationYear = "graduation_year"
	FieldSkills         = "skills"
	FieldServices       = "services"
	FieldTurnoverTier   = "turnover_tier"
	FieldContent        = "__content"
	FieldVector         = "__vector"

	TagSeparator = ","
)

// Member is a single directory profile. Read-only within the query core;
// writes and backfill belong to external tooling.
type Member struct {
	ID             string
	Name           string
	Phone          string
	Organization   string
	Designation    string
	Location       string
	Degree         string
	Branch         string
	GraduationYear int
	Skills         []string
	Services       []string
	TurnoverTier   entity.Tier
}

// FromFields reconstructs a Member from stored hash fields.
func FromFields(id string, fields map[string]string) Member {
	m := Member{
		ID:           id,
		Name:         fields[FieldName],
		Phone:        fields[FieldPhone],
		Organization: fields[FieldOrganization],
		Designation:  fields[FieldDesignation],
		Location:     fields[FieldLocation],
		Degree:       fields[FieldDegree],
		Branch:       fields[FieldBranch],
		Skills:       splitTags(fields[FieldSkills]),
		Services:     splitTags(fields[FieldServices]),
	}
	if y, err := strconv.Atoi(fields[FieldGraduationYear]); err == nil {
		m.GraduationYear = y
	}
	if t, ok := entity.ParseTier(fields[FieldTurnoverTier]); ok {
		m.TurnoverTier = t
	}
	return m
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, TagSeparator)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
