// Package respond renders ranked search output into display text keyed by
// the query's intent. Formatting is pure: no I/O, no clock, no allocation
// beyond the string being built.
package respond

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crewstack/memberdex/internal/domain/entity"
	"github.com/crewstack/memberdex/internal/domain/intent"
	"github.com/crewstack/memberdex/internal/domain/member"
	"github.com/crewstack/memberdex/internal/domain/search/result"
)

// lowConfidenceFloor is the confidence below which the formatter asks for
// clarification instead of presenting results.
const lowConfidenceFloor = 0.3

// Input is everything the formatter needs for one response.
type Input struct {
	Intent     intent.Intent
	Entities   entity.Set
	Confidence float64
	Page       result.Page
	Members    []member.Member
}

// Format renders the display text for one answered query.
func Format(in Input) string {
	if in.Confidence < lowConfidenceFloor {
		return clarification(in.Entities)
	}
	if len(in.Members) == 0 {
		return noResults(in.Entities)
	}

	var b strings.Builder
	b.WriteString(header(in.Intent, in.Page.TotalResults))
	b.WriteString("\n")

	for i, m := range in.Members {
		b.WriteString(fmt.Sprintf("%d. %s\n", pageRank(in.Page, i), line(in.Intent, m)))
	}

	if fields := matchedFieldsOf(in.Page); len(fields) > 0 {
		b.WriteString("Matched on: " + strings.Join(fields, ", ") + ".\n")
	}
	if in.Page.TotalPages > 1 {
		b.WriteString(fmt.Sprintf("Showing page %d of %d (%d matches).\n",
			in.Page.PageNumber, in.Page.TotalPages, in.Page.TotalResults))
	}

	return strings.TrimRight(b.String(), "\n")
}

func header(it intent.Intent, total int) string {
	noun := "member"
	switch it {
	case intent.FindBusiness, intent.FindAlumniBusiness:
		noun = "business"
	case intent.FindPeers:
		noun = "batchmate"
	}
	if total == 1 {
		return fmt.Sprintf("Found 1 %s:", noun)
	}
	return fmt.Sprintf("Found %d %ss:", total, noun)
}

// line renders one member the way the intent wants to see them: business
// intents lead with the organization, peer intents with the batch.
func line(it intent.Intent, m member.Member) string {
	switch it {
	case intent.FindBusiness, intent.FindAlumniBusiness:
		return businessLine(m)
	case intent.FindPeers, intent.FindSpecificPerson, intent.Compare:
		return peerLine(m)
	default:
		return defaultLine(m)
	}
}

func businessLine(m member.Member) string {
	parts := []string{m.Name}
	if m.Organization != "" {
		parts[0] = fmt.Sprintf("%s (%s)", m.Name, m.Organization)
	}
	if len(m.Services) > 0 {
		parts = append(parts, strings.Join(m.Services, ", "))
	} else if len(m.Skills) > 0 {
		parts = append(parts, strings.Join(m.Skills, ", "))
	}
	if m.Location != "" {
		parts = append(parts, m.Location)
	}
	return strings.Join(parts, " - ")
}

func peerLine(m member.Member) string {
	parts := []string{m.Name}
	if edu := education(m); edu != "" {
		parts = append(parts, edu)
	}
	if m.Designation != "" && m.Organization != "" {
		parts = append(parts, m.Designation+" at "+m.Organization)
	} else if m.Organization != "" {
		parts = append(parts, m.Organization)
	}
	if m.Location != "" {
		parts = append(parts, m.Location)
	}
	return strings.Join(parts, ", ")
}

func defaultLine(m member.Member) string {
	parts := []string{m.Name}
	if m.Organization != "" {
		parts = append(parts, m.Organization)
	}
	if edu := education(m); edu != "" {
		parts = append(parts, edu)
	}
	if m.Location != "" {
		parts = append(parts, m.Location)
	}
	return strings.Join(parts, ", ")
}

func education(m member.Member) string {
	var parts []string
	if m.Degree != "" {
		parts = append(parts, m.Degree)
	}
	if m.Branch != "" {
		parts = append(parts, m.Branch)
	}
	if m.GraduationYear > 0 {
		parts = append(parts, strconv.Itoa(m.GraduationYear))
	}
	return strings.Join(parts, " ")
}

func clarification(es entity.Set) string {
	if es.IsEmpty() {
		return "I couldn't quite understand that. Try including details like a batch year, branch, city, or the kind of business you're looking for."
	}
	return fmt.Sprintf(
		"I'm not sure I understood that correctly. I picked up %s. Could you rephrase or add more detail?",
		describeEntities(es),
	)
}

func noResults(es entity.Set) string {
	if es.IsEmpty() {
		return "No members matched your query. Try different wording or add details like a batch year or city."
	}
	return fmt.Sprintf(
		"No members matched %s. Try dropping a constraint or broadening the search.",
		describeEntities(es),
	)
}

// describeEntities renders populated slots as a readable clause,
// e.g. "batch 1995, Mechanical, in Chennai".
func describeEntities(es entity.Set) string {
	var parts []string
	if len(es.GraduationYears) > 0 {
		years := make([]string, len(es.GraduationYears))
		for i, y := range es.GraduationYears {
			years[i] = strconv.Itoa(y)
		}
		parts = append(parts, "batch "+strings.Join(years, "/"))
	}
	parts = append(parts, es.Degrees...)
	parts = append(parts, es.Branches...)
	parts = append(parts, es.Skills...)
	parts = append(parts, es.Services...)
	if es.Location != "" {
		parts = append(parts, "in "+es.Location)
	}
	if es.TurnoverTier != entity.TierNone {
		parts = append(parts, string(es.TurnoverTier)+" turnover")
	}
	return strings.Join(parts, ", ")
}

func pageRank(p result.Page, i int) int {
	return (p.PageNumber-1)*pageSize(p) + i + 1
}

func pageSize(p result.Page) int {
	if p.TotalPages <= 1 {
		return len(p.Results)
	}
	// All pages except possibly the last are full.
	if p.PageNumber < p.TotalPages {
		return len(p.Results)
	}
	full := (p.TotalResults - len(p.Results)) / (p.TotalPages - 1)
	if full <= 0 {
		full = len(p.Results)
	}
	return full
}

// matchedFieldsOf unions matched fields across the page, first-seen order.
func matchedFieldsOf(p result.Page) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range p.Results {
		for _, f := range r.MatchedFields() {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
