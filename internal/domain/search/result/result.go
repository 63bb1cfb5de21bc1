// Package result defines merged, ranked search output and pagination.
package result

// Ranked is one entry of the final ranked list, one per distinct member.
type Ranked struct {
	memberID      string
	finalScore    float64
	matchedFields []string
}

// New creates a ranked result.
func New(memberID string, finalScore float64, matchedFields []string) Ranked {
	return Ranked{memberID: memberID, finalScore: finalScore, matchedFields: matchedFields}
}

// MemberID returns the member identity.
func (r Ranked) MemberID() string { return r.memberID }

// FinalScore returns the combined relevance score in [0,1].
func (r Ranked) FinalScore() float64 { return r.finalScore }

// MatchedFields returns the union of fields that drove inclusion.
func (r Ranked) MatchedFields() []string { return r.matchedFields }

// Page carries pagination metadata alongside one page of results.
type Page struct {
	Results      []Ranked
	PageNumber   int
	TotalPages   int
	TotalResults int
}

// Paginate slices a sorted result list. Offsets past the end yield an empty
// page with intact totals.
func Paginate(all []Ranked, offset, limit int) Page {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	total := len(all)
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	var page []Ranked
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = all[offset:end]
	}

	return Page{
		Results:      page,
		PageNumber:   offset/limit + 1,
		TotalPages:   totalPages,
		TotalResults: total,
	}
}
