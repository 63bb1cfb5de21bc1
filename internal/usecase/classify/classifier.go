// Package classify implements the rule-based intent classifier.
package classify

import (
	"strings"

	"github.com/crewstack/memberdex/internal/domain/intent"
)

// Confidence levels emitted by the classifier. Low confidence is a signal
// callers handle, never an error.
const (
	confidenceSingle    = 0.8
	confidenceAmbiguous = 0.6
	confidenceDefault   = 0.3
)

// Classification is the classifier's verdict for one query.
type Classification struct {
	Primary    intent.Intent
	Secondary  intent.Intent
	Confidence float64
}

// Classifier evaluates the ordered rule table. It is pure and performs no
// I/O; the zero value is ready to use.
type Classifier struct{}

// New creates a Classifier.
func New() *Classifier { return &Classifier{} }

// Classify scores the normalized query against every rule group. The group
// with the most matched phrases becomes the primary intent; a second group
// with hits becomes the secondary and scales confidence down to signal
// ambiguity. No hits at all defaults to list_members at low confidence.
func (c *Classifier) Classify(normalized string) Classification {
	type hit struct {
		group ruleGroup
		count int
	}

	var hits []hit
	for _, g := range ruleGroups {
		n := countMatches(normalized, g.phrases)
		if n > 0 {
			hits = append(hits, hit{group: g, count: n})
		}
	}

	if len(hits) == 0 {
		return Classification{Primary: intent.ListMembers, Confidence: confidenceDefault}
	}

	// Stable selection: rule order breaks count ties.
	best := hits[0]
	var second *hit
	for i := 1; i < len(hits); i++ {
		h := hits[i]
		if h.count > best.count {
			bestCopy := best
			second = &bestCopy
			best = h
		} else if second == nil || h.count > second.count {
			hCopy := h
			second = &hCopy
		}
	}

	if second == nil {
		return Classification{Primary: best.group.intent, Confidence: confidenceSingle}
	}
	return Classification{
		Primary:    best.group.intent,
		Secondary:  second.group.intent,
		Confidence: confidenceAmbiguous,
	}
}

// countMatches counts distinct phrases present on word boundaries.
func countMatches(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if containsPhrase(text, p) {
			n++
		}
	}
	return n
}

func containsPhrase(text, phrase string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(phrase)
		leftOK := idx == 0 || text[idx-1] == ' '
		rightOK := end == len(text) || text[end] == ' '
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}
