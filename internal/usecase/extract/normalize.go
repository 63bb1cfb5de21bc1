package extract

import "strings"

// Normalize canonicalizes a raw query for extraction: lowercase, dots and
// apostrophes removed ("b.e." → "be", "90's" → "90s"), every other
// punctuation run collapsed to a single space. Normalizing an already
// normalized string is a no-op, which keeps extraction idempotent.
func Normalize(q string) string {
	var b strings.Builder
	b.Grow(len(q))

	lastSpace := true
	for _, r := range strings.ToLower(q) {
		switch {
		case r == '.' || r == '\'':
			// dropped without a space so abbreviations stay joined
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// containsPhrase reports whether phrase occurs in text on word boundaries.
// Both arguments must already be normalized.
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
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
