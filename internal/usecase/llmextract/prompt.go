package llmextract

import "strings"

// instructionPrompt is the fixed domain prompt. It enumerates the entity
// schema and intents, and carries worked examples so smaller models stay on
// format. The closing line is replaced during a repair retry.
const instructionPrompt = `You extract structured search intent from queries against a community member directory.

Return a single JSON object with exactly these fields:
{
  "intent": one of "find_business", "find_peers", "find_specific_person", "find_alumni_business", "get_info", "list_members", "compare",
  "confidence": number between 0 and 1,
  "entities": {
    "skills": array of strings,
    "services": array of strings,
    "location": string or "",
    "turnover_tier": "low", "medium", "high" or "",
    "graduation_years": array of integers (4-digit years),
    "degrees": array of strings,
    "branches": array of strings
  }
}

Examples:

Query: 1995 batch mechanical in Chennai
{"intent":"find_peers","confidence":0.9,"entities":{"skills":[],"services":[],"location":"Chennai","turnover_tier":"","graduation_years":[1995],"degrees":[],"branches":["Mechanical"]}}

Query: anyone doing web development in Bengaluru
{"intent":"find_business","confidence":0.85,"entities":{"skills":[],"services":["web development"],"location":"Bengaluru","turnover_tier":"","graduation_years":[],"degrees":[],"branches":[]}}

Query: who is Ramesh from the 2001 batch
{"intent":"find_specific_person","confidence":0.8,"entities":{"skills":[],"services":[],"location":"","turnover_tier":"","graduation_years":[2001],"degrees":[],"branches":[]}}

Query: big textile companies run by our alumni
{"intent":"find_alumni_business","confidence":0.85,"entities":{"skills":[],"services":["textiles"],"location":"","turnover_tier":"high","graduation_years":[],"degrees":[],"branches":[]}}

Query: show everyone from the mid-90s batches
{"intent":"list_members","confidence":0.8,"entities":{"skills":[],"services":[],"location":"","turnover_tier":"","graduation_years":[1994,1995,1996],"degrees":[],"branches":[]}}

Output only the JSON object, nothing else.`

// repairSuffix replaces the closing instruction on the second attempt.
const repairSuffix = "Your previous output was not valid JSON. Return valid JSON only."

// buildPrompt renders the full prompt: conversation context (optional),
// instructions and the query.
func buildPrompt(query, contextText string, repair bool) string {
	var b strings.Builder

	if contextText != "" {
		b.WriteString("Recent conversation:\n")
		b.WriteString(contextText)
		b.WriteString("\n\n")
	}

	b.WriteString(instructionPrompt)
	if repair {
		b.WriteString("\n\n")
		b.WriteString(repairSuffix)
	}
	b.WriteString("\n\nQuery: ")
	b.WriteString(query)

	return b.String()
}
