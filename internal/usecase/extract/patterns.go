package extract

import (
	"regexp"
	"sort"

	"github.com/crewstack/memberdex/internal/domain/entity"
)

// Pattern library: canonical lookup tables and compiled patterns shared by
// every extraction. Built once at package init; lookups never allocate.

// cityAliases maps normalized aliases and abbreviations to canonical city
// names. First match wins, longest aliases tried first.
var cityAliases = map[string]string{
	"chennai":    "Chennai",
	"madras":     "Chennai",
	"bengaluru":  "Bengaluru",
	"bangalore":  "Bengaluru",
	"blr":        "Bengaluru",
	"mumbai":     "Mumbai",
	"bombay":     "Mumbai",
	"delhi":      "Delhi",
	"new delhi":  "Delhi",
	"hyderabad":  "Hyderabad",
	"hyd":        "Hyderabad",
	"coimbatore": "Coimbatore",
	"kovai":      "Coimbatore",
	"madurai":    "Madurai",
	"trichy":     "Tiruchirappalli",
	"tiruchirappalli": "Tiruchirappalli",
	"salem":          "Salem",
	"erode":          "Erode",
	"vellore":        "Vellore",
	"tirunelveli":    "Tirunelveli",
	"thanjavur":      "Thanjavur",
	"pondicherry":    "Puducherry",
	"puducherry":     "Puducherry",
	"pune":           "Pune",
	"kochi":          "Kochi",
	"cochin":         "Kochi",
	"thiruvananthapuram": "Thiruvananthapuram",
	"trivandrum":         "Thiruvananthapuram",
	"kolkata":            "Kolkata",
	"calcutta":           "Kolkata",
	"ahmedabad":          "Ahmedabad",
	"jaipur":             "Jaipur",
	"lucknow":            "Lucknow",
	"nagpur":             "Nagpur",
	"visakhapatnam":      "Visakhapatnam",
	"vizag":              "Visakhapatnam",
	"mysore":             "Mysuru",
	"mysuru":             "Mysuru",
	"mangalore":          "Mangaluru",
	"mangaluru":          "Mangaluru",
	"gurgaon":            "Gurugram",
	"gurugram":           "Gurugram",
	"noida":              "Noida",
	"chandigarh":         "Chandigarh",
	"indore":             "Indore",
	"surat":              "Surat",
	"vadodara":           "Vadodara",
	"baroda":             "Vadodara",
	"bhopal":             "Bhopal",
	"kanpur":             "Kanpur",
	"patna":              "Patna",
	"dubai":              "Dubai",
	"singapore":          "Singapore",
	"london":             "London",
	"toronto":            "Toronto",
	"sydney":             "Sydney",
	"new york":           "New York",
	"san francisco":      "San Francisco",
}

// branchAliases maps normalized branch mentions to canonical branch names.
var branchAliases = map[string]string{
	"mechanical":      "Mechanical",
	"mech":            "Mechanical",
	"civil":           "Civil",
	"electrical":      "Electrical",
	"eee":             "Electrical",
	"electronics":     "Electronics",
	"ece":             "Electronics",
	"electronics and communication": "Electronics",
	"computer science":              "Computer Science",
	"computer":                      "Computer Science",
	"comp sci":                      "Computer Science",
	"cse":                           "Computer Science",
	"cs":                            "Computer Science",
	"information technology":        "Information Technology",
	"it":                            "Information Technology",
	"chemical":                      "Chemical",
	"production":                    "Production",
	"instrumentation":               "Instrumentation",
	"automobile":                    "Automobile",
	"textile":                       "Textile",
	"metallurgy":                    "Metallurgy",
}

// degreeAliases maps normalized degree mentions to canonical degree names.
// Normalization has already stripped dots, so "b.e." arrives as "be".
var degreeAliases = map[string]string{
	"be":      "BE",
	"btech":   "BTech",
	"b tech":  "BTech",
	"me":      "ME",
	"mtech":   "MTech",
	"m tech":  "MTech",
	"mba":     "MBA",
	"mca":     "MCA",
	"msc":     "MSc",
	"bsc":     "BSc",
	"diploma": "Diploma",
	"phd":     "PhD",
	"doctorate": "PhD",
}

// skillGroups maps a trigger phrase to the canonical phrase set it flags.
// Matching any trigger records the whole group's canonical head.
var skillGroups = []struct {
	canonical string
	triggers  []string
}{
	{"web development", []string{"web development", "website", "web design", "web developer"}},
	{"software", []string{"software", "software development", "app development", "mobile apps"}},
	{"accounting", []string{"accounting", "auditing", "chartered accountant", "tax filing", "taxation"}},
	{"real estate", []string{"real estate", "property", "builders", "construction"}},
	{"digital marketing", []string{"digital marketing", "seo", "social media marketing", "online marketing"}},
	{"textiles", []string{"textiles", "garments", "apparel", "fabrics"}},
	{"printing", []string{"printing", "offset printing", "flex printing"}},
	{"logistics", []string{"logistics", "transport", "shipping", "freight"}},
	{"catering", []string{"catering", "food services", "caterers"}},
	{"interior design", []string{"interior design", "interiors", "furnishing"}},
	{"legal services", []string{"legal", "lawyer", "advocate", "legal services"}},
	{"insurance", []string{"insurance", "policy advisor"}},
	{"travel", []string{"travel", "tourism", "tour packages", "travel agency"}},
	{"photography", []string{"photography", "photographer", "videography"}},
	{"event management", []string{"event management", "event planning", "wedding planning"}},
	{"manufacturing", []string{"manufacturing", "fabrication", "machining"}},
	{"consulting", []string{"consulting", "consultancy", "business consulting"}},
	{"training", []string{"training", "coaching", "tuition"}},
	{"recruitment", []string{"recruitment", "staffing", "hr services", "placement"}},
	{"automobile services", []string{"car service", "automobile repair", "spare parts"}},
}

// serviceMarkers flag queries about businesses and providers; matched skill
// phrases are recorded as services rather than personal skills.
var serviceMarkers = []string{
	"company", "companies", "business", "businesses", "firm", "agency",
	"service", "services", "provider", "providers", "vendor", "shop",
}

// turnoverPhrases maps turnover mentions to tiers.
var turnoverPhrases = []struct {
	phrase string
	tier   entity.Tier
}{
	{"small business", entity.TierLow},
	{"small scale", entity.TierLow},
	{"low turnover", entity.TierLow},
	{"medium turnover", entity.TierMedium},
	{"mid size", entity.TierMedium},
	{"medium scale", entity.TierMedium},
	{"large turnover", entity.TierHigh},
	{"large scale", entity.TierHigh},
	{"big company", entity.TierHigh},
	{"high turnover", entity.TierHigh},
	{"crore turnover", entity.TierHigh},
}

// Year patterns. Two-digit years only count next to batch words; the pivot
// expands 2-digit years (<50 → 20xx, else 19xx).
var (
	yearFull   = regexp.MustCompile(`\b(19[5-9][0-9]|20[0-4][0-9])\b`)
	yearShort  = regexp.MustCompile(`\b([0-9]{2})\s*(?:batch|passout|pass out|passed out)|(?:batch|passout|pass out|passed out)\s*(?:of\s*)?([0-9]{2})\b`)
	yearDecade = regexp.MustCompile(`\b(early|mid|late)?\s*(19|20)?([0-9])0s\b`)
)

const yearPivot = 50

// ambiguousAliases are also common English words; they only count as
// degree or branch mentions when the query carries education context.
var ambiguousAliases = map[string]struct{}{
	"be": {}, "me": {}, "it": {}, "cs": {},
}

// educationMarkers establish the context that disambiguates short aliases.
var educationMarkers = []string{
	"batch", "batchmate", "batchmates", "degree", "graduate", "graduates",
	"graduated", "passout", "pass out", "passed out", "engineering",
	"engineer", "engineers", "alumni", "classmate", "classmates", "holders",
}

// aliasList is a dictionary flattened for deterministic longest-first lookup.
type aliasList []struct {
	alias     string
	canonical string
}

func flatten(m map[string]string) aliasList {
	out := make(aliasList, 0, len(m))
	for a, c := range m {
		out = append(out, struct{ alias, canonical string }{a, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].alias) != len(out[j].alias) {
			return len(out[i].alias) > len(out[j].alias)
		}
		return out[i].alias < out[j].alias
	})
	return out
}

var (
	cityLookup   = flatten(cityAliases)
	branchLookup = flatten(branchAliases)
	degreeLookup = flatten(degreeAliases)
)
