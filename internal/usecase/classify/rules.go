package classify

import "github.com/crewstack/memberdex/internal/domain/intent"

// ruleGroup binds an intent to the phrases that signal it. Groups are
// evaluated in order; earlier groups win count ties.
type ruleGroup struct {
	intent  intent.Intent
	phrases []string
}

// ruleGroups is the ordered rule table. More specific intents come first so
// "alumni business" outranks both its parts.
var ruleGroups = []ruleGroup{
	{
		intent: intent.FindAlumniBusiness,
		phrases: []string{
			"alumni business", "alumni businesses", "alumni company",
			"alumni companies", "batchmate business", "run by alumni",
			"alumni run", "started by alumni",
		},
	},
	{
		intent: intent.Compare,
		phrases: []string{
			"compare", "versus", "vs", "better than", "difference between",
		},
	},
	{
		intent: intent.FindSpecificPerson,
		phrases: []string{
			"who is", "contact of", "contact number", "phone number",
			"number of", "details of", "profile of", "whatsapp number",
			"reach out to",
		},
	},
	{
		intent: intent.FindPeers,
		phrases: []string{
			"batchmate", "batchmates", "classmate", "classmates",
			"passout", "pass out", "passed out", "batch", "peers",
			"juniors", "seniors", "graduated with",
		},
	},
	{
		intent: intent.FindBusiness,
		phrases: []string{
			"company", "companies", "business", "businesses", "firm",
			"provider", "providers", "service provider", "services in",
			"vendor", "dealer", "shop", "agency", "startup", "startups",
		},
	},
	{
		intent: intent.GetInfo,
		phrases: []string{
			"tell me about", "what is", "info about", "information about",
			"details about", "how many", "do we have",
		},
	},
	{
		intent: intent.ListMembers,
		phrases: []string{
			"list", "show all", "all members", "everyone", "members in",
			"members from", "browse",
		},
	},
}
