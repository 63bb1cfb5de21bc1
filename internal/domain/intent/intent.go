// Package intent defines the fixed vocabulary of caller goals.
package intent

import "fmt"

// Intent is the caller's high-level goal category.
type Intent string

const (
	// FindBusiness looks for companies or service providers.
	FindBusiness Intent = "find_business"
	// FindPeers looks for batchmates and classmates.
	FindPeers Intent = "find_peers"
	// FindSpecificPerson looks for one named member.
	FindSpecificPerson Intent = "find_specific_person"
	// FindAlumniBusiness looks for businesses run by alumni of a batch or branch.
	FindAlumniBusiness Intent = "find_alumni_business"
	// GetInfo asks for details about a member or the directory.
	GetInfo Intent = "get_info"
	// ListMembers is the catch-all browse intent.
	ListMembers Intent = "list_members"
	// Compare asks to compare two or more members.
	Compare Intent = "compare"
)

// None is the zero value for optional intent fields.
const None Intent = ""

// All enumerates every supported intent.
func All() []Intent {
	return []Intent{
		FindBusiness, FindPeers, FindSpecificPerson,
		FindAlumniBusiness, GetInfo, ListMembers, Compare,
	}
}

// Parse validates a raw string against the supported intents.
func Parse(s string) (Intent, error) {
	for _, in := range All() {
		if string(in) == s {
			return in, nil
		}
	}
	return None, fmt.Errorf("unknown intent %q", s)
}

// IsValid reports whether the intent is one of the supported values.
func (i Intent) IsValid() bool {
	_, err := Parse(string(i))
	return err == nil
}

// String returns the wire representation.
func (i Intent) String() string { return string(i) }
