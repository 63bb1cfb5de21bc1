package entity

import "testing"

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
		ok   bool
	}{
		{"low", TierLow, true},
		{"medium", TierMedium, true},
		{"high", TierHigh, true},
		{"", TierNone, false},
		{"huge", TierNone, false},
	}
	for _, tc := range tests {
		got, ok := ParseTier(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseTier(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSet_IsEmpty(t *testing.T) {
	if !(Set{}).IsEmpty() {
		t.Error("zero set should be empty")
	}
	if (Set{Location: "Chennai"}).IsEmpty() {
		t.Error("set with location should not be empty")
	}
	if (Set{GraduationYears: []int{1995}}).IsEmpty() {
		t.Error("set with years should not be empty")
	}
	if (Set{TurnoverTier: TierLow}).IsEmpty() {
		t.Error("set with tier should not be empty")
	}
}

func TestSet_CloneIsIndependent(t *testing.T) {
	orig := Set{
		Skills:          []string{"welding"},
		GraduationYears: []int{1995},
		Location:        "Chennai",
	}
	clone := orig.Clone()
	clone.Skills[0] = "plumbing"
	clone.GraduationYears[0] = 2001

	if orig.Skills[0] != "welding" {
		t.Errorf("skills aliased: %v", orig.Skills)
	}
	if orig.GraduationYears[0] != 1995 {
		t.Errorf("years aliased: %v", orig.GraduationYears)
	}
}

func TestSet_Union(t *testing.T) {
	a := Set{
		Skills:          []string{"welding"},
		Location:        "Chennai",
		GraduationYears: []int{1995},
	}
	b := Set{
		Skills:          []string{"welding", "fabrication"},
		Location:        "Coimbatore",
		GraduationYears: []int{1996, 1995},
		TurnoverTier:    TierHigh,
	}

	u := a.Union(b)

	if len(u.Skills) != 2 || u.Skills[0] != "welding" || u.Skills[1] != "fabrication" {
		t.Errorf("skills = %v, want deduplicated union", u.Skills)
	}
	// Scalar slots keep the receiver's value when both sides are set.
	if u.Location != "Chennai" {
		t.Errorf("location = %q, want Chennai", u.Location)
	}
	if u.TurnoverTier != TierHigh {
		t.Errorf("tier = %q, want high filled from the other side", u.TurnoverTier)
	}
	if len(u.GraduationYears) != 2 || u.GraduationYears[0] != 1995 || u.GraduationYears[1] != 1996 {
		t.Errorf("years = %v, want sorted [1995 1996]", u.GraduationYears)
	}
}

func TestSet_UnionDoesNotMutateReceiver(t *testing.T) {
	a := Set{Skills: []string{"welding"}}
	b := Set{Skills: []string{"fabrication"}}

	_ = a.Union(b)

	if len(a.Skills) != 1 {
		t.Errorf("receiver mutated: %v", a.Skills)
	}
}

func TestSet_FieldNames(t *testing.T) {
	s := Set{
		GraduationYears: []int{1995},
		Location:        "Chennai",
		Branches:        []string{"Mechanical"},
		Services:        []string{"exports"},
		TurnoverTier:    TierMedium,
	}

	want := []string{"graduation_year", "location", "branch", "services", "turnover_tier"}
	got := s.FieldNames()
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSet_FieldNamesEmpty(t *testing.T) {
	if names := (Set{}).FieldNames(); names != nil {
		t.Errorf("names = %v, want nil", names)
	}
}
