package db

import "testing"

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("doc:").
		Tag("location", ",").
		Numeric("graduation_year").
		Build()

	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "location" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want location TAG", idx.Fields[0])
	}
	if idx.Fields[0].TagSeparator != "," {
		t.Errorf("separator = %q, want ,", idx.Fields[0].TagSeparator)
	}
	if idx.Fields[1].Name != "graduation_year" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want graduation_year NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_Text(t *testing.T) {
	idx := NewIndex("text-idx").
		Prefix("doc:").
		Text("__content").
		Build()

	if len(idx.Fields) != 1 {
		t.Fatalf("fields count = %d, want 1", len(idx.Fields))
	}
	if idx.Fields[0].Type != IndexFieldText {
		t.Errorf("field type = %v, want text", idx.Fields[0].Type)
	}
}

func TestIndexBuilder_VectorHNSW(t *testing.T) {
	idx := NewIndex("hnsw-idx").
		Prefix("doc:").
		Tag("type", ",").
		VectorHNSW("__vector", "vector", 768, DistanceL2, 32, 400).
		Build()

	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	f := idx.Fields[1]
	if f.Type != IndexFieldVector {
		t.Errorf("type = %v, want vector", f.Type)
	}
	if f.Alias != "vector" {
		t.Errorf("alias = %q, want vector", f.Alias)
	}
	if f.VectorDim != 768 {
		t.Errorf("dim = %d, want 768", f.VectorDim)
	}
	if f.VectorDistance != DistanceL2 {
		t.Errorf("distance = %q, want L2", f.VectorDistance)
	}
	if f.VectorM != 32 {
		t.Errorf("M = %d, want 32", f.VectorM)
	}
	if f.VectorEFConstruct != 400 {
		t.Errorf("EF = %d, want 400", f.VectorEFConstruct)
	}
}

func TestIndexBuilder_MultiplePrefixes(t *testing.T) {
	idx := NewIndex("multi-idx").
		Prefix("a:", "b:", "c:").
		Tag("x", ",").
		Build()

	if len(idx.Prefixes) != 3 {
		t.Errorf("prefix count = %d, want 3", len(idx.Prefixes))
	}
}

func TestIndexBuilder_BuildCopies(t *testing.T) {
	b := NewIndex("copy-idx").Tag("x", ",")
	first := b.Build()
	b.Numeric("y")
	second := b.Build()

	if len(first.Fields) != 1 {
		t.Errorf("first build mutated: %d fields", len(first.Fields))
	}
	if len(second.Fields) != 2 {
		t.Errorf("second build fields = %d, want 2", len(second.Fields))
	}
}
