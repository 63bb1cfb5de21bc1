package db

import "github.com/crewstack/memberdex/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search over member embeddings.
type KNNQuery struct {
	IndexName    string
	Filter       filter.Filter
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for ranked full-text search over member text.
type TextQuery struct {
	IndexName    string
	Query        string
	Filter       filter.Filter
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single member hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
