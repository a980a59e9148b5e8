package api

import (
	"github.com/starford/eihwaz/internal/treeservice"
)

// TreeResponse wraps one built tree: rendered text, node arena, and
// navigation records, all keyed by arena index.
type TreeResponse = treeservice.Tree

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = treeservice.NoteDetail

// ResolveResponse maps a wikilink target to its canonical identifier.
type ResolveResponse struct {
	Target string `json:"target"`
	ID     string `json:"id"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
