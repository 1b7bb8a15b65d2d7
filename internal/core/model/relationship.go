package model

import "strings"

// Relationship is a directed, typed edge between two entities. Weight counts
// the independent source mentions supporting the edge (always >= 1). Sources
// lists the supporting document identifiers, deduplicated, in first-seen
// order. Multiple edges between the same pair with different predicates are
// permitted.
type Relationship struct {
	Subject   string   `json:"subject"`
	Predicate string   `json:"predicate"`
	Object    string   `json:"object"`
	Weight    int      `json:"weight"`
	Sources   []string `json:"sources,omitempty"`
}

// ParseSources splits a comma-delimited source-document string into a
// deduplicated list, trimming whitespace and dropping empty fields.
func ParseSources(raw string) []string {
	if raw == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		doc := strings.TrimSpace(part)
		if doc == "" || seen[doc] {
			continue
		}
		seen[doc] = true
		out = append(out, doc)
	}
	return out
}
