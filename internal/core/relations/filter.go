// Package relations filters and ranks relationships by type and evidence
// strength.
package relations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orbitalbio/biograph/internal/core/model"
	"github.com/orbitalbio/biograph/internal/core/store"
)

// PredicateAll is the sentinel predicate filter that matches every
// relationship type (matched case-insensitively; the empty string means the
// same).
const PredicateAll = "all"

// Defaults for the consensus view.
const (
	DefaultConfidenceThreshold = 2
	DefaultConfidenceLimit     = 10
)

// Filter answers relationship queries against the store's relationship table.
type Filter struct {
	store *store.Store
}

func NewFilter(s *store.Store) *Filter {
	return &Filter{store: s}
}

// Apply returns all relationships with weight >= minWeight and, unless
// predicate is empty or the "all" sentinel, the given predicate. Table order
// is preserved.
func (f *Filter) Apply(predicate string, minWeight int) ([]model.Relationship, error) {
	if minWeight < 1 {
		return nil, fmt.Errorf("%w: minWeight must be >= 1, got %d", model.ErrInvalidParameter, minWeight)
	}

	all := predicate == "" || strings.EqualFold(predicate, PredicateAll)
	out := []model.Relationship{}
	for _, r := range f.store.Relationships() {
		if r.Weight < minWeight {
			continue
		}
		if !all && r.Predicate != predicate {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// HighConfidence extracts the consensus relationships from a filtered
// sequence: weight strictly above threshold, sorted descending by weight
// (stable, so equal weights keep the input order), truncated to limit.
func (f *Filter) HighConfidence(filtered []model.Relationship, threshold, limit int) ([]model.Relationship, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0, got %d", model.ErrInvalidParameter, limit)
	}

	out := []model.Relationship{}
	for _, r := range filtered {
		if r.Weight > threshold {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})

	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// DistinctPredicates returns every predicate present in the relationship
// set exactly once, sorted lexicographically.
func (f *Filter) DistinctPredicates() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range f.store.Relationships() {
		if seen[r.Predicate] {
			continue
		}
		seen[r.Predicate] = true
		out = append(out, r.Predicate)
	}
	sort.Strings(out)
	return out
}

// MaxWeight returns the maximum weight across all relationships, used as
// the upper bound for strength filters.
func (f *Filter) MaxWeight() (int, error) {
	rels := f.store.Relationships()
	if len(rels) == 0 {
		return 0, fmt.Errorf("%w: no relationships to aggregate", model.ErrEmptyGraph)
	}
	max := rels[0].Weight
	for _, r := range rels[1:] {
		if r.Weight > max {
			max = r.Weight
		}
	}
	return max, nil
}
