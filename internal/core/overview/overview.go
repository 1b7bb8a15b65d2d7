// Package overview computes corpus-level distributions: entity types,
// relationship types, and source-document coverage.
package overview

import (
	"fmt"
	"sort"

	"github.com/orbitalbio/biograph/internal/core/model"
	"github.com/orbitalbio/biograph/internal/core/store"
)

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type PredicateCount struct {
	Predicate string `json:"predicate"`
	Count     int    `json:"count"`
}

type SourceCount struct {
	Document string `json:"document"`
	Count    int    `json:"count"`
}

// Stats answers distribution queries against the snapshot tables.
type Stats struct {
	store *store.Store
}

func NewStats(s *store.Store) *Stats {
	return &Stats{store: s}
}

// LabelCounts returns entities per label, descending by count, ties broken
// by label.
func (st *Stats) LabelCounts() []LabelCount {
	counts := make(map[string]int)
	for _, e := range st.store.Entities() {
		counts[e.Label]++
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// TopPredicates returns at most k relationship types by frequency,
// descending, ties broken by predicate.
func (st *Stats) TopPredicates(k int) ([]PredicateCount, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be > 0, got %d", model.ErrInvalidParameter, k)
	}

	counts := make(map[string]int)
	for _, r := range st.store.Relationships() {
		counts[r.Predicate]++
	}
	out := make([]PredicateCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, PredicateCount{Predicate: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Predicate < out[j].Predicate
	})
	if k < len(out) {
		out = out[:k]
	}
	return out, nil
}

// TopSources returns at most k source documents by the number of
// relationships they support. Each relationship contributes once per
// distinct document in its source list.
func (st *Stats) TopSources(k int) ([]SourceCount, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be > 0, got %d", model.ErrInvalidParameter, k)
	}

	counts := make(map[string]int)
	for _, r := range st.store.Relationships() {
		for _, doc := range r.Sources {
			counts[doc]++
		}
	}
	out := make([]SourceCount, 0, len(counts))
	for doc, n := range counts {
		out = append(out, SourceCount{Document: doc, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Document < out[j].Document
	})
	if k < len(out) {
		out = out[:k]
	}
	return out, nil
}

// AverageDegree returns 2·|E| / |V|: the mean number of connections per
// entity. Empty graph returns 0.
func (st *Stats) AverageDegree() float64 {
	n := st.store.EntityCount()
	if n == 0 {
		return 0
	}
	return 2 * float64(st.store.RelationshipCount()) / float64(n)
}
