// Package search provides case-insensitive substring search over entity
// names, with a connection summary per match.
package search

import (
	"fmt"
	"strings"

	"github.com/orbitalbio/biograph/internal/core/model"
	"github.com/orbitalbio/biograph/internal/core/store"
)

// DefaultLimit caps search results when the caller does not say otherwise.
const DefaultLimit = 20

// SampleSize is the maximum number of outgoing relationships attached to a
// match as a sample.
const SampleSize = 5

// Match is one search hit: the entity record plus exact connection counts
// over the full relationship set and up to SampleSize outgoing
// relationships in table order.
type Match struct {
	Entity         model.Entity         `json:"entity"`
	OutgoingCount  int                  `json:"outgoing_count"`
	IncomingCount  int                  `json:"incoming_count"`
	SampleOutgoing []model.Relationship `json:"sample_outgoing,omitempty"`
}

// Index answers substring queries against the store's entity table.
type Index struct {
	store *store.Store
}

func NewIndex(s *store.Store) *Index {
	return &Index{store: s}
}

// Search returns entities whose name contains term, case-folded, anywhere.
// Matches keep the entity-table order; there is no relevance ranking, so
// repeated calls return identical sequences. An empty term matches nothing;
// no matches yield an empty result, not an error.
func (ix *Index) Search(term string, limit int) ([]Match, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be > 0, got %d", model.ErrInvalidParameter, limit)
	}
	if term == "" {
		return []Match{}, nil
	}

	folded := strings.ToLower(term)
	matches := []Match{}
	for _, ent := range ix.store.Entities() {
		if !strings.Contains(strings.ToLower(ent.Name), folded) {
			continue
		}
		matches = append(matches, ix.summarize(ent))
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func (ix *Index) summarize(ent model.Entity) Match {
	outgoing, _ := ix.store.Neighbors(ent.Name, store.Outgoing)
	incoming, _ := ix.store.Neighbors(ent.Name, store.Incoming)

	sample := outgoing
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	return Match{
		Entity:         ent,
		OutgoingCount:  len(outgoing),
		IncomingCount:  len(incoming),
		SampleOutgoing: sample,
	}
}
