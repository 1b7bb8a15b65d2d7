// Package store owns the canonical graph snapshot and exposes read-only
// views over it. Adjacency is indexed once at construction; every query is
// a pure read, so one store may serve any number of concurrent readers.
package store

import (
	"fmt"
	"sort"

	"github.com/orbitalbio/biograph/internal/core/model"
)

// Direction selects which incident relationships Neighbors returns.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
	Both     Direction = "both"
)

// EntityDegree pairs an entity name with its degree (incident relationship
// count, both directions).
type EntityDegree struct {
	Name   string `json:"name"`
	Degree int    `json:"degree"`
}

// Store holds the immutable snapshot plus secondary indexes: entity lookup
// by name and per-entity outgoing/incoming relationship lists. Relationship
// indices are appended in table order, so adjacency lists preserve the
// source-table ordering.
type Store struct {
	snap     *model.Snapshot
	byName   map[string]int
	outgoing map[string][]int
	incoming map[string][]int
}

// New indexes the snapshot. The snapshot is assumed validated (see
// model.NewSnapshot) and must not be mutated afterwards.
func New(snap *model.Snapshot) *Store {
	s := &Store{
		snap:     snap,
		byName:   make(map[string]int, len(snap.Entities)),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}
	for i, e := range snap.Entities {
		s.byName[e.Name] = i
	}
	for i, r := range snap.Relationships {
		s.outgoing[r.Subject] = append(s.outgoing[r.Subject], i)
		s.incoming[r.Object] = append(s.incoming[r.Object], i)
	}
	return s
}

// Snapshot returns the underlying snapshot.
func (s *Store) Snapshot() *model.Snapshot { return s.snap }

// Entities returns the entity table in source order. Shared slice: callers
// must not mutate.
func (s *Store) Entities() []model.Entity { return s.snap.Entities }

// Relationships returns the relationship table in source order. Shared
// slice: callers must not mutate.
func (s *Store) Relationships() []model.Relationship { return s.snap.Relationships }

func (s *Store) EntityCount() int { return len(s.snap.Entities) }

func (s *Store) RelationshipCount() int { return len(s.snap.Relationships) }

// Entity returns the entity record for the given name.
func (s *Store) Entity(name string) (model.Entity, error) {
	i, ok := s.byName[name]
	if !ok {
		return model.Entity{}, fmt.Errorf("%w: %q", model.ErrNotFound, name)
	}
	return s.snap.Entities[i], nil
}

// Degree returns the number of relationships incident to the entity,
// counting both directions. Isolated entities have degree 0.
func (s *Store) Degree(name string) (int, error) {
	if _, ok := s.byName[name]; !ok {
		return 0, fmt.Errorf("%w: %q", model.ErrNotFound, name)
	}
	return len(s.outgoing[name]) + len(s.incoming[name]), nil
}

// TopByDegree returns at most k entities ordered by descending degree.
// Ties keep the entity-table insertion order, so the result is deterministic
// across runs on identical input.
func (s *Store) TopByDegree(k int) ([]EntityDegree, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be > 0, got %d", model.ErrInvalidParameter, k)
	}

	ranked := make([]EntityDegree, len(s.snap.Entities))
	for i, e := range s.snap.Entities {
		ranked[i] = EntityDegree{Name: e.Name, Degree: len(s.outgoing[e.Name]) + len(s.incoming[e.Name])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Degree > ranked[j].Degree
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// Neighbors returns the relationships incident to the entity in the given
// direction, in table order. For Both, outgoing relationships come first.
func (s *Store) Neighbors(name string, dir Direction) ([]model.Relationship, error) {
	if _, ok := s.byName[name]; !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrNotFound, name)
	}

	var idx []int
	switch dir {
	case Outgoing:
		idx = s.outgoing[name]
	case Incoming:
		idx = s.incoming[name]
	case Both:
		idx = append(append([]int{}, s.outgoing[name]...), s.incoming[name]...)
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", model.ErrInvalidParameter, dir)
	}

	rels := make([]model.Relationship, 0, len(idx))
	for _, i := range idx {
		rels = append(rels, s.snap.Relationships[i])
	}
	return rels, nil
}
