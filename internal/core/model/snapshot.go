package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the fully loaded graph plus its tabular twins: the entity
// table and the relationship table, in source order. A snapshot is built
// once at session start and never mutated; every core component holds a
// reference to the same instance.
type Snapshot struct {
	ID            string         `json:"id"`
	LoadedAt      time.Time      `json:"loaded_at"`
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// NewSnapshot validates the tables and assembles an immutable snapshot.
// It rejects duplicate entity names, non-positive weights, and relationships
// whose endpoints do not resolve to an entity. Validation happens here, once,
// so queries never meet malformed rows.
func NewSnapshot(entities []Entity, relationships []Relationship) (*Snapshot, error) {
	names := make(map[string]bool, len(entities))
	for _, e := range entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity with empty name")
		}
		if names[e.Name] {
			return nil, fmt.Errorf("duplicate entity name %q", e.Name)
		}
		names[e.Name] = true
	}

	for i, r := range relationships {
		if r.Weight < 1 {
			return nil, fmt.Errorf("relationship %d (%s -[%s]-> %s): weight %d < 1",
				i, r.Subject, r.Predicate, r.Object, r.Weight)
		}
		if !names[r.Subject] {
			return nil, fmt.Errorf("relationship %d: unknown subject %q", i, r.Subject)
		}
		if !names[r.Object] {
			return nil, fmt.Errorf("relationship %d: unknown object %q", i, r.Object)
		}
	}

	return &Snapshot{
		ID:            uuid.New().String(),
		LoadedAt:      time.Now().UTC(),
		Entities:      entities,
		Relationships: relationships,
	}, nil
}
