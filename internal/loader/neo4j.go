package loader

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/orbitalbio/biograph/internal/core/model"
)

// Cypher used to pull the snapshot tables. Ordering by internal id keeps
// the table order stable across identical loads.
const (
	entityQuery = `
		MATCH (n:Entity)
		RETURN n.name AS name, coalesce(n.label, '') AS label, properties(n) AS props
		ORDER BY id(n)
	`
	relationshipQuery = `
		MATCH (a:Entity)-[r]->(b:Entity)
		RETURN a.name AS subject,
		       coalesce(r.predicate, type(r)) AS predicate,
		       b.name AS object,
		       coalesce(r.weight, 1) AS weight,
		       coalesce(r.sources, '') AS sources
		ORDER BY id(r)
	`
)

// Neo4jLoader reads a snapshot out of a Neo4j or Memgraph instance over
// bolt. Entity nodes are labeled :Entity with name/label properties; any
// other node property is an ontology reference.
type Neo4jLoader struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jLoader connects and verifies connectivity.
func NewNeo4jLoader(ctx context.Context, uri, username, password string) (*Neo4jLoader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, err
	}
	log.Info("connected to graph database", "uri", uri)
	return &Neo4jLoader{driver: driver}, nil
}

func (l *Neo4jLoader) Close(ctx context.Context) error {
	return l.driver.Close(ctx)
}

// Load pulls the entity and relationship tables and builds a validated
// snapshot.
func (l *Neo4jLoader) Load(ctx context.Context) (*model.Snapshot, error) {
	entities, err := l.loadEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entities: %w", err)
	}
	relationships, err := l.loadRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading relationships: %w", err)
	}
	return model.NewSnapshot(entities, relationships)
}

func (l *Neo4jLoader) loadEntities(ctx context.Context) ([]model.Entity, error) {
	result, err := neo4j.ExecuteQuery(ctx, l.driver, entityQuery, nil, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	var entities []model.Entity
	for _, rec := range result.Records {
		name, _ := rec.Get("name")
		label, _ := rec.Get("label")
		ent := model.Entity{
			Name:  asString(name),
			Label: asString(label),
		}

		if props, _ := rec.Get("props"); props != nil {
			if m, ok := props.(map[string]any); ok {
				for key, value := range m {
					if key == "name" || key == "label" {
						continue
					}
					v := asString(value)
					if v == "" {
						continue
					}
					if ent.OntologyRefs == nil {
						ent.OntologyRefs = make(map[string]string)
					}
					ent.OntologyRefs[key] = v
				}
			}
		}
		entities = append(entities, ent)
	}
	return entities, nil
}

func (l *Neo4jLoader) loadRelationships(ctx context.Context) ([]model.Relationship, error) {
	result, err := neo4j.ExecuteQuery(ctx, l.driver, relationshipQuery, nil, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	var relationships []model.Relationship
	for _, rec := range result.Records {
		subject, _ := rec.Get("subject")
		predicate, _ := rec.Get("predicate")
		object, _ := rec.Get("object")
		weight, _ := rec.Get("weight")
		sources, _ := rec.Get("sources")

		relationships = append(relationships, model.Relationship{
			Subject:   asString(subject),
			Predicate: asString(predicate),
			Object:    asString(object),
			Weight:    asInt(weight),
			Sources:   model.ParseSources(asString(sources)),
		})
	}
	return relationships, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
