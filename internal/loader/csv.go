package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/orbitalbio/biograph/internal/core/model"
)

// Entity table columns. Any other column is treated as an ontology-reference
// column ("ncbi", "go", ...); empty cells mean the mapping is unknown.
const (
	colNode  = "node"
	colLabel = "label"
)

// Relationship table columns.
const (
	colSubject   = "subject"
	colPredicate = "predicate"
	colObject    = "object"
	colWeight    = "weight"
	colSources   = "sources"
)

// LoadCSV reads the entity and relationship tables and builds a validated
// snapshot. Row order in the files is the canonical table order.
func LoadCSV(entityPath, relationshipPath string) (*model.Snapshot, error) {
	entities, err := readEntityTable(entityPath)
	if err != nil {
		return nil, fmt.Errorf("entity table %s: %w", entityPath, err)
	}
	relationships, err := readRelationshipTable(relationshipPath)
	if err != nil {
		return nil, fmt.Errorf("relationship table %s: %w", relationshipPath, err)
	}
	return model.NewSnapshot(entities, relationships)
}

func readEntityTable(path string) ([]model.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseEntityTable(f)
}

func readRelationshipTable(path string) ([]model.Relationship, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRelationshipTable(f)
}

// ParseEntityTable decodes a CSV entity table. Required columns: node,
// label. Every additional column becomes an ontology reference keyed by the
// column name.
func ParseEntityTable(r io.Reader) ([]model.Entity, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := columnIndex(header)
	nodeIdx, ok := cols[colNode]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", colNode)
	}
	labelIdx, ok := cols[colLabel]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", colLabel)
	}

	var entities []model.Entity
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ent := model.Entity{
			Name:  strings.TrimSpace(record[nodeIdx]),
			Label: strings.TrimSpace(record[labelIdx]),
		}
		for name, idx := range cols {
			if idx == nodeIdx || idx == labelIdx {
				continue
			}
			if v := strings.TrimSpace(record[idx]); v != "" {
				if ent.OntologyRefs == nil {
					ent.OntologyRefs = make(map[string]string)
				}
				ent.OntologyRefs[name] = v
			}
		}
		entities = append(entities, ent)
	}
	return entities, nil
}

// ParseRelationshipTable decodes a CSV relationship table. Required columns:
// subject, predicate, object, weight, sources.
func ParseRelationshipTable(r io.Reader) ([]model.Relationship, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := columnIndex(header)
	for _, required := range []string{colSubject, colPredicate, colObject, colWeight, colSources} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var relationships []model.Relationship
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		weight, err := strconv.Atoi(strings.TrimSpace(record[cols[colWeight]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: weight %q is not an integer", line, record[cols[colWeight]])
		}

		relationships = append(relationships, model.Relationship{
			Subject:   strings.TrimSpace(record[cols[colSubject]]),
			Predicate: strings.TrimSpace(record[cols[colPredicate]]),
			Object:    strings.TrimSpace(record[cols[colObject]]),
			Weight:    weight,
			Sources:   model.ParseSources(record[cols[colSources]]),
		})
	}
	return relationships, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return cols
}
