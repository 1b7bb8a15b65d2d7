package loader

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/orbitalbio/biograph/internal/core/model"
)

// GraphML wire format, per the key/data attribute scheme: <key> elements
// declare attribute names, <data> elements reference them by key id.
type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
}

type graphmlGraph struct {
	Nodes []graphmlNode `xml:"node"`
	Edges []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// LoadGraphML reads a GraphML snapshot file. Node ids are entity names;
// the "label" node key carries the entity type and every other node key is
// an ontology reference. Edge keys "predicate", "weight", and "sources"
// carry the relationship attributes; edges without a weight default to 1.
func LoadGraphML(path string) (*model.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseGraphML(f)
}

// ParseGraphML decodes a GraphML document into a validated snapshot.
func ParseGraphML(r io.Reader) (*model.Snapshot, error) {
	var doc graphmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding graphml: %w", err)
	}

	nodeAttrs := make(map[string]string)
	edgeAttrs := make(map[string]string)
	for _, k := range doc.Keys {
		switch k.For {
		case "node":
			nodeAttrs[k.ID] = strings.ToLower(k.AttrName)
		case "edge":
			edgeAttrs[k.ID] = strings.ToLower(k.AttrName)
		}
	}

	entities := make([]model.Entity, 0, len(doc.Graph.Nodes))
	for _, n := range doc.Graph.Nodes {
		ent := model.Entity{Name: n.ID}
		for _, d := range n.Data {
			attr := nodeAttrs[d.Key]
			value := strings.TrimSpace(d.Value)
			if value == "" {
				continue
			}
			if attr == "label" {
				ent.Label = value
				continue
			}
			if attr == "" {
				continue
			}
			if ent.OntologyRefs == nil {
				ent.OntologyRefs = make(map[string]string)
			}
			ent.OntologyRefs[attr] = value
		}
		entities = append(entities, ent)
	}

	relationships := make([]model.Relationship, 0, len(doc.Graph.Edges))
	for i, e := range doc.Graph.Edges {
		rel := model.Relationship{Subject: e.Source, Object: e.Target, Weight: 1}
		for _, d := range e.Data {
			value := strings.TrimSpace(d.Value)
			switch edgeAttrs[d.Key] {
			case "predicate":
				rel.Predicate = value
			case "weight":
				w, err := strconv.Atoi(value)
				if err != nil {
					return nil, fmt.Errorf("edge %d (%s -> %s): weight %q is not an integer",
						i, e.Source, e.Target, d.Value)
				}
				rel.Weight = w
			case "sources":
				rel.Sources = model.ParseSources(d.Value)
			}
		}
		relationships = append(relationships, rel)
	}

	return model.NewSnapshot(entities, relationships)
}
