package model

// Entity is a node in the knowledge graph: a concept extracted from the
// research corpus. Name is the unique node key; Label is the concept
// category ("protein", "gene", ...). OntologyRefs maps an ontology name
// ("ncbi", "go", ...) to an identifier in that ontology; absent entries
// mean the mapping is unknown.
type Entity struct {
	Name         string            `json:"name"`
	Label        string            `json:"label"`
	OntologyRefs map[string]string `json:"ontology_refs,omitempty"`
}

// OntologyRef returns the entity's identifier in the named ontology, or
// "Unknown" if no mapping is recorded.
func (e Entity) OntologyRef(ontology string) string {
	if id, ok := e.OntologyRefs[ontology]; ok && id != "" {
		return id
	}
	return "Unknown"
}
