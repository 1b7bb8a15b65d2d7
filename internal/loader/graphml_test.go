package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGraphML = `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <key id="d0" for="node" attr.name="label" attr.type="string"/>
  <key id="d1" for="node" attr.name="ncbi" attr.type="string"/>
  <key id="d2" for="edge" attr.name="predicate" attr.type="string"/>
  <key id="d3" for="edge" attr.name="weight" attr.type="int"/>
  <key id="d4" for="edge" attr.name="sources" attr.type="string"/>
  <graph edgedefault="directed">
    <node id="A"><data key="d0">protein</data><data key="d1">3308</data></node>
    <node id="B"><data key="d0">gene</data></node>
    <node id="C"><data key="d0">organism</data></node>
    <edge source="A" target="B">
      <data key="d2">regulates</data>
      <data key="d3">3</data>
      <data key="d4">doc1,doc2</data>
    </edge>
    <edge source="B" target="C">
      <data key="d2">expressed_in</data>
    </edge>
  </graph>
</graphml>`

func TestParseGraphML(t *testing.T) {
	snap, err := ParseGraphML(strings.NewReader(sampleGraphML))
	require.NoError(t, err)

	require.Len(t, snap.Entities, 3)
	assert.Equal(t, "A", snap.Entities[0].Name)
	assert.Equal(t, "protein", snap.Entities[0].Label)
	assert.Equal(t, "3308", snap.Entities[0].OntologyRefs["ncbi"])
	assert.Nil(t, snap.Entities[1].OntologyRefs)

	require.Len(t, snap.Relationships, 2)
	first := snap.Relationships[0]
	assert.Equal(t, "A", first.Subject)
	assert.Equal(t, "regulates", first.Predicate)
	assert.Equal(t, 3, first.Weight)
	assert.Equal(t, []string{"doc1", "doc2"}, first.Sources)

	// Edge without a weight key defaults to 1.
	assert.Equal(t, 1, snap.Relationships[1].Weight)
}

func TestParseGraphML_BadWeight(t *testing.T) {
	doc := strings.Replace(sampleGraphML, "<data key=\"d3\">3</data>", "<data key=\"d3\">heavy</data>", 1)
	_, err := ParseGraphML(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestParseGraphML_DanglingEdge(t *testing.T) {
	doc := strings.Replace(sampleGraphML, `<edge source="B" target="C">`, `<edge source="B" target="Ghost">`, 1)
	_, err := ParseGraphML(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown object")
}

func TestParseGraphML_NotXML(t *testing.T) {
	_, err := ParseGraphML(strings.NewReader("not xml at all"))
	assert.Error(t, err)
}
