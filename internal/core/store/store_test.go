package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalbio/biograph/internal/core/model"
)

// testStore builds the canonical small graph:
// A -regulates(3)-> B, B -regulates(1)-> C, A -interacts(5)-> C,
// plus D isolated.
func testStore(t *testing.T) *Store {
	t.Helper()
	snap, err := model.NewSnapshot(
		[]model.Entity{
			{Name: "A", Label: "protein"},
			{Name: "B", Label: "gene"},
			{Name: "C", Label: "protein"},
			{Name: "D", Label: "organism"},
		},
		[]model.Relationship{
			{Subject: "A", Predicate: "regulates", Object: "B", Weight: 3, Sources: []string{"doc1", "doc2"}},
			{Subject: "B", Predicate: "regulates", Object: "C", Weight: 1, Sources: []string{"doc1"}},
			{Subject: "A", Predicate: "interacts", Object: "C", Weight: 5, Sources: []string{"doc2", "doc3"}},
		},
	)
	require.NoError(t, err)
	return New(snap)
}

func TestCounts(t *testing.T) {
	s := testStore(t)
	assert.Equal(t, 4, s.EntityCount())
	assert.Equal(t, 3, s.RelationshipCount())
}

func TestDegree(t *testing.T) {
	s := testStore(t)

	for name, want := range map[string]int{"A": 2, "B": 2, "C": 2, "D": 0} {
		got, err := s.Degree(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestDegree_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Degree("nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTopByDegree(t *testing.T) {
	s := testStore(t)

	top, err := s.TopByDegree(2)
	require.NoError(t, err)
	require.Len(t, top, 2)

	// A, B, C all have degree 2; ties keep entity-table order.
	assert.Equal(t, EntityDegree{Name: "A", Degree: 2}, top[0])
	assert.Equal(t, EntityDegree{Name: "B", Degree: 2}, top[1])
}

func TestTopByDegree_KLargerThanGraph(t *testing.T) {
	s := testStore(t)

	top, err := s.TopByDegree(100)
	require.NoError(t, err)
	require.Len(t, top, 4)
	assert.Equal(t, "D", top[3].Name) // isolated node last

	// Sum of returned degrees matches independently computed values.
	sum := 0
	for _, ed := range top {
		d, err := s.Degree(ed.Name)
		require.NoError(t, err)
		assert.Equal(t, d, ed.Degree)
		sum += ed.Degree
	}
	assert.Equal(t, 2*s.RelationshipCount(), sum)
}

func TestTopByDegree_InvalidK(t *testing.T) {
	s := testStore(t)
	_, err := s.TopByDegree(0)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestNeighbors_Directions(t *testing.T) {
	s := testStore(t)

	out, err := s.Neighbors("A", Outgoing)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "B", out[0].Object) // table order
	assert.Equal(t, "C", out[1].Object)

	in, err := s.Neighbors("C", Incoming)
	require.NoError(t, err)
	require.Len(t, in, 2)
	assert.Equal(t, "B", in[0].Subject)
	assert.Equal(t, "A", in[1].Subject)

	both, err := s.Neighbors("B", Both)
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, "C", both[0].Object)  // outgoing first
	assert.Equal(t, "A", both[1].Subject) // then incoming
}

func TestNeighbors_IsolatedAndErrors(t *testing.T) {
	s := testStore(t)

	rels, err := s.Neighbors("D", Both)
	require.NoError(t, err)
	assert.Empty(t, rels)

	_, err = s.Neighbors("nope", Both)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.Neighbors("A", Direction("sideways"))
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestEntityLookup(t *testing.T) {
	s := testStore(t)

	e, err := s.Entity("B")
	require.NoError(t, err)
	assert.Equal(t, "gene", e.Label)

	_, err = s.Entity("nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
