package overview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalbio/biograph/internal/core/model"
	"github.com/orbitalbio/biograph/internal/core/store"
)

func testStats(t *testing.T) *Stats {
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
	return NewStats(store.New(snap))
}

func TestLabelCounts(t *testing.T) {
	st := testStats(t)

	counts := st.LabelCounts()
	require.Len(t, counts, 3)
	assert.Equal(t, LabelCount{Label: "protein", Count: 2}, counts[0])
	// Equal counts sort by label.
	assert.Equal(t, LabelCount{Label: "gene", Count: 1}, counts[1])
	assert.Equal(t, LabelCount{Label: "organism", Count: 1}, counts[2])
}

func TestTopPredicates(t *testing.T) {
	st := testStats(t)

	preds, err := st.TopPredicates(10)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, PredicateCount{Predicate: "regulates", Count: 2}, preds[0])
	assert.Equal(t, PredicateCount{Predicate: "interacts", Count: 1}, preds[1])

	one, err := st.TopPredicates(1)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = st.TopPredicates(0)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestTopSources(t *testing.T) {
	st := testStats(t)

	docs, err := st.TopSources(10)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	// doc1 and doc2 each support two relationships; tie broken by id.
	assert.Equal(t, SourceCount{Document: "doc1", Count: 2}, docs[0])
	assert.Equal(t, SourceCount{Document: "doc2", Count: 2}, docs[1])
	assert.Equal(t, SourceCount{Document: "doc3", Count: 1}, docs[2])
}

func TestAverageDegree(t *testing.T) {
	st := testStats(t)
	assert.InDelta(t, 1.5, st.AverageDegree(), 1e-12) // 2*3/4

	empty, err := model.NewSnapshot(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, NewStats(store.New(empty)).AverageDegree())
}
