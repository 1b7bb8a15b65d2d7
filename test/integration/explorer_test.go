package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalbio/biograph/internal/core/metrics"
	"github.com/orbitalbio/biograph/internal/core/store"
	"github.com/orbitalbio/biograph/internal/loader"
	"github.com/orbitalbio/biograph/internal/server"
)

const entitiesCSV = `node,label,ncbi_gene
TP53,gene,7157
MDM2,gene,4193
CDKN1A,gene,1026
ATM,gene,472
`

const relationshipsCSV = `subject,predicate,object,weight,sources
TP53,activates,CDKN1A,4,"pmid:1,pmid:2"
MDM2,inhibits,TP53,3,pmid:3
ATM,activates,TP53,2,"pmid:4,pmid:5"
TP53,activates,MDM2,1,pmid:6
`

// newTestServer loads a small regulatory-network fixture from CSV exactly
// the way cmd/server does, then serves it over httptest.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	entPath := filepath.Join(dir, "entities.csv")
	relPath := filepath.Join(dir, "relationships.csv")
	require.NoError(t, os.WriteFile(entPath, []byte(entitiesCSV), 0o644))
	require.NoError(t, os.WriteFile(relPath, []byte(relationshipsCSV), 0o644))

	snap, err := loader.LoadCSV(entPath, relPath)
	require.NoError(t, err)

	srv := server.New(store.New(snap), metrics.Config{})
	ts := httptest.NewServer(srv.SetupRouter())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestExplorerEndToEnd(t *testing.T) {
	ts := newTestServer(t)

	t.Run("health reflects loaded snapshot", func(t *testing.T) {
		code, body := getJSON(t, ts, "/healthz")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(4), body["entities"])
		assert.Equal(t, float64(4), body["relationships"])
	})

	t.Run("stats ranks TP53 first", func(t *testing.T) {
		code, body := getJSON(t, ts, "/stats")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(2), body["average_degree"])

		top := body["top_by_degree"].([]any)
		require.NotEmpty(t, top)
		first := top[0].(map[string]any)
		assert.Equal(t, "TP53", first["name"])
		assert.Equal(t, float64(4), first["degree"])
	})

	t.Run("search is case-insensitive and summarizes connections", func(t *testing.T) {
		code, body := getJSON(t, ts, "/search?term=tp53")
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, float64(1), body["count"])

		m := body["matches"].([]any)[0].(map[string]any)
		assert.Equal(t, float64(2), m["outgoing_count"])
		assert.Equal(t, float64(2), m["incoming_count"])
		assert.Len(t, m["sample_outgoing"].([]any), 2)
	})

	t.Run("entity detail carries ontology refs", func(t *testing.T) {
		code, body := getJSON(t, ts, "/entities/MDM2")
		require.Equal(t, http.StatusOK, code)

		entity := body["entity"].(map[string]any)
		refs := entity["ontology_refs"].(map[string]any)
		assert.Equal(t, "4193", refs["ncbi_gene"])
		assert.Equal(t, float64(2), body["degree"])
	})

	t.Run("unknown entity is a 404", func(t *testing.T) {
		code, _ := getJSON(t, ts, "/entities/BRCA1")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("relationship filtering by predicate and weight", func(t *testing.T) {
		code, body := getJSON(t, ts, "/relationships?predicate=activates&min_weight=2")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(2), body["count"])

		consensus := body["high_confidence"].([]any)
		require.Len(t, consensus, 1)
		assert.Equal(t, "CDKN1A", consensus[0].(map[string]any)["object"])
	})

	t.Run("predicate catalog", func(t *testing.T) {
		code, body := getJSON(t, ts, "/relationships/predicates")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []any{"activates", "inhibits"}, body["predicates"])
		assert.Equal(t, float64(4), body["max_weight"])
	})

	t.Run("analytics over the projection", func(t *testing.T) {
		code, body := getJSON(t, ts, "/analytics")
		require.Equal(t, http.StatusOK, code)

		conn := body["connectivity"].(map[string]any)
		assert.Equal(t, true, conn["connected"])
		assert.Equal(t, float64(2), conn["diameter"])

		top := body["top_by_pagerank"].([]any)
		require.NotEmpty(t, top)
		assert.Equal(t, "TP53", top[0].(map[string]any)["name"])
	})

	t.Run("overview distributions", func(t *testing.T) {
		code, body := getJSON(t, ts, "/overview")
		require.Equal(t, http.StatusOK, code)

		labels := body["label_counts"].([]any)
		require.Len(t, labels, 1)
		assert.Equal(t, "gene", labels[0].(map[string]any)["label"])
		assert.Equal(t, float64(4), labels[0].(map[string]any)["count"])

		preds := body["top_predicates"].([]any)
		assert.Equal(t, "activates", preds[0].(map[string]any)["predicate"])
	})

	t.Run("csv round trip", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/export/relationships.csv")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		rels, err := loader.ParseRelationshipTable(resp.Body)
		require.NoError(t, err)
		assert.Len(t, rels, 4)
		assert.Equal(t, []string{"pmid:1", "pmid:2"}, rels[0].Sources)
	})
}
