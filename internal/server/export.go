package server

import (
	"encoding/csv"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// ExportEntities streams the entity table back as CSV. Ontology-reference
// columns are the union of ontology names across all entities, sorted, so
// the header is stable for a given snapshot.
func (s *Server) ExportEntities(c *gin.Context) {
	ontologies := map[string]bool{}
	for _, e := range s.Store.Entities() {
		for name := range e.OntologyRefs {
			ontologies[name] = true
		}
	}
	refCols := make([]string, 0, len(ontologies))
	for name := range ontologies {
		refCols = append(refCols, name)
	}
	sort.Strings(refCols)

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="entities.csv"`)

	w := csv.NewWriter(c.Writer)
	header := append([]string{"node", "label"}, refCols...)
	if err := w.Write(header); err != nil {
		exportFailed(c, err)
		return
	}
	for _, e := range s.Store.Entities() {
		row := []string{e.Name, e.Label}
		for _, col := range refCols {
			row = append(row, e.OntologyRefs[col])
		}
		if err := w.Write(row); err != nil {
			exportFailed(c, err)
			return
		}
	}
	w.Flush()
}

// ExportRelationships streams the relationship table back as CSV.
func (s *Server) ExportRelationships(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="relationships.csv"`)

	w := csv.NewWriter(c.Writer)
	if err := w.Write([]string{"subject", "predicate", "object", "weight", "sources"}); err != nil {
		exportFailed(c, err)
		return
	}
	for _, r := range s.Store.Relationships() {
		row := []string{r.Subject, r.Predicate, r.Object, strconv.Itoa(r.Weight), strings.Join(r.Sources, ",")}
		if err := w.Write(row); err != nil {
			exportFailed(c, err)
			return
		}
	}
	w.Flush()
}

func exportFailed(c *gin.Context, err error) {
	log.Error("csv export failed", "error", err)
	c.Status(http.StatusInternalServerError)
}
