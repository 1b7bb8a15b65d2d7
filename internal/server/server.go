// Package server is the HTTP presentation adapter: it renders the outputs
// of the read-only query core as JSON and CSV. All state is the immutable
// snapshot, so every handler is safe under concurrent requests.
package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/orbitalbio/biograph/internal/core/metrics"
	"github.com/orbitalbio/biograph/internal/core/model"
	"github.com/orbitalbio/biograph/internal/core/overview"
	"github.com/orbitalbio/biograph/internal/core/relations"
	"github.com/orbitalbio/biograph/internal/core/search"
	"github.com/orbitalbio/biograph/internal/core/store"
)

// View caps, matching the interactive explorer this API feeds.
const (
	topDegreeDefault    = 5
	topPageRankDefault  = 15
	topDistribution     = 10
	relationshipViewCap = 100
)

type Server struct {
	Store     *store.Store
	Metrics   *metrics.Engine
	Search    *search.Index
	Relations *relations.Filter
	Overview  *overview.Stats
}

// New wires the query components over one loaded snapshot.
func New(st *store.Store, prCfg metrics.Config) *Server {
	return &Server{
		Store:     st,
		Metrics:   metrics.NewEngine(st, prCfg),
		Search:    search.NewIndex(st),
		Relations: relations.NewFilter(st),
		Overview:  overview.NewStats(st),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.Health)
	r.GET("/stats", s.Stats)
	r.GET("/overview", s.OverviewStats)
	r.GET("/search", s.SearchEntities)
	r.GET("/entities/:name", s.EntityDetail)
	r.GET("/relationships", s.Relationships)
	r.GET("/relationships/predicates", s.Predicates)
	r.GET("/analytics", s.Analytics)
	r.GET("/export/entities.csv", s.ExportEntities)
	r.GET("/export/relationships.csv", s.ExportRelationships)

	return r
}

func (s *Server) Health(c *gin.Context) {
	snap := s.Store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"snapshot_id":   snap.ID,
		"loaded_at":     snap.LoadedAt,
		"entities":      s.Store.EntityCount(),
		"relationships": s.Store.RelationshipCount(),
	})
}

func (s *Server) Stats(c *gin.Context) {
	k, err := intQuery(c, "k", topDegreeDefault)
	if err != nil {
		respondError(c, err)
		return
	}

	top, err := s.Store.TopByDegree(k)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entities":       s.Store.EntityCount(),
		"relationships":  s.Store.RelationshipCount(),
		"average_degree": s.Overview.AverageDegree(),
		"top_by_degree":  top,
	})
}

func (s *Server) OverviewStats(c *gin.Context) {
	predicates, err := s.Overview.TopPredicates(topDistribution)
	if err != nil {
		respondError(c, err)
		return
	}
	sources, err := s.Overview.TopSources(topDistribution)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"label_counts":   s.Overview.LabelCounts(),
		"top_predicates": predicates,
		"top_sources":    sources,
		"average_degree": s.Overview.AverageDegree(),
	})
}

func (s *Server) SearchEntities(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "term is required"})
		return
	}
	limit, err := intQuery(c, "limit", search.DefaultLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	matches, err := s.Search.Search(term, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"term":    term,
		"count":   len(matches),
		"matches": matches,
	})
}

func (s *Server) EntityDetail(c *gin.Context) {
	name := c.Param("name")

	entity, err := s.Store.Entity(name)
	if err != nil {
		respondError(c, err)
		return
	}
	degree, err := s.Store.Degree(name)
	if err != nil {
		respondError(c, err)
		return
	}

	dir := store.Direction(c.DefaultQuery("direction", string(store.Both)))
	neighbors, err := s.Store.Neighbors(name, dir)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entity":    entity,
		"degree":    degree,
		"neighbors": neighbors,
	})
}

func (s *Server) Relationships(c *gin.Context) {
	predicate := c.Query("predicate")
	minWeight, err := intQuery(c, "min_weight", 1)
	if err != nil {
		respondError(c, err)
		return
	}

	filtered, err := s.Relations.Apply(predicate, minWeight)
	if err != nil {
		respondError(c, err)
		return
	}
	consensus, err := s.Relations.HighConfidence(filtered,
		relations.DefaultConfidenceThreshold, relations.DefaultConfidenceLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	view := filtered
	if len(view) > relationshipViewCap {
		view = view[:relationshipViewCap]
	}

	c.JSON(http.StatusOK, gin.H{
		"count":           len(filtered),
		"relationships":   view,
		"high_confidence": consensus,
	})
}

func (s *Server) Predicates(c *gin.Context) {
	maxWeight, err := s.Relations.MaxWeight()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predicates": s.Relations.DistinctPredicates(),
		"max_weight": maxWeight,
	})
}

func (s *Server) Analytics(c *gin.Context) {
	k, err := intQuery(c, "k", topPageRankDefault)
	if err != nil {
		respondError(c, err)
		return
	}

	top, err := s.Metrics.TopByPageRank(k)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"density":            s.Metrics.Density(),
		"connectivity":       s.Metrics.Connectivity(),
		"average_clustering": s.Metrics.AverageClustering(),
		"top_by_pagerank":    top,
	})
}

// intQuery parses an optional integer query parameter.
func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.ErrInvalidParameter
	}
	return v, nil
}

// respondError maps the core error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500; nothing below this layer panics.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidParameter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrEmptyGraph):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Error("unhandled query error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
