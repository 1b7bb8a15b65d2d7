// Package metrics computes global structural statistics and per-entity
// centrality over a loaded snapshot. Expensive results (connectivity,
// clustering, PageRank) are computed once per snapshot and cached for the
// engine's lifetime; a fresh load gets a fresh engine, so the cache is never
// invalidated.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/orbitalbio/biograph/internal/core/model"
	"github.com/orbitalbio/biograph/internal/core/store"
)

// Config holds the PageRank iteration knobs. Zero fields fall back to the
// defaults below.
type Config struct {
	Damping       float64 `json:"damping"`
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
}

const (
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

func (c Config) withDefaults() Config {
	if c.Damping == 0 {
		c.Damping = DefaultDamping
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	return c
}

// Connectivity reports on the undirected projection of the graph. Diameter
// is only defined when the projection is connected; for a disconnected graph
// the component count is reported instead. A disconnected graph is an
// expected state, not an error.
type Connectivity struct {
	Connected  bool `json:"connected"`
	Diameter   int  `json:"diameter"`
	Components int  `json:"components"`
}

// EntityScore pairs an entity name with its PageRank score.
type EntityScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Engine computes metrics over an immutable store. Safe for concurrent use:
// cached results are guarded by mu and first computations are deduplicated
// with singleflight so simultaneous readers share one run.
type Engine struct {
	store *store.Store
	cfg   Config

	mu    sync.RWMutex
	group singleflight.Group

	projection   map[string]map[string]bool
	connectivity *Connectivity
	clustering   *float64
	pageRank     map[string]float64
}

// NewEngine creates an engine over the store with the given PageRank config.
func NewEngine(s *store.Store, cfg Config) *Engine {
	return &Engine{store: s, cfg: cfg.withDefaults()}
}

// Density returns the directed graph density |E| / (|V|·(|V|-1)): the
// fraction of ordered entity pairs connected by a relationship, with
// parallel edges each counted. Graphs with fewer than two entities have
// density 0.
func (e *Engine) Density() float64 {
	n := e.store.EntityCount()
	if n < 2 {
		return 0
	}
	return float64(e.store.RelationshipCount()) / (float64(n) * float64(n-1))
}

// Connectivity returns the diameter of the undirected projection when it is
// connected, and the connected component count otherwise. Diameter is never
// attempted on a disconnected graph.
func (e *Engine) Connectivity() Connectivity {
	e.mu.RLock()
	if e.connectivity != nil {
		c := *e.connectivity
		e.mu.RUnlock()
		return c
	}
	e.mu.RUnlock()

	v, _, _ := e.group.Do("connectivity", func() (any, error) {
		c := e.computeConnectivity()
		e.mu.Lock()
		e.connectivity = &c
		e.mu.Unlock()
		return c, nil
	})
	return v.(Connectivity)
}

// AverageClustering returns the mean local clustering coefficient over the
// undirected projection (multi-edges collapsed, self-loops ignored). Nodes
// with projected degree < 2 contribute 0. Empty graph returns 0.
func (e *Engine) AverageClustering() float64 {
	e.mu.RLock()
	if e.clustering != nil {
		c := *e.clustering
		e.mu.RUnlock()
		return c
	}
	e.mu.RUnlock()

	v, _, _ := e.group.Do("clustering", func() (any, error) {
		c := e.computeAverageClustering()
		e.mu.Lock()
		e.clustering = &c
		e.mu.Unlock()
		return c, nil
	})
	return v.(float64)
}

// PageRank returns the PageRank score of every entity over the directed
// graph, each relationship record counting as one edge. Scores sum to 1.
// If the iteration cap is hit before convergence the last iterate is
// returned. The returned map is a copy the caller may keep.
func (e *Engine) PageRank() map[string]float64 {
	e.mu.RLock()
	if e.pageRank != nil {
		out := copyScores(e.pageRank)
		e.mu.RUnlock()
		return out
	}
	e.mu.RUnlock()

	v, _, _ := e.group.Do("pagerank", func() (any, error) {
		scores := e.computePageRank()
		e.mu.Lock()
		e.pageRank = scores
		e.mu.Unlock()
		return scores, nil
	})
	return copyScores(v.(map[string]float64))
}

// TopByPageRank returns at most k entities ordered by descending score,
// ties broken by name so the ranking is deterministic.
func (e *Engine) TopByPageRank(k int) ([]EntityScore, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be > 0, got %d", model.ErrInvalidParameter, k)
	}

	scores := e.PageRank()
	ranked := make([]EntityScore, 0, len(scores))
	for name, score := range scores {
		ranked = append(ranked, EntityScore{Name: name, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// undirected returns the simple undirected projection as neighbor sets:
// an edge connects its endpoints regardless of direction, parallel edges
// collapse, self-loops are dropped. Built once and shared.
func (e *Engine) undirected() map[string]map[string]bool {
	e.mu.RLock()
	if e.projection != nil {
		p := e.projection
		e.mu.RUnlock()
		return p
	}
	e.mu.RUnlock()

	v, _, _ := e.group.Do("projection", func() (any, error) {
		adj := make(map[string]map[string]bool, e.store.EntityCount())
		for _, ent := range e.store.Entities() {
			adj[ent.Name] = make(map[string]bool)
		}
		for _, r := range e.store.Relationships() {
			if r.Subject == r.Object {
				continue
			}
			adj[r.Subject][r.Object] = true
			adj[r.Object][r.Subject] = true
		}
		e.mu.Lock()
		e.projection = adj
		e.mu.Unlock()
		return adj, nil
	})
	return v.(map[string]map[string]bool)
}

func (e *Engine) computeConnectivity() Connectivity {
	entities := e.store.Entities()
	if len(entities) == 0 {
		return Connectivity{Connected: false, Components: 0}
	}

	adj := e.undirected()

	visited := make(map[string]bool, len(entities))
	components := 0
	for _, ent := range entities {
		if visited[ent.Name] {
			continue
		}
		components++
		bfs(adj, ent.Name, visited)
	}

	if components > 1 {
		return Connectivity{Connected: false, Components: components}
	}

	// Connected: diameter is the maximum BFS eccentricity. Only safe here,
	// where every pair is reachable.
	diameter := 0
	for _, ent := range entities {
		if ecc := eccentricity(adj, ent.Name); ecc > diameter {
			diameter = ecc
		}
	}
	return Connectivity{Connected: true, Diameter: diameter, Components: 1}
}

// bfs marks every node reachable from start in visited.
func bfs(adj map[string]map[string]bool, start string, visited map[string]bool) {
	queue := []string{start}
	visited[start] = true
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for v := range adj[u] {
			if !visited[v] {
				visited[v] = true
				queue = append(queue, v)
			}
		}
	}
}

// eccentricity returns the longest shortest-path hop count from start.
func eccentricity(adj map[string]map[string]bool, start string) int {
	dist := map[string]int{start: 0}
	queue := []string{start}
	max := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for v := range adj[u] {
			if _, seen := dist[v]; seen {
				continue
			}
			dist[v] = dist[u] + 1
			if dist[v] > max {
				max = dist[v]
			}
			queue = append(queue, v)
		}
	}
	return max
}

func (e *Engine) computeAverageClustering() float64 {
	entities := e.store.Entities()
	if len(entities) == 0 {
		return 0
	}

	adj := e.undirected()

	total := 0.0
	for _, ent := range entities {
		neighbors := adj[ent.Name]
		k := len(neighbors)
		if k < 2 {
			continue // local coefficient 0 by convention
		}
		links := 0
		names := make([]string, 0, k)
		for n := range neighbors {
			names = append(names, n)
		}
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				if adj[names[i]][names[j]] {
					links++
				}
			}
		}
		total += 2.0 * float64(links) / (float64(k) * float64(k-1))
	}
	return total / float64(len(entities))
}

func (e *Engine) computePageRank() map[string]float64 {
	entities := e.store.Entities()
	n := len(entities)
	if n == 0 {
		return map[string]float64{}
	}

	// Out-edge targets per node, one entry per relationship record.
	targets := make(map[string][]string, n)
	for _, r := range e.store.Relationships() {
		targets[r.Subject] = append(targets[r.Subject], r.Object)
	}

	scores := make(map[string]float64, n)
	for _, ent := range entities {
		scores[ent.Name] = 1.0 / float64(n)
	}

	d := e.cfg.Damping
	for iter := 0; iter < e.cfg.MaxIterations; iter++ {
		next := make(map[string]float64, n)
		base := (1 - d) / float64(n)

		// Dangling nodes spread their mass uniformly.
		dangling := 0.0
		for _, ent := range entities {
			if len(targets[ent.Name]) == 0 {
				dangling += scores[ent.Name]
			}
		}
		base += d * dangling / float64(n)

		for _, ent := range entities {
			next[ent.Name] = base
		}
		for _, ent := range entities {
			out := targets[ent.Name]
			if len(out) == 0 {
				continue
			}
			contribution := d * scores[ent.Name] / float64(len(out))
			for _, obj := range out {
				next[obj] += contribution
			}
		}

		// L1 convergence check, scaled by node count.
		delta := 0.0
		for name, score := range next {
			delta += math.Abs(score - scores[name])
		}
		scores = next
		if delta < float64(n)*e.cfg.Tolerance {
			break
		}
	}
	return scores
}

func copyScores(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
