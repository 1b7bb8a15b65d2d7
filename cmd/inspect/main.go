// Command inspect loads a snapshot and prints the overview and analytics to
// stdout. Useful for sanity-checking a freshly generated graph without
// standing up the server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/orbitalbio/biograph/internal/config"
	"github.com/orbitalbio/biograph/internal/core/metrics"
	"github.com/orbitalbio/biograph/internal/core/overview"
	"github.com/orbitalbio/biograph/internal/core/relations"
	"github.com/orbitalbio/biograph/internal/core/store"
	"github.com/orbitalbio/biograph/internal/loader"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		cfg = config.Default()
	}

	snap, err := loader.Load(context.Background(), cfg)
	if err != nil {
		log.Fatal("failed to load snapshot", "error", err)
	}

	st := store.New(snap)
	eng := metrics.NewEngine(st, metrics.Config{
		Damping:       cfg.PageRank.Damping,
		Tolerance:     cfg.PageRank.Tolerance,
		MaxIterations: cfg.PageRank.MaxIterations,
	})
	stats := overview.NewStats(st)
	rels := relations.NewFilter(st)

	fmt.Printf("Snapshot %s\n", snap.ID)
	fmt.Printf("  Entities:       %d\n", st.EntityCount())
	fmt.Printf("  Relationships:  %d\n", st.RelationshipCount())
	fmt.Printf("  Average degree: %.1f\n", stats.AverageDegree())

	fmt.Println("\nMost connected entities:")
	top, _ := st.TopByDegree(5)
	for _, ed := range top {
		fmt.Printf("  %-40s %d\n", ed.Name, ed.Degree)
	}

	fmt.Println("\nEntity types:")
	for _, lc := range stats.LabelCounts() {
		fmt.Printf("  %-40s %d\n", lc.Label, lc.Count)
	}

	if preds, err := stats.TopPredicates(10); err == nil {
		fmt.Println("\nTop relationship types:")
		for _, pc := range preds {
			fmt.Printf("  %-40s %d\n", pc.Predicate, pc.Count)
		}
	}

	if docs, err := stats.TopSources(10); err == nil && len(docs) > 0 {
		fmt.Println("\nTop source documents:")
		for _, sc := range docs {
			fmt.Printf("  %-40s %d\n", sc.Document, sc.Count)
		}
	}

	fmt.Println("\nNetwork analysis:")
	fmt.Printf("  Density:        %.4f\n", eng.Density())
	conn := eng.Connectivity()
	if conn.Connected {
		fmt.Printf("  Diameter:       %d\n", conn.Diameter)
	} else {
		fmt.Printf("  Components:     %d\n", conn.Components)
	}
	fmt.Printf("  Avg clustering: %.4f\n", eng.AverageClustering())

	fmt.Println("\nMost important entities (PageRank):")
	ranked, _ := eng.TopByPageRank(15)
	for _, es := range ranked {
		fmt.Printf("  %-40s %.6f\n", es.Name, es.Score)
	}

	if mw, err := rels.MaxWeight(); err == nil {
		fmt.Printf("\nMax relationship strength: %d\n", mw)
	}
}
