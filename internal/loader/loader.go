// Package loader materializes the graph snapshot from one of the supported
// sources: CSV tables, a GraphML file, or a Neo4j/Memgraph instance. Every
// source funnels into model.NewSnapshot, so validation is uniform.
package loader

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/orbitalbio/biograph/internal/config"
	"github.com/orbitalbio/biograph/internal/core/model"
)

// Load builds the session snapshot from the configured source.
func Load(ctx context.Context, cfg *config.Config) (*model.Snapshot, error) {
	var (
		snap *model.Snapshot
		err  error
	)

	switch cfg.Data.Source {
	case config.SourceCSV:
		snap, err = LoadCSV(cfg.Data.Entities, cfg.Data.Relationships)
	case config.SourceGraphML:
		snap, err = LoadGraphML(cfg.Data.GraphML)
	case config.SourceNeo4j:
		var l *Neo4jLoader
		l, err = NewNeo4jLoader(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password)
		if err != nil {
			return nil, err
		}
		defer l.Close(ctx)
		snap, err = l.Load(ctx)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
	if err != nil {
		return nil, err
	}

	log.Info("snapshot loaded",
		"id", snap.ID,
		"source", cfg.Data.Source,
		"entities", len(snap.Entities),
		"relationships", len(snap.Relationships))
	return snap, nil
}
