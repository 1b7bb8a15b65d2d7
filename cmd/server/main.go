package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/orbitalbio/biograph/internal/config"
	"github.com/orbitalbio/biograph/internal/core/metrics"
	"github.com/orbitalbio/biograph/internal/core/store"
	"github.com/orbitalbio/biograph/internal/loader"
	"github.com/orbitalbio/biograph/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment as-is")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Warn("could not load config file, using defaults", "path", cfgPath, "error", err)
		cfg = config.Default()
	}
	if cfg.Server.Debug {
		log.SetLevel(log.DebugLevel)
	}

	snap, err := loader.Load(context.Background(), cfg)
	if err != nil {
		log.Fatal("failed to load snapshot", "error", err)
	}

	srv := server.New(store.New(snap), metrics.Config{
		Damping:       cfg.PageRank.Damping,
		Tolerance:     cfg.PageRank.Tolerance,
		MaxIterations: cfg.PageRank.MaxIterations,
	})
	r := srv.SetupRouter()

	log.Info("starting server", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
