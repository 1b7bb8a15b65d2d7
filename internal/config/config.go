package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Snapshot source kinds.
const (
	SourceCSV     = "csv"
	SourceGraphML = "graphml"
	SourceNeo4j   = "neo4j"
)

type ServerConfig struct {
	Port  string `toml:"port"`
	Debug bool   `toml:"debug"`
}

type DataConfig struct {
	Source        string `toml:"source"` // csv | graphml | neo4j
	Entities      string `toml:"entities"`
	Relationships string `toml:"relationships"`
	GraphML       string `toml:"graphml"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type PageRankConfig struct {
	Damping       float64 `toml:"damping"`
	Tolerance     float64 `toml:"tolerance"`
	MaxIterations int     `toml:"max_iterations"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Neo4j    Neo4jConfig    `toml:"neo4j"`
	PageRank PageRankConfig `toml:"pagerank"`
}

// Load reads the TOML config file, then applies environment overrides and
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the config used when no file is present: CSV tables from
// the working directory, served on :8080. Environment overrides still apply.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv("ENTITIES_CSV"); v != "" {
		c.Data.Entities = v
	}
	if v := os.Getenv("RELATIONSHIPS_CSV"); v != "" {
		c.Data.Relationships = v
	}
	if v := os.Getenv("GRAPHML_PATH"); v != "" {
		c.Data.GraphML = v
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		c.Neo4j.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Neo4j.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Data.Source == "" {
		c.Data.Source = SourceCSV
	}
	if c.Data.Entities == "" {
		c.Data.Entities = "data/entities.csv"
	}
	if c.Data.Relationships == "" {
		c.Data.Relationships = "data/relationships.csv"
	}
	if c.Data.GraphML == "" {
		c.Data.GraphML = "data/graph.graphml"
	}
	if c.Neo4j.URI == "" {
		c.Neo4j.URI = "bolt://localhost:7687"
	}
}
