// Package config loads runtime configuration from a YAML file and
// applies defaults for unset values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hubstash/hubstash/internal/chunker"
	"github.com/hubstash/hubstash/internal/search"
)

// Config holds the embedding application's settings.
type Config struct {
	DBPath           string `yaml:"db_path"`
	TargetChunkChars int    `yaml:"target_chunk_chars"`
	SearchLimit      int    `yaml:"search_limit"`
	IngestWorkers    int    `yaml:"ingest_workers"`
	LogFile          string `yaml:"log"`

	// WatchDirs maps a directory to the hub its files are ingested into.
	WatchDirs map[string]string `yaml:"watch_dirs"`
}

// Default returns a Config with every field at its default value.
func Default() *Config {
	return &Config{
		DBPath:           "hubstash.db",
		TargetChunkChars: chunker.DefaultTargetChars,
		SearchLimit:      search.DefaultLimit,
		IngestWorkers:    0, // 0 means NumCPU at the point of use
	}
}

// Load reads a YAML config file. Unset fields fall back to defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.TargetChunkChars <= 0 {
		c.TargetChunkChars = def.TargetChunkChars
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = def.SearchLimit
	}
}
