package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config holds the pipeline tunables. Everything has a default so the server
// runs without a config file at all.
type Config struct {
	Ingest struct {
		BatchSize        int    `yaml:"batch_size"`
		ExclusionLogPath string `yaml:"exclusion_log_path"`
		ExclusionLogCap  int    `yaml:"exclusion_log_cap"`
	} `yaml:"ingest"`
	Cluster struct {
		DefaultRows int `yaml:"default_rows"`
		MaxRows     int `yaml:"max_rows"`
	} `yaml:"cluster"`
}

func Default() Config {
	var c Config
	c.Ingest.BatchSize = 2000
	c.Ingest.ExclusionLogPath = "excluded_trips.log"
	c.Ingest.ExclusionLogCap = 10000
	c.Cluster.DefaultRows = 10000
	c.Cluster.MaxRows = 50000
	return c
}

// Load reads a YAML config file on top of the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Ingest.BatchSize <= 0 {
		return c, fmt.Errorf("config %s: ingest.batch_size must be positive", path)
	}
	if c.Cluster.MaxRows < c.Cluster.DefaultRows {
		return c, fmt.Errorf("config %s: cluster.max_rows must be >= cluster.default_rows", path)
	}
	return c, nil
}
