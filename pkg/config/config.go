package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:goalmatch.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Matching MatchingConfig `yaml:"matching" json:"matching" jsonschema:"description=Matching pipeline configuration"`
}

// MatchingConfig holds tunable weights of the matching pipeline. The blend
// weights are not normalized anywhere, so keep their sum at 1.
type MatchingConfig struct {
	HistoryWeight  float64 `yaml:"history_weight" json:"history_weight" jsonschema:"default=0.7,minimum=0,maximum=1,description=Weight of observed history vs the manual expected-time table"`
	BehaviorWeight float64 `yaml:"behavior_weight" json:"behavior_weight" jsonschema:"default=0.8,description=Weight of behavioral cosine similarity in the combined score"`
	LocationWeight float64 `yaml:"location_weight" json:"location_weight" jsonschema:"default=0.2,description=Weight of location affinity in the combined score"`
	TablesFile     string  `yaml:"tables_file" json:"tables_file" jsonschema:"description=Optional YAML file overriding the built-in category and expected-time tables"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Default returns a config with all defaults applied, used when no config file is given
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:goalmatch.db?cache=shared&mode=rwc"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Matching.HistoryWeight == 0 {
		c.Matching.HistoryWeight = 0.7
	}
	if c.Matching.BehaviorWeight == 0 {
		c.Matching.BehaviorWeight = 0.8
	}
	if c.Matching.LocationWeight == 0 {
		c.Matching.LocationWeight = 0.2
	}
}

// GetServerConfig returns listen address and timeout for the HTTP server
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
