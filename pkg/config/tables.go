package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yml
var defaultTables []byte

// Tables is the supplied reference data for the matching pipeline: the
// category keyword vocabulary and the manual expected-time baselines per
// (category, difficulty bucket). Read-only once loaded.
type Tables struct {
	Categories     map[string][]string        `yaml:"categories" json:"categories"`
	ExpectedTimes  map[string]map[int]float64 `yaml:"expected_times" json:"expected_times"`
	DefaultMinutes float64                    `yaml:"default_minutes" json:"default_minutes"`
}

// DefaultTables returns the built-in reference tables
func DefaultTables() (*Tables, error) {
	return parseTables(defaultTables)
}

// LoadTables reads reference tables from an external YAML file, falling back
// to the built-in tables when path is empty
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from config
	if err != nil {
		return nil, fmt.Errorf("read tables file: %w", err)
	}
	return parseTables(data)
}

func parseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}
	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("tables have no categories")
	}
	if t.DefaultMinutes == 0 {
		t.DefaultMinutes = 30
	}
	return &t, nil
}

// ExpectedTime looks up the manual baseline for a category and difficulty
// bucket, falling back to the "other" category and then to DefaultMinutes
func (t *Tables) ExpectedTime(category string, bucket int) float64 {
	if times, ok := t.ExpectedTimes[category]; ok {
		if v, ok := times[bucket]; ok {
			return v
		}
	}
	if times, ok := t.ExpectedTimes["other"]; ok {
		if v, ok := times[bucket]; ok {
			return v
		}
	}
	return t.DefaultMinutes
}
