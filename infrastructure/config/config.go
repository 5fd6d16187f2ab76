// Package config loads and saves the optional YAML configuration file
// supplying defaults for the extraction CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultThreads is the worker count used when neither flag nor config
// specifies one.
const DefaultThreads = 3

// Config represents the complete application configuration
type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Extraction ExtractionConfig `yaml:"extraction"`
}

// OutputConfig contains output locations for extracted audio
type OutputConfig struct {
	Directory    string `yaml:"directory"`
	MetadataFile string `yaml:"metadata_file"`
}

// ExtractionConfig contains extraction settings
type ExtractionConfig struct {
	Format           string `yaml:"format"`
	Threads          int    `yaml:"threads"`
	SkipFailedShards bool   `yaml:"skip_failed_shards"`
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
