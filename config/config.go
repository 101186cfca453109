// Package config provides configuration loading and management for semdoc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete semdoc configuration
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Mapper    MapperConfig    `yaml:"mapper"`
	NATS      NATSConfig      `yaml:"nats"`
	Server    ServerConfig    `yaml:"server"`
	Output    OutputConfig    `yaml:"output"`
}

// StoreConfig configures the graph store location
type StoreConfig struct {
	// Path is the SQLite database file backing the graph
	// (default: ~/.semdoc/semdoc.db, filled in by the Loader)
	Path string `yaml:"path"`
}

// ExtractorConfig configures the span extraction service client
type ExtractorConfig struct {
	// Endpoint is the extraction service base URL (default: http://localhost:8100)
	Endpoint string `yaml:"endpoint"`
	// Threshold is the minimum confidence requested from the service (0.0-1.0)
	Threshold float64 `yaml:"threshold"`
	// ContextWindow is the number of characters captured around each span
	ContextWindow int `yaml:"context_window"`
	// Timeout is the maximum time to wait for one extraction request
	Timeout time.Duration `yaml:"timeout"`
}

// MapperConfig configures statement construction
type MapperConfig struct {
	// CoOccurrenceWindow is the maximum distance in characters between
	// concept start offsets that still counts as co-occurrence
	CoOccurrenceWindow int `yaml:"co_occurrence_window"`
}

// NATSConfig configures the ingest queue connection
type NATSConfig struct {
	// URL is the NATS server URL used by serve and ingest
	URL string `yaml:"url"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	// Addr is the listen address (default: :8000)
	Addr string `yaml:"addr"`
}

// OutputConfig configures optional processing artifacts
type OutputConfig struct {
	// Dir, when set, receives one Turtle file per processed document
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "", // Filled in by the Loader
		},
		Extractor: ExtractorConfig{
			Endpoint:      "http://localhost:8100",
			Threshold:     0.3,
			ContextWindow: 50,
			Timeout:       60 * time.Second,
		},
		Mapper: MapperConfig{
			CoOccurrenceWindow: 100,
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
		Output: OutputConfig{
			Dir: "", // Disabled
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Extractor.Endpoint == "" {
		return fmt.Errorf("extractor.endpoint is required")
	}
	if c.Extractor.Threshold < 0 || c.Extractor.Threshold > 1 {
		return fmt.Errorf("extractor.threshold must be between 0 and 1")
	}
	if c.Extractor.ContextWindow < 0 {
		return fmt.Errorf("extractor.context_window must not be negative")
	}
	if c.Mapper.CoOccurrenceWindow <= 0 {
		return fmt.Errorf("mapper.co_occurrence_window must be positive")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Store
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}

	// Extractor
	if other.Extractor.Endpoint != "" {
		c.Extractor.Endpoint = other.Extractor.Endpoint
	}
	if other.Extractor.Threshold != 0 {
		c.Extractor.Threshold = other.Extractor.Threshold
	}
	if other.Extractor.ContextWindow != 0 {
		c.Extractor.ContextWindow = other.Extractor.ContextWindow
	}
	if other.Extractor.Timeout != 0 {
		c.Extractor.Timeout = other.Extractor.Timeout
	}

	// Mapper
	if other.Mapper.CoOccurrenceWindow != 0 {
		c.Mapper.CoOccurrenceWindow = other.Mapper.CoOccurrenceWindow
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
}
