// Package config provides configuration loading and management for the kdd
// indexing and retrieval engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete kdd-engine configuration.
type Config struct {
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Agent     AgentConfig     `yaml:"agent"`
	NATS      NATSConfig      `yaml:"nats"`
	Watch     WatchConfig     `yaml:"watch"`
}

// IndexConfig configures where index artifacts live and how chunking runs.
type IndexConfig struct {
	// Root is the `.kdd-index/` directory path (relative to repo root).
	Root string `yaml:"root"`
	// RepoPath is the repository root path (auto-detected from git if empty).
	RepoPath string `yaml:"repo_path"`
	// MaxChunkChars is the chunking target size (default 1500).
	MaxChunkChars int `yaml:"max_chunk_chars"`
	// OverlapChars is the chunking overlap size (default 200).
	OverlapChars int `yaml:"overlap_chars"`
}

// EmbeddingConfig configures the embedding-model port.
type EmbeddingConfig struct {
	// Provider selects "deterministic" (zero-dependency default) or "http".
	Provider string `yaml:"provider"`
	// Model names the embedding model, passed through to the HTTP provider's
	// request body (e.g. "text-embedding-3-small"). Unused by "deterministic".
	Model string `yaml:"model"`
	// Endpoint is the HTTP embeddings endpoint, when Provider is "http".
	Endpoint string `yaml:"endpoint"`
	// APIKey authenticates to the HTTP endpoint.
	APIKey string `yaml:"api_key"`
	// Dimensions is the output vector width.
	Dimensions int `yaml:"dimensions"`
	// Timeout is loaded and merged like the other fields, but container.New
	// does not pass it on: the HTTP provider uses a fixed 30-second client
	// timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// AgentConfig configures the optional L3 enrichment agent client.
type AgentConfig struct {
	// Provider names a registered agentclient.Provider (empty disables L3).
	Provider string `yaml:"provider"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// NATSConfig configures the optional NATS object-store transport.
type NATSConfig struct {
	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`
}

// WatchConfig configures the optional fsnotify-based watch mode.
type WatchConfig struct {
	Enabled       bool     `yaml:"enabled"`
	DebounceDelay string   `yaml:"debounce_delay"`
	Extensions    []string `yaml:"extensions"`
	ExcludeDirs   []string `yaml:"exclude_dirs"`
}

// GetDebounceDelay returns the parsed debounce delay, defaulting to 500ms.
func (w *WatchConfig) GetDebounceDelay() time.Duration {
	if w.DebounceDelay == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(w.DebounceDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Root:          ".kdd-index",
			MaxChunkChars: 1500,
			OverlapChars:  200,
		},
		Embedding: EmbeddingConfig{
			Provider:   "deterministic",
			Dimensions: 64,
			Timeout:    30 * time.Second,
		},
		NATS: NATSConfig{
			Bucket: "kdd-index",
		},
		Watch: WatchConfig{
			Enabled:       false,
			DebounceDelay: "500ms",
			Extensions:    []string{".md"},
			ExcludeDirs:   []string{".git", "node_modules", "vendor"},
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Index.Root == "" {
		return fmt.Errorf("index.root is required")
	}
	if c.Index.MaxChunkChars <= 0 {
		return fmt.Errorf("index.max_chunk_chars must be positive")
	}
	if c.Embedding.Provider == "http" && c.Embedding.Endpoint == "" {
		return fmt.Errorf("embedding.endpoint is required when provider is http")
	}
	if c.Embedding.Provider == "http" && c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required when provider is http")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
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

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
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

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Index.Root != "" {
		c.Index.Root = other.Index.Root
	}
	if other.Index.RepoPath != "" {
		c.Index.RepoPath = other.Index.RepoPath
	}
	if other.Index.MaxChunkChars != 0 {
		c.Index.MaxChunkChars = other.Index.MaxChunkChars
	}
	if other.Index.OverlapChars != 0 {
		c.Index.OverlapChars = other.Index.OverlapChars
	}

	if other.Embedding.Provider != "" {
		c.Embedding.Provider = other.Embedding.Provider
	}
	if other.Embedding.Model != "" {
		c.Embedding.Model = other.Embedding.Model
	}
	if other.Embedding.Endpoint != "" {
		c.Embedding.Endpoint = other.Embedding.Endpoint
	}
	if other.Embedding.APIKey != "" {
		c.Embedding.APIKey = other.Embedding.APIKey
	}
	if other.Embedding.Dimensions != 0 {
		c.Embedding.Dimensions = other.Embedding.Dimensions
	}
	if other.Embedding.Timeout != 0 {
		c.Embedding.Timeout = other.Embedding.Timeout
	}

	if other.Agent.Provider != "" {
		c.Agent.Provider = other.Agent.Provider
		c.Agent.Endpoint = other.Agent.Endpoint
		c.Agent.APIKey = other.Agent.APIKey
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Bucket != "" {
		c.NATS.Bucket = other.NATS.Bucket
	}

	if other.Watch.Enabled {
		c.Watch.Enabled = true
	}
	if len(other.Watch.Extensions) > 0 {
		c.Watch.Extensions = other.Watch.Extensions
	}
}
