package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Index.Root != ".kdd-index" {
		t.Errorf("expected default index root .kdd-index, got %s", cfg.Index.Root)
	}
	if cfg.Index.MaxChunkChars != 1500 {
		t.Errorf("expected default max chunk chars 1500, got %d", cfg.Index.MaxChunkChars)
	}
	if cfg.Embedding.Provider != "deterministic" {
		t.Errorf("expected default embedding provider deterministic, got %s", cfg.Embedding.Provider)
	}
	if cfg.Watch.Enabled {
		t.Error("expected watch disabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing index root",
			modify:  func(c *Config) { c.Index.Root = "" },
			wantErr: true,
		},
		{
			name:    "non-positive chunk size",
			modify:  func(c *Config) { c.Index.MaxChunkChars = 0 },
			wantErr: true,
		},
		{
			name: "http embedding provider without endpoint",
			modify: func(c *Config) {
				c.Embedding.Provider = "http"
				c.Embedding.Endpoint = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
index:
  root: ".test-index"
  repo_path: "/test/path"
  max_chunk_chars: 2000
embedding:
  provider: "http"
  endpoint: "http://test:1234/embeddings"
  dimensions: 768
  timeout: 10s
nats:
  url: "nats://test:4222"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Index.Root != ".test-index" {
		t.Errorf("expected index root .test-index, got %s", cfg.Index.Root)
	}
	if cfg.Index.RepoPath != "/test/path" {
		t.Errorf("expected repo path /test/path, got %s", cfg.Index.RepoPath)
	}
	if cfg.Embedding.Endpoint != "http://test:1234/embeddings" {
		t.Errorf("expected embedding endpoint http://test:1234/embeddings, got %s", cfg.Embedding.Endpoint)
	}
	if cfg.Embedding.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Embedding.Timeout)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Index: IndexConfig{
			RepoPath: "/override/path",
		},
		Embedding: EmbeddingConfig{
			Provider: "http",
		},
	}

	base.Merge(override)

	if base.Index.RepoPath != "/override/path" {
		t.Errorf("expected repo path /override/path, got %s", base.Index.RepoPath)
	}
	if base.Embedding.Provider != "http" {
		t.Errorf("expected embedding provider http, got %s", base.Embedding.Provider)
	}
	// Root should remain from base since override didn't set it.
	if base.Index.Root != ".kdd-index" {
		t.Errorf("expected index root to remain default, got %s", base.Index.Root)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Index.RepoPath = "/saved/path"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Index.RepoPath != "/saved/path" {
		t.Errorf("expected repo path /saved/path, got %s", loaded.Index.RepoPath)
	}
}
