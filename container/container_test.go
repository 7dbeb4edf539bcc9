package container_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/c360studio/kdd-engine/agentclient"
	"github.com/c360studio/kdd-engine/config"
	"github.com/c360studio/kdd-engine/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct{ name string }

func (f fakeProvider) Name() string { return f.name }
func (f fakeProvider) Build(baseURL, apiKey string) agentclient.Client {
	return agentclient.NewFake()
}

func TestMain(m *testing.M) {
	agentclient.RegisterProvider(fakeProvider{name: "test-provider"})
	os.Exit(m.Run())
}

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Index.RepoPath = t.TempDir()
	return cfg
}

func TestNewWiresDeterministicEmbeddingByDefault(t *testing.T) {
	cfg := newConfig(t)

	engine, err := container.New(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, engine.Embedding)
	assert.Equal(t, "deterministic-hash-projection", engine.Embedding.ModelName())
	assert.Nil(t, engine.Agent)
	assert.NotNil(t, engine.Pipeline)
	assert.NotNil(t, engine.Query)
	assert.NotNil(t, engine.Merger)
}

func TestNewWiresRegisteredAgentProvider(t *testing.T) {
	cfg := newConfig(t)
	cfg.Agent.Provider = "test-provider"
	cfg.Agent.Endpoint = "http://localhost:9999"

	engine, err := container.New(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, engine.Agent)
	assert.Same(t, engine.Agent, engine.Pipeline.Agent)
}

func TestNewLeavesAgentNilForUnknownProvider(t *testing.T) {
	cfg := newConfig(t)
	cfg.Agent.Provider = "not-registered"

	engine, err := container.New(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, engine.Agent)
}

func TestNewWiresHTTPEmbeddingModel(t *testing.T) {
	cfg := newConfig(t)
	cfg.Embedding.Provider = "http"
	cfg.Embedding.Model = "text-embedding-3-small"
	cfg.Embedding.Endpoint = "http://localhost:9999/embeddings"
	cfg.Embedding.Dimensions = 384

	engine, err := container.New(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, engine.Embedding)
	assert.Equal(t, "text-embedding-3-small", engine.Embedding.ModelName())
	assert.Equal(t, 384, engine.Embedding.Dimensions())
}

func TestLoadIntoMemoryPopulatesGraphAndVectors(t *testing.T) {
	cfg := newConfig(t)
	engine, err := container.New(cfg, nil)
	require.NoError(t, err)

	doc := `---
kind: entity
id: Order
status: draft
---

## Descripción

An order entity.
`
	relPath := filepath.Join("01-domain", "entities", "Order.md")
	_, err = engine.Pipeline.IndexDocument(context.Background(), relPath, []byte(doc))
	require.NoError(t, err)

	require.NoError(t, engine.LoadIntoMemory())
	node, ok := engine.Graph.Node("Entity:Order")
	require.True(t, ok)
	assert.Equal(t, "Entity:Order", node.ID)
}

func TestConnectNATSNoOpWithoutURL(t *testing.T) {
	cfg := newConfig(t)
	engine, err := container.New(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, engine.ConnectNATS(context.Background()))
	assert.Nil(t, engine.Transport())
	engine.Shutdown()
}
