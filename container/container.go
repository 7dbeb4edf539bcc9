// Package container is the composition root: it wires config, the
// artifact store, the extractor registry, the optional embedding and agent
// ports, the event bus, metrics, the indexing pipeline, the in-memory
// retrieval engine, and an optional NATS transport into one Engine.
package container

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/kdd-engine/agentclient"
	"github.com/c360studio/kdd-engine/config"
	"github.com/c360studio/kdd-engine/embedmodel"
	"github.com/c360studio/kdd-engine/event"
	"github.com/c360studio/kdd-engine/extract"
	"github.com/c360studio/kdd-engine/graphstore"
	"github.com/c360studio/kdd-engine/index"
	"github.com/c360studio/kdd-engine/merge"
	"github.com/c360studio/kdd-engine/metrics"
	"github.com/c360studio/kdd-engine/query"
	"github.com/c360studio/kdd-engine/store"
	"github.com/c360studio/kdd-engine/transport"
	"github.com/c360studio/kdd-engine/vectorstore"
)

// Engine bundles every wired component a CLI or service entrypoint needs.
type Engine struct {
	Config   *config.Config
	Store    *store.FSArtifactStore
	Registry *extract.Registry
	Bus      *event.Bus
	Metrics  *metrics.Metrics

	Embedding embedmodel.Model   // nil when config.Embedding.Provider is unset
	Agent     agentclient.Client // nil when config.Agent.Provider is unset

	Pipeline *index.Pipeline
	Query    *query.Engine
	Merger   *merge.Merger

	Graph   *graphstore.Store
	Vectors *vectorstore.Store

	transport   transport.Transport // nil unless NATS is configured
	natsObjects *transport.NATSObjectStore
}

// New wires an Engine from a loaded Config. The artifact store is opened
// (and its `.kdd-index/` directory created if absent) at cfg.Index.Root
// under cfg.Index.RepoPath. A nil reg registers the metrics against a fresh,
// private registry.
func New(cfg *config.Config, reg prometheus.Registerer) (*Engine, error) {
	indexRoot := cfg.Index.Root
	if cfg.Index.RepoPath != "" {
		indexRoot = cfg.Index.RepoPath + "/" + cfg.Index.Root
	}
	st, err := store.Open(indexRoot)
	if err != nil {
		return nil, fmt.Errorf("container: open artifact store: %w", err)
	}

	registry := extract.NewRegistry()
	bus := event.NewBus()
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	var embedding embedmodel.Model
	switch cfg.Embedding.Provider {
	case "deterministic":
		embedding = embedmodel.NewDeterministic(cfg.Embedding.Dimensions)
	case "http":
		embedding = embedmodel.NewHTTPModel(cfg.Embedding.Model, cfg.Embedding.Endpoint, cfg.Embedding.APIKey, cfg.Embedding.Dimensions)
	}

	var agent agentclient.Client
	if cfg.Agent.Provider != "" {
		if provider := agentclient.GetProvider(cfg.Agent.Provider); provider != nil {
			agent = provider.Build(cfg.Agent.Endpoint, cfg.Agent.APIKey)
		}
	}

	pipeline := index.New(st, registry, cfg.Index.RepoPath)
	pipeline.ChunkCfg.MaxChars = cfg.Index.MaxChunkChars
	pipeline.ChunkCfg.OverlapChars = cfg.Index.OverlapChars
	pipeline.Embedding = embedding
	pipeline.Agent = agent
	pipeline.Bus = bus
	pipeline.Metrics = m

	graph := graphstore.New()
	vectors := vectorstore.New()

	return &Engine{
		Config:    cfg,
		Store:     st,
		Registry:  registry,
		Bus:       bus,
		Metrics:   m,
		Embedding: embedding,
		Agent:     agent,
		Pipeline:  pipeline,
		Query:     query.New(graph, vectors, embedding),
		Merger:    &merge.Merger{Output: st, Metrics: m},
		Graph:     graph,
		Vectors:   vectors,
	}, nil
}

// LoadIntoMemory populates the in-memory graph and vector stores from the
// artifact store, implementing the index loader described alongside the
// retrieval engine: every node/edge/embedding is read once into memory so
// the six query algorithms never touch disk.
func (e *Engine) LoadIntoMemory() error {
	nodes, err := e.Store.ReadAllNodes()
	if err != nil {
		return fmt.Errorf("container: load nodes: %w", err)
	}
	edges, err := e.Store.ReadAllEdges()
	if err != nil {
		return fmt.Errorf("container: load edges: %w", err)
	}
	e.Graph.Load(nodes, edges)

	embeddings, err := e.Store.ReadAllEmbeddings()
	if err != nil {
		return fmt.Errorf("container: load embeddings: %w", err)
	}
	e.Vectors.Load(embeddings)
	return nil
}

// ConnectNATS opens a NATS object-store transport for pushing/pulling index
// artifacts between machines, using cfg.NATS.URL and cfg.NATS.Bucket.
func (e *Engine) ConnectNATS(ctx context.Context) error {
	if e.Config.NATS.URL == "" {
		return nil
	}
	objStore, err := transport.NewNATSObjectStore(ctx, e.Config.NATS.URL, e.Config.NATS.Bucket)
	if err != nil {
		return fmt.Errorf("container: connect NATS: %w", err)
	}
	e.natsObjects = objStore
	e.transport = objStore
	return nil
}

// Transport returns the configured artifact transport, or nil if NATS was
// never connected.
func (e *Engine) Transport() transport.Transport { return e.transport }

// Shutdown releases any connections the Engine opened.
func (e *Engine) Shutdown() {
	if e.natsObjects != nil {
		e.natsObjects.Close()
	}
}

// NewLogger returns a text-handler slog.Logger at the given level, writing
// to stderr.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
