// Package index implements the indexing pipeline: single-document
// indexing, git-diff-driven incremental indexing, and L3 agent enrichment
// (read -> route -> extract -> persist).
package index

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/kdd-engine/agentclient"
	"github.com/c360studio/kdd-engine/chunk"
	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/embedmodel"
	"github.com/c360studio/kdd-engine/event"
	"github.com/c360studio/kdd-engine/extract"
	"github.com/c360studio/kdd-engine/gitutil"
	"github.com/c360studio/kdd-engine/metrics"
	"github.com/c360studio/kdd-engine/parser"
	"github.com/c360studio/kdd-engine/store"
)

// DefaultGlobs is the pattern set index_incremental uses when the caller
// supplies none.
var DefaultGlobs = []string{"**/*.md"}

// GitRunner is the subset of gitutil.Runner the incremental pipeline needs.
// Exported so tests can substitute a fake backend instead of a real git
// checkout.
type GitRunner interface {
	HeadCommit(ctx context.Context) (string, error)
	LsFiles(ctx context.Context) ([]string, error)
	DiffNameStatus(ctx context.Context, fromCommit string) ([]gitutil.Change, error)
}

// Pipeline wires the extractor registry, artifact store, and optional
// embedding/agent ports into the single- and multi-document indexing
// operations. The zero value is not usable; construct with New.
type Pipeline struct {
	Store     *store.FSArtifactStore
	Registry  *extract.Registry
	RepoRoot  string
	ChunkCfg  chunk.Config
	Embedding embedmodel.Model   // nil disables L2+
	Agent     agentclient.Client // nil disables L3
	Bus       *event.Bus         // nil disables events
	Metrics   *metrics.Metrics   // nil disables metrics
	Git       GitRunner          // nil uses a real gitutil.Runner rooted at RepoRoot
}

// New returns a Pipeline. repoRoot is the directory file paths passed to
// IndexDocument/IndexIncremental are resolved against and the directory git
// commands run in.
func New(st *store.FSArtifactStore, registry *extract.Registry, repoRoot string) *Pipeline {
	return &Pipeline{
		Store:    st,
		Registry: registry,
		RepoRoot: repoRoot,
		ChunkCfg: chunk.DefaultConfig(),
	}
}

func (p *Pipeline) publish(evt any) {
	if p.Bus == nil {
		return
	}
	switch e := evt.(type) {
	case event.DocumentDetected:
		event.Publish(p.Bus, e)
	case event.DocumentParsed:
		event.Publish(p.Bus, e)
	case event.DocumentIndexed:
		event.Publish(p.Bus, e)
	case event.DocumentStale:
		event.Publish(p.Bus, e)
	case event.DocumentDeleted:
		event.Publish(p.Bus, e)
	}
}

// Result is the outcome of a successful IndexDocument call.
type Result struct {
	Skipped        bool
	SkipReason     string
	NodeID         string
	EdgeCount      int
	EmbeddingCount int
	Warning        string
	IndexLevel     domain.IndexLevel
}

// IndexDocument runs the single-document indexing operation against one
// file already read into memory. relPath is repo-relative (forward
// slashes), used for layer inference, SourceFile stamping, and manifest
// bookkeeping.
func (p *Pipeline) IndexDocument(ctx context.Context, relPath string, content []byte) (Result, error) {
	started := time.Now()
	p.publish(event.DocumentDetected{Path: relPath, DetectedAt: started})

	frontMatter, body := parser.ExtractFrontMatter(content)
	route := domain.RouteKind(frontMatter, relPath)
	if route.Skipped {
		return Result{Skipped: true, SkipReason: "missing front-matter or unrecognized kind"}, nil
	}

	extractor := p.Registry.Get(route.Kind)
	if extractor == nil {
		return Result{Skipped: true, SkipReason: fmt.Sprintf("no extractor registered for kind %s", route.Kind)}, nil
	}

	docID, ok := frontMatter["id"].(string)
	if !ok || strings.TrimSpace(docID) == "" {
		docID = strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	}

	doc := parser.BuildDocument(route.Kind, docID, relPath, content, frontMatter, body)
	p.publish(event.DocumentParsed{DocumentID: doc.ID, Path: relPath})

	node, warnings, err := extractor.ExtractNode(doc)
	if err != nil {
		return Result{}, fmt.Errorf("index: extract node for %s: %w", relPath, err)
	}
	edges, err := extractor.ExtractEdges(doc)
	if err != nil {
		return Result{}, fmt.Errorf("index: extract edges for %s: %w", relPath, err)
	}

	if err := p.Store.WriteNode(node); err != nil {
		return Result{}, fmt.Errorf("index: write node %s: %w", node.ID, err)
	}
	if err := p.Store.AppendEdges(edges); err != nil {
		return Result{}, fmt.Errorf("index: append edges for %s: %w", node.ID, err)
	}

	if p.Metrics != nil {
		p.Metrics.RecordDocumentIndexed(string(route.Kind))
		p.Metrics.EdgesExtracted.Add(float64(len(edges)))
	}

	level := domain.IndexLevelL1
	embeddingCount := 0
	if p.Embedding != nil {
		level = domain.IndexLevelL2
		chunks := chunk.ChunkDocument(doc, p.ChunkCfg)
		if len(chunks) > 0 {
			texts := make([]string, len(chunks))
			for i, c := range chunks {
				texts[i] = c.ContextText
			}
			vectors, err := p.Embedding.Encode(ctx, texts)
			if err != nil {
				return Result{}, fmt.Errorf("index: encode embeddings for %s: %w", node.ID, err)
			}
			embeddings := make([]domain.Embedding, len(chunks))
			now := time.Now()
			for i, c := range chunks {
				embeddings[i] = domain.Embedding{
					ID:           fmt.Sprintf("%s:chunk-%d", doc.ID, c.ChunkIndex),
					DocumentID:   doc.ID,
					DocumentKind: doc.Kind,
					SectionPath:  c.SectionPath,
					ChunkIndex:   c.ChunkIndex,
					RawText:      c.RawText,
					ContextText:  c.ContextText,
					Vector:       vectors[i],
					Model:        p.Embedding.ModelName(),
					Dimensions:   p.Embedding.Dimensions(),
					TextHash:     parser.ContentHash([]byte(c.RawText)),
					GeneratedAt:  now,
				}
			}
			if err := p.Store.WriteEmbeddings(route.Kind, docID, embeddings); err != nil {
				return Result{}, fmt.Errorf("index: write embeddings for %s: %w", node.ID, err)
			}
			embeddingCount = len(embeddings)
			if p.Metrics != nil {
				p.Metrics.EmbeddingsEncoded.Add(float64(embeddingCount))
			}
		}
	}

	warning := route.Warning
	if warning == "" && len(warnings) > 0 {
		warning = strings.Join(warnings, "; ")
	}

	p.publish(event.DocumentIndexed{
		DocumentID: doc.ID,
		NodeID:     node.ID,
		IndexLevel: string(level),
		EdgeCount:  len(edges),
		ChunkCount: embeddingCount,
	})

	return Result{
		NodeID:         node.ID,
		EdgeCount:      len(edges),
		EmbeddingCount: embeddingCount,
		Warning:        warning,
		IndexLevel:     level,
	}, nil
}

// matchesGlobs reports whether relPath matches any of the caller's glob
// patterns. Both the full suffix and the bare filename are tried against
// each pattern so deeply nested files under a "**/" prefix are still
// captured by doublestar's matcher.
func matchesGlobs(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, normalized); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, filepath.Base(normalized)); ok {
			return true
		}
	}
	return false
}

func (p *Pipeline) runner() GitRunner {
	if p.Git != nil {
		return p.Git
	}
	return gitutil.NewRunner(p.RepoRoot)
}
