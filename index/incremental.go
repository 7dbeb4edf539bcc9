package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/event"
	"github.com/c360studio/kdd-engine/gitutil"
)

// FileResult is the per-file outcome of an incremental run, reported so
// that one bad document never aborts the batch.
type FileResult struct {
	Path    string
	Status  string // "indexed", "deleted", "skipped", "error"
	Result  Result
	Err     error
}

// IncrementalSummary is the aggregate outcome of IndexIncremental.
type IncrementalSummary struct {
	// RunID correlates this run's log lines and emitted events; it has no
	// meaning across runs.
	RunID       string
	Files       []FileResult
	Manifest    domain.IndexManifest
	FullReindex bool
}

// IndexIncremental runs the git-diff-driven incremental indexing
// operation: a full reindex when no manifest (or no git_commit) exists,
// otherwise a diff against the manifest's recorded commit. Every file is
// processed independently — a read or extraction failure on one file is
// recorded in its FileResult and does not stop the remaining files.
func (p *Pipeline) IndexIncremental(ctx context.Context, globs []string, domainTag string) (IncrementalSummary, error) {
	if len(globs) == 0 {
		globs = DefaultGlobs
	}
	runID := uuid.New().String()

	existing, err := p.Store.ReadManifest()
	if err != nil {
		return IncrementalSummary{}, fmt.Errorf("index: read manifest: %w", err)
	}

	runner := p.runner()

	var results []FileResult
	fullReindex := existing == nil || existing.GitCommit == ""

	if fullReindex {
		paths, err := runner.LsFiles(ctx)
		if err != nil {
			return IncrementalSummary{}, fmt.Errorf("index: list tracked files: %w", err)
		}
		for _, relPath := range paths {
			if !matchesGlobs(relPath, globs) {
				continue
			}
			results = append(results, p.indexOneFile(ctx, relPath))
		}
	} else {
		changes, err := runner.DiffNameStatus(ctx, existing.GitCommit)
		if err != nil {
			return IncrementalSummary{}, fmt.Errorf("index: diff against %s: %w", existing.GitCommit, err)
		}
		for _, change := range changes {
			if !matchesGlobs(change.Path, globs) {
				continue
			}
			switch change.Status {
			case gitutil.ChangeAdded:
				results = append(results, p.indexOneFile(ctx, change.Path))
			case gitutil.ChangeModified:
				if _, err := p.Store.DeleteDocumentArtifacts(change.Path); err != nil {
					results = append(results, FileResult{Path: change.Path, Status: "error", Err: err})
					continue
				}
				results = append(results, p.indexOneFile(ctx, change.Path))
			case gitutil.ChangeDeleted:
				removed, err := p.Store.DeleteDocumentArtifacts(change.Path)
				if err != nil {
					results = append(results, FileResult{Path: change.Path, Status: "error", Err: err})
					continue
				}
				if removed {
					p.publish(event.DocumentDeleted{Path: change.Path})
				}
				results = append(results, FileResult{Path: change.Path, Status: "deleted"})
			}
		}
	}

	headCommit, err := runner.HeadCommit(ctx)
	if err != nil {
		return IncrementalSummary{}, fmt.Errorf("index: resolve HEAD: %w", err)
	}

	stats := domain.IndexStats{}
	for _, r := range results {
		if r.Status != "indexed" {
			continue
		}
		stats.NodeCount++
		stats.EdgeCount += r.Result.EdgeCount
		stats.EmbeddingCount += r.Result.EmbeddingCount
	}
	if allNodes, err := p.Store.ReadAllNodes(); err == nil {
		stats.NodeCount = len(allNodes)
	}
	if allEdges, err := p.Store.ReadAllEdges(); err == nil {
		stats.EdgeCount = len(allEdges)
	}
	if allEmbeddings, err := p.Store.ReadAllEmbeddings(); err == nil {
		stats.EmbeddingCount = len(allEmbeddings)
	}

	level := domain.IndexLevelL1
	if p.Embedding != nil {
		level = domain.IndexLevelL2
	}
	if p.Embedding != nil && p.Agent != nil {
		level = domain.IndexLevelL3
	}

	manifest := domain.IndexManifest{
		Version:    "1",
		KDDVersion: "1",
		IndexedAt:  time.Now(),
		IndexedBy:  "kdd-index",
		Structure:  domain.StructureSingleDomain,
		IndexLevel: level,
		Stats:      stats,
		GitCommit:  headCommit,
	}
	if domainTag != "" {
		manifest.Domains = []string{domainTag}
	}
	if p.Embedding != nil {
		manifest.EmbeddingModel = p.Embedding.ModelName()
		manifest.EmbeddingDimensions = p.Embedding.Dimensions()
	}

	if err := p.Store.WriteManifest(manifest); err != nil {
		return IncrementalSummary{}, fmt.Errorf("index: write manifest: %w", err)
	}

	if p.Metrics != nil {
		levelInt := map[domain.IndexLevel]int{domain.IndexLevelL1: 0, domain.IndexLevelL2: 1, domain.IndexLevelL3: 2}[level]
		p.Metrics.SetIndexLevel(p.Store.Root(), levelInt)
	}

	return IncrementalSummary{RunID: runID, Files: results, Manifest: manifest, FullReindex: fullReindex}, nil
}

func (p *Pipeline) indexOneFile(ctx context.Context, relPath string) FileResult {
	content, err := os.ReadFile(filepath.Join(p.RepoRoot, relPath))
	if err != nil {
		return FileResult{Path: relPath, Status: "error", Err: fmt.Errorf("index: read %s: %w", relPath, err)}
	}
	result, err := p.IndexDocument(ctx, relPath, content)
	if err != nil {
		return FileResult{Path: relPath, Status: "error", Err: err}
	}
	if result.Skipped {
		return FileResult{Path: relPath, Status: "skipped", Result: result}
	}
	return FileResult{Path: relPath, Status: "indexed", Result: result}
}
