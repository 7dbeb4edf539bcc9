package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360studio/kdd-engine/domain"
)

const (
	maxEnrichmentEdges   = 20
	maxEnrichmentContent = 5000
)

// EnrichResult is the outcome of a successful EnrichWithAgent call.
type EnrichResult struct {
	NodeID            string
	Summary           string
	ImplicitRelations int
}

// EnrichWithAgent runs the L3 enrichment operation: it reads a node and its
// source file, builds a context string from node identity, truncated
// document content and existing relations, calls the agent client, and
// persists the returned summary as node metadata plus the implicit
// relations as edges with extraction_method "implicit".
func (p *Pipeline) EnrichWithAgent(ctx context.Context, nodeID string) (EnrichResult, error) {
	if p.Agent == nil {
		return EnrichResult{}, fmt.Errorf("index: no agent client configured")
	}

	node, err := p.Store.ReadNode(nodeID)
	if err != nil {
		return EnrichResult{}, fmt.Errorf("index: read node %s: %w", nodeID, err)
	}
	if node == nil {
		return EnrichResult{}, fmt.Errorf("index: node %s not found", nodeID)
	}

	var sourceContent []byte
	if node.SourceFile != "" {
		sourceContent, err = os.ReadFile(filepath.Join(p.RepoRoot, node.SourceFile))
		if err != nil {
			return EnrichResult{}, fmt.Errorf("index: read source %s: %w", node.SourceFile, err)
		}
	}
	truncated := string(sourceContent)
	if len(truncated) > maxEnrichmentContent {
		truncated = truncated[:maxEnrichmentContent]
	}

	allEdges, err := p.Store.ReadAllEdges()
	if err != nil {
		return EnrichResult{}, fmt.Errorf("index: read edges: %w", err)
	}
	var related []domain.GraphEdge
	for _, e := range allEdges {
		if e.FromNode == nodeID || e.ToNode == nodeID {
			related = append(related, e)
			if len(related) == maxEnrichmentEdges {
				break
			}
		}
	}

	enrichContext := buildEnrichmentContext(*node, truncated, related)

	enrichment, err := p.Agent.Enrich(ctx, nodeID, enrichContext)
	if err != nil {
		return EnrichResult{}, fmt.Errorf("index: agent enrich %s: %w", nodeID, err)
	}

	if node.IndexedFields == nil {
		node.IndexedFields = map[string]any{}
	}
	node.IndexedFields["agent_summary"] = enrichment.Summary
	node.IndexedAt = time.Now()
	if err := p.Store.WriteNode(*node); err != nil {
		return EnrichResult{}, fmt.Errorf("index: persist enrichment for %s: %w", nodeID, err)
	}

	if len(enrichment.ImplicitRelations) > 0 {
		implicitEdges := make([]domain.GraphEdge, 0, len(enrichment.ImplicitRelations))
		for _, rel := range enrichment.ImplicitRelations {
			implicitEdges = append(implicitEdges, domain.GraphEdge{
				FromNode:         nodeID,
				ToNode:           rel.Target,
				EdgeType:         domain.EdgeType(rel.EdgeType),
				SourceFile:       node.SourceFile,
				ExtractionMethod: domain.ExtractionImplicit,
			})
		}
		if err := p.Store.AppendEdges(implicitEdges); err != nil {
			return EnrichResult{}, fmt.Errorf("index: append implicit edges for %s: %w", nodeID, err)
		}
	}

	return EnrichResult{
		NodeID:            nodeID,
		Summary:           enrichment.Summary,
		ImplicitRelations: len(enrichment.ImplicitRelations),
	}, nil
}

func buildEnrichmentContext(node domain.GraphNode, content string, related []domain.GraphEdge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Node: %s\n", node.ID)
	fmt.Fprintf(&b, "Kind: %s\n", node.Kind)
	fmt.Fprintf(&b, "Layer: %s\n\n", node.Layer)
	b.WriteString("Existing relations:\n")
	for _, e := range related {
		fmt.Fprintf(&b, "- %s -[%s]-> %s\n", e.FromNode, e.EdgeType, e.ToNode)
	}
	b.WriteString("\nDocument content:\n")
	b.WriteString(content)
	return b.String()
}
