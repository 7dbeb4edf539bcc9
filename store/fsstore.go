// Package store implements the filesystem ArtifactStore: the sole owner of
// an on-disk `.kdd-index/` directory, the CRUD surface over nodes, edges,
// embeddings and the manifest. Node, embedding and manifest writes and edge
// rewrites are atomic (write-to-temp, then rename); AppendEdges appends to
// edges.jsonl in place.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/kdd-engine/domain"
)

const (
	manifestFile = "manifest.json"
	nodesDir     = "nodes"
	edgesDir     = "edges"
	edgesFile    = "edges.jsonl"
	embeddingsDir = "embeddings"
)

// FSArtifactStore is the reference ArtifactStore adapter, rooted at a
// `.kdd-index/` directory.
type FSArtifactStore struct {
	root string
}

// Open returns an FSArtifactStore rooted at dir (the `.kdd-index/`
// directory itself, not its parent), creating it if absent.
func Open(dir string) (*FSArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create index root: %w", err)
	}
	return &FSArtifactStore{root: dir}, nil
}

// Root returns the store's `.kdd-index/` directory.
func (s *FSArtifactStore) Root() string { return s.root }

func (s *FSArtifactStore) manifestPath() string {
	return filepath.Join(s.root, manifestFile)
}

func (s *FSArtifactStore) nodePath(kind domain.KDDKind, docID string) string {
	return filepath.Join(s.root, nodesDir, string(kind), docID+".json")
}

func (s *FSArtifactStore) embeddingsPath(kind domain.KDDKind, docID string) string {
	return filepath.Join(s.root, embeddingsDir, string(kind), docID+".json")
}

func (s *FSArtifactStore) edgesPath() string {
	return filepath.Join(s.root, edgesDir, edgesFile)
}

// writeAtomic writes data to path via a temp file in the same directory
// followed by a rename, so readers never observe a partial write.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// ReadManifest returns the stored manifest, or (nil, nil) if none exists.
func (s *FSArtifactStore) ReadManifest() (*domain.IndexManifest, error) {
	data, err := os.ReadFile(s.manifestPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read manifest: %w", err)
	}
	var m domain.IndexManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("store: decode manifest: %w", err)
	}
	return &m, nil
}

// WriteManifest replaces the stored manifest atomically.
func (s *FSArtifactStore) WriteManifest(m domain.IndexManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode manifest: %w", err)
	}
	return writeAtomic(s.manifestPath(), data)
}

// WriteNode replaces the node file for (kind, docID), overwriting any prior
// version.
func (s *FSArtifactStore) WriteNode(node domain.GraphNode) error {
	kind, docID, err := splitNodeID(node.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode node %s: %w", node.ID, err)
	}
	return writeAtomic(s.nodePath(kind, docID), data)
}

// ReadNode reads one node by its full ID.
func (s *FSArtifactStore) ReadNode(nodeID string) (*domain.GraphNode, error) {
	kind, docID, err := splitNodeID(nodeID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.nodePath(kind, docID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read node %s: %w", nodeID, err)
	}
	var n domain.GraphNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("store: decode node %s: %w", nodeID, err)
	}
	return &n, nil
}

// ReadAllNodes walks nodes/{kind}/*.json and returns every stored node.
func (s *FSArtifactStore) ReadAllNodes() ([]domain.GraphNode, error) {
	root := filepath.Join(s.root, nodesDir)
	var nodes []domain.GraphNode
	err := walkJSONFiles(root, func(data []byte) error {
		var n domain.GraphNode
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		nodes = append(nodes, n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: read all nodes: %w", err)
	}
	return nodes, nil
}

// AppendEdges appends edges to the append-only edges.jsonl file.
func (s *FSArtifactStore) AppendEdges(edges []domain.GraphEdge) error {
	if len(edges) == 0 {
		return nil
	}
	path := s.edgesPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("store: open edges file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range edges {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("store: encode edge: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ReadAllEdges reads every edge from edges.jsonl.
func (s *FSArtifactStore) ReadAllEdges() ([]domain.GraphEdge, error) {
	f, err := os.Open(s.edgesPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: open edges file: %w", err)
	}
	defer f.Close()

	var edges []domain.GraphEdge
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e domain.GraphEdge
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("store: decode edge line: %w", err)
		}
		edges = append(edges, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}

// rewriteEdges replaces edges.jsonl wholesale (used only by cascade delete).
func (s *FSArtifactStore) rewriteEdges(edges []domain.GraphEdge) error {
	var buf []byte
	for _, e := range edges {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}
	return writeAtomic(s.edgesPath(), buf)
}

// WriteEmbeddings replaces the embeddings file for a document (full
// replace, not append).
func (s *FSArtifactStore) WriteEmbeddings(kind domain.KDDKind, docID string, embeddings []domain.Embedding) error {
	data, err := json.MarshalIndent(embeddings, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode embeddings for %s: %w", docID, err)
	}
	return writeAtomic(s.embeddingsPath(kind, docID), data)
}

// ReadAllEmbeddings walks embeddings/{kind}/*.json and returns every stored
// embedding across all documents.
func (s *FSArtifactStore) ReadAllEmbeddings() ([]domain.Embedding, error) {
	root := filepath.Join(s.root, embeddingsDir)
	var embeddings []domain.Embedding
	err := walkJSONFiles(root, func(data []byte) error {
		var batch []domain.Embedding
		if err := json.Unmarshal(data, &batch); err != nil {
			return err
		}
		embeddings = append(embeddings, batch...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: read all embeddings: %w", err)
	}
	return embeddings, nil
}

// DeleteDocumentArtifacts cascade-removes the node, every edge with either
// endpoint in that document, and the embeddings belonging to the document
// whose source is relPath. Reports whether a node was actually found and
// removed.
func (s *FSArtifactStore) DeleteDocumentArtifacts(relPath string) (bool, error) {
	nodes, err := s.ReadAllNodes()
	if err != nil {
		return false, err
	}

	var removedIDs []string
	for _, n := range nodes {
		if n.SourceFile != relPath {
			continue
		}
		removedIDs = append(removedIDs, n.ID)
		kind, docID, err := splitNodeID(n.ID)
		if err != nil {
			return false, err
		}
		if err := os.Remove(s.nodePath(kind, docID)); err != nil && !os.IsNotExist(err) {
			return false, fmt.Errorf("store: remove node %s: %w", n.ID, err)
		}
		if err := os.Remove(s.embeddingsPath(kind, docID)); err != nil && !os.IsNotExist(err) {
			return false, fmt.Errorf("store: remove embeddings for %s: %w", n.ID, err)
		}
	}
	if len(removedIDs) == 0 {
		return false, nil
	}

	removed := make(map[string]bool, len(removedIDs))
	for _, id := range removedIDs {
		removed[id] = true
	}

	edges, err := s.ReadAllEdges()
	if err != nil {
		return false, err
	}
	kept := edges[:0:0]
	for _, e := range edges {
		if removed[e.FromNode] || removed[e.ToNode] {
			continue
		}
		kept = append(kept, e)
	}
	if err := s.rewriteEdges(kept); err != nil {
		return false, fmt.Errorf("store: rewrite edges after delete: %w", err)
	}

	return true, nil
}

func splitNodeID(nodeID string) (domain.KDDKind, string, error) {
	idx := indexByte(nodeID, ':')
	if idx < 0 {
		return "", "", fmt.Errorf("store: malformed node id %q", nodeID)
	}
	prefix := nodeID[:idx]
	docID := nodeID[idx+1:]
	kind, ok := domain.KindForPrefix(prefix)
	if !ok {
		return "", "", fmt.Errorf("store: unknown node-id prefix %q", prefix)
	}
	return kind, docID, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func walkJSONFiles(root string, fn func(data []byte) error) error {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			if err := walkJSONFiles(path, fn); err != nil {
				return err
			}
			continue
		}
		if filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := fn(data); err != nil {
			return err
		}
	}
	return nil
}
