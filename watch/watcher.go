// Package watch provides fsnotify-based watch mode: it detects document
// file changes under a repository root, debounces bursts of edits, and
// drives the index pipeline's single-document operations directly (rather
// than the full git-diff incremental pass), so a long-running `kddindex
// watch` process stays current between commits.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/kdd-engine/config"
)

const eventChannelBuffer = 500

// Operation indicates the type of file change a watch cycle observed.
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event is one debounced document change.
type Event struct {
	// RelPath is the path relative to the watched root.
	RelPath string
	// AbsPath is the absolute file path.
	AbsPath string
	Op      Operation
}

// Watcher watches a repository root for document changes and emits
// debounced Events, one per changed file per debounce window.
type Watcher struct {
	cfg        config.WatchConfig
	root       string
	fsw        *fsnotify.Watcher
	logger     *slog.Logger
	extensions map[string]bool
	excludes   map[string]bool

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	events chan Event

	dropped atomic.Int64
}

// New creates a Watcher rooted at root, using the extensions/exclude-dirs
// named in cfg (falling back to cfg's own defaults when empty).
func New(cfg config.WatchConfig, root string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	extensions := make(map[string]bool)
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{".md"}
	}
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = true
	}

	excludes := make(map[string]bool)
	dirs := cfg.ExcludeDirs
	if len(dirs) == 0 {
		dirs = []string{".git", "node_modules", "vendor"}
	}
	for _, dir := range dirs {
		excludes[dir] = true
	}

	return &Watcher{
		cfg:        cfg,
		root:       root,
		fsw:        fsw,
		logger:     logger,
		extensions: extensions,
		excludes:   excludes,
		pending:    make(map[string]fsnotify.Op),
		events:     make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of debounced file-change events. It is closed
// once the watcher's context is cancelled.
func (w *Watcher) Events() <-chan Event { return w.events }

// DroppedEvents returns the number of events dropped because Events() was
// not being drained fast enough.
func (w *Watcher) DroppedEvents() int64 { return w.dropped.Load() }

// Start begins watching w.root (and every subdirectory) and spawns the
// debounce loop. It returns once the initial recursive watch is installed.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.root); err != nil {
		return err
	}
	go w.loop(ctx)
	w.logger.Info("watch started", "root", w.root, "debounce", w.cfg.GetDebounceDelay())
	return nil
}

// Stop closes the underlying fsnotify watcher.
func (w *Watcher) Stop() error { return w.fsw.Close() }

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if w.excludes[base] || (strings.HasPrefix(base, ".") && base != ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watch: failed to add directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.cfg.GetDebounceDelay())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	path := ev.Name
	ext := strings.ToLower(filepath.Ext(path))
	if !w.extensions[ext] {
		if ev.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.watchNewDirectory(path)
			}
		}
		return
	}

	relPath, _ := filepath.Rel(w.root, path)
	for excludeDir := range w.excludes {
		if strings.Contains(relPath, excludeDir+string(filepath.Separator)) {
			return
		}
	}

	w.pendingMu.Lock()
	// Keep a Create seen earlier in the window so a new file followed by its
	// first write is still reported as a create.
	w.pending[path] = ev.Op | (w.pending[path] & fsnotify.Create)
	w.pendingMu.Unlock()
}

func (w *Watcher) watchNewDirectory(path string) {
	base := filepath.Base(path)
	if w.excludes[base] || strings.HasPrefix(base, ".") {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch: failed to add new directory", "path", path, "error", err)
	}
}

func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		relPath, _ := filepath.Rel(w.root, path)
		event := Event{RelPath: relPath, AbsPath: path}

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			event.Op = OpDelete
			w.send(event)
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			event.Op = OpDelete
			w.send(event)
			continue
		}
		if op.Has(fsnotify.Create) {
			event.Op = OpCreate
		} else {
			event.Op = OpModify
		}
		w.send(event)
	}
}

func (w *Watcher) send(event Event) {
	select {
	case w.events <- event:
	default:
		dropped := w.dropped.Add(1)
		w.logger.Warn("watch: event channel full, dropping event", "path", event.RelPath, "total_dropped", dropped)
	}
}
