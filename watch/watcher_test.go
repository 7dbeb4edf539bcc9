package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c360studio/kdd-engine/config"
	"github.com/c360studio/kdd-engine/watch"
)

func TestNewWatcherAcceptsExtensionsAndExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.WatchConfig{
		Enabled:       true,
		DebounceDelay: "100ms",
		Extensions:    []string{".md", ".txt"},
		ExcludeDirs:   []string{".git"},
	}

	w, err := watch.New(cfg, tmpDir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Stop()
}

func TestWatcherFileCreation(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.WatchConfig{DebounceDelay: "50ms", Extensions: []string{".md"}, ExcludeDirs: []string{".git"}}

	w, err := watch.New(cfg, tmpDir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(tmpDir, "test.md")
	if err := os.WriteFile(testFile, []byte("# Test\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Op != watch.OpCreate {
			t.Errorf("expected create op, got %s", event.Op)
		}
		if event.RelPath != "test.md" {
			t.Errorf("expected path test.md, got %s", event.RelPath)
		}
	case <-time.After(1 * time.Second):
		t.Error("timeout waiting for create event")
	}
}

func TestWatcherFileDeletion(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")
	if err := os.WriteFile(testFile, []byte("# Test\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg := config.WatchConfig{DebounceDelay: "50ms", Extensions: []string{".md"}, ExcludeDirs: []string{".git"}}
	w, err := watch.New(cfg, tmpDir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(testFile); err != nil {
		t.Fatalf("failed to remove test file: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Op != watch.OpDelete {
			t.Errorf("expected delete op, got %s", event.Op)
		}
	case <-time.After(1 * time.Second):
		t.Error("timeout waiting for delete event")
	}
}

func TestWatcherIgnoresNonWatchedExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.WatchConfig{DebounceDelay: "50ms", Extensions: []string{".md"}, ExcludeDirs: []string{".git"}}
	w, err := watch.New(cfg, tmpDir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(tmpDir, "test.go")
	if err := os.WriteFile(testFile, []byte("package main"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	select {
	case event := <-w.Events():
		t.Errorf("unexpected event for non-watched extension: %+v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherIgnoresExcludedDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	excludedDir := filepath.Join(tmpDir, ".git")
	if err := os.MkdirAll(excludedDir, 0755); err != nil {
		t.Fatalf("failed to create excluded dir: %v", err)
	}

	cfg := config.WatchConfig{DebounceDelay: "50ms", Extensions: []string{".md"}, ExcludeDirs: []string{".git"}}
	w, err := watch.New(cfg, tmpDir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(excludedDir, "test.md")
	if err := os.WriteFile(testFile, []byte("# Excluded"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	select {
	case event := <-w.Events():
		t.Errorf("unexpected event for file in excluded directory: %+v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherDroppedEventsStartsAtZero(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := watch.New(config.WatchConfig{}, tmpDir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Stop()

	if w.DroppedEvents() != 0 {
		t.Errorf("expected 0 dropped events, got %d", w.DroppedEvents())
	}
}
