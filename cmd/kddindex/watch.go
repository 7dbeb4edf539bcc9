package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/c360studio/kdd-engine/container"
	"github.com/c360studio/kdd-engine/watch"
)

func newWatchCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the repository for document changes and index them as they happen",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			engine, err := container.New(cfg, prometheus.DefaultRegisterer)
			if err != nil {
				return fmt.Errorf("wire engine: %w", err)
			}

			if _, err := engine.Pipeline.IndexIncremental(cmd.Context(), nil, ""); err != nil {
				return fmt.Errorf("initial index: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
			w, err := watch.New(cfg.Watch, cfg.Index.RepoPath, logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := w.Start(cmd.Context()); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer w.Stop()

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-w.Events():
					if !ok {
						return nil
					}
					handleWatchEvent(cmd, engine, event)
				}
			}
		},
	}
	return cmd
}

func handleWatchEvent(cmd *cobra.Command, engine *container.Engine, event watch.Event) {
	ctx := cmd.Context()
	if event.Op == watch.OpDelete {
		if _, err := engine.Store.DeleteDocumentArtifacts(event.RelPath); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "delete %s: %v\n", event.RelPath, err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted    %s\n", event.RelPath)
		return
	}

	content, err := os.ReadFile(event.AbsPath)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "read %s: %v\n", event.RelPath, err)
		return
	}
	if event.Op == watch.OpModify {
		if _, err := engine.Store.DeleteDocumentArtifacts(event.RelPath); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "delete prior %s: %v\n", event.RelPath, err)
			return
		}
	}
	result, err := engine.Pipeline.IndexDocument(ctx, event.RelPath, content)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "index %s: %v\n", event.RelPath, err)
		return
	}
	if result.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "skipped    %s (%s)\n", event.RelPath, result.SkipReason)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed    %s -> %s\n", event.RelPath, result.NodeID)
}
