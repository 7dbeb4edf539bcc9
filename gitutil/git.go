// Package gitutil wraps the three git subprocess invocations the
// incremental indexing pipeline needs (exec.CommandContext + CombinedOutput).
package gitutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner invokes git against a fixed repository root.
type Runner struct {
	repoRoot string
}

// NewRunner returns a Runner rooted at repoRoot.
func NewRunner(repoRoot string) *Runner {
	return &Runner{repoRoot: repoRoot}
}

func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("gitutil: git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// HeadCommit returns the current HEAD commit hash, or "" if there is no
// commit yet (fresh repository).
func (r *Runner) HeadCommit(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		if strings.Contains(err.Error(), "unknown revision") || strings.Contains(err.Error(), "ambiguous argument") {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// LsFiles returns every tracked path, repo-relative with forward slashes.
func (r *Runner) LsFiles(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, "ls-files")
	if err != nil {
		return nil, err
	}
	return splitNonEmptyLines(out), nil
}

// ChangeStatus is the classification of a changed file between two commits.
type ChangeStatus string

const (
	ChangeAdded    ChangeStatus = "A"
	ChangeModified ChangeStatus = "M"
	ChangeDeleted  ChangeStatus = "D"
)

// Change is one line of `git diff --name-status` output, with renames (R)
// normalized to Modified per the git interface contract.
type Change struct {
	Status ChangeStatus
	Path   string
}

// DiffNameStatus returns the changed files between fromCommit and HEAD.
func (r *Runner) DiffNameStatus(ctx context.Context, fromCommit string) ([]Change, error) {
	out, err := r.run(ctx, "diff", "--name-status", fromCommit, "HEAD")
	if err != nil {
		return nil, err
	}
	var changes []Change
	for _, line := range splitNonEmptyLines(out) {
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			continue
		}
		status := fields[0]
		path := fields[1]
		// Renames carry a numeric similarity suffix (e.g. "R100") and a
		// "old\tnew" path pair; the new path is what matters, treated as M.
		if strings.HasPrefix(status, "R") {
			if parts := strings.Split(path, "\t"); len(parts) == 2 {
				path = parts[1]
			}
			changes = append(changes, Change{Status: ChangeModified, Path: path})
			continue
		}
		switch {
		case strings.HasPrefix(status, "A"):
			changes = append(changes, Change{Status: ChangeAdded, Path: path})
		case strings.HasPrefix(status, "M"):
			changes = append(changes, Change{Status: ChangeModified, Path: path})
		case strings.HasPrefix(status, "D"):
			changes = append(changes, Change{Status: ChangeDeleted, Path: path})
		}
	}
	return changes, nil
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
