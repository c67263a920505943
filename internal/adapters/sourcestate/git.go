// Package sourcestate computes the stamps of tracked source trees.
package sourcestate

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const submoduleHint = "run `git submodule init; git submodule update`"

// Git derives stamps from `git submodule status`.
type Git struct {
	executor ports.Executor
}

// NewGit creates a Git state provider running git through executor.
func NewGit(executor ports.Executor) *Git {
	return &Git{executor: executor}
}

// Current returns the status character and checked-out revision of the target's submodule.
func (g *Git) Current(ctx context.Context, target domain.BuildTarget) (domain.SourceStamp, error) {
	rel, err := filepath.Rel(target.Root, target.SourceDir)
	if err != nil {
		rel = target.SourceDir
	}

	var out bytes.Buffer
	cmd := domain.Command{
		Args:  []string{"git", "submodule", "status", filepath.ToSlash(rel)},
		Dir:   target.Root,
		Quiet: true,
	}
	if err := g.executor.Execute(ctx, cmd, &out, nil); err != nil {
		return domain.SourceStamp{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrSourceStateUnavailable, err), "git submodule status failed"),
			"source", target.SourceDir)
	}

	stamp, err := parseSubmoduleStatus(out.String())
	if err != nil {
		return domain.SourceStamp{}, zerr.With(err, "source", target.SourceDir)
	}

	if stamp.Status == domain.StatusUninitialized {
		return domain.SourceStamp{}, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrSourceStateUnavailable, target.Name+" submodule not initialized"),
			"source", target.SourceDir), "hint", submoduleHint)
	}
	return stamp, nil
}

// parseSubmoduleStatus parses the first line of `git submodule status`:
// a status character, the revision, then the path and an optional describe suffix.
func parseSubmoduleStatus(output string) (domain.SourceStamp, error) {
	line, _, _ := strings.Cut(output, "\n")
	if len(line) < 2 {
		return domain.SourceStamp{}, zerr.With(
			zerr.Wrap(domain.ErrSourceStateUnavailable, "unexpected git submodule status output"), "output", output)
	}
	revision, _, _ := strings.Cut(line[1:], " ")
	if revision == "" {
		return domain.SourceStamp{}, zerr.With(
			zerr.Wrap(domain.ErrSourceStateUnavailable, "git submodule status reported no revision"), "output", output)
	}
	return domain.NewSourceStamp(domain.SourceStatus(line[0]), revision), nil
}
