package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All also removes what develop placed in the source tree.
	All bool
}

// Clean removes build output based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	p, err := a.load()
	if err != nil {
		return err
	}

	var errs error

	remove := func(path string, name string) {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return
		}
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(domain.WrapIO(err, "remove failed", path), fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	layout := p.Layout
	remove(layout.Base, "build directory")
	if !within(layout.Base, layout.Lib) {
		remove(layout.Lib, "library directory")
	}
	if !within(layout.Base, layout.Temp) {
		remove(layout.Temp, "temporary directory")
	}

	if options.All {
		var artifacts []string
		for _, spec := range p.Grammars.Specs {
			artifacts = append(artifacts, spec.MirrorPath(layout.Root))
		}
		for _, u := range p.Extensions.Units {
			artifacts = append(artifacts, u.OutputPath(layout.Root, p.Extensions.Suffix))
		}
		if p.CLI.Dest != "" {
			artifacts = append(artifacts, layout.Resolve(p.CLI.Dest))
		}
		for _, path := range artifacts {
			if err := a.installer.Unlink(path); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		a.logger.Info(fmt.Sprintf("removed in-place artifacts (%d candidates)", len(artifacts)))
	}

	return errs
}

func within(base, path string) bool {
	r, err := filepath.Rel(base, path)
	return err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator))
}
