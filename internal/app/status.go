package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Status states.
const (
	StateUpToDate = "up to date"
	StateStale    = "stale"
	StateNotBuilt = "not built"
	StateUnknown  = "unknown"
	StateBuilt    = "built"
	StateMissing  = "missing"
)

// Status renders a table of every sub-build and whether its output is current.
func (a *App) Status(ctx context.Context, w io.Writer) error {
	p, err := a.load()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Component", "Name", "State", "Detail"})

	engineState, detail, err := a.engineStatus(ctx, p)
	if err != nil {
		return err
	}
	t.AppendRow(table.Row{"engine", p.Engine.Name, engineState, detail})

	root := p.Layout.Root
	for _, spec := range p.Grammars.Specs {
		state, err := a.outputState(root, spec.CachePath(p.Layout.Lib))
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{"grammar", spec.Name, state, spec.RelativeArtifactPath()})
	}

	for _, u := range p.Extensions.Units {
		out := u.OutputPath(p.Layout.Lib, p.Extensions.Suffix)
		state, err := a.outputState(root, out)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{"extension (" + string(u.Toolchain) + ")", u.Module, state, rel(root, out)})
	}

	t.Render()
	return nil
}

func (a *App) engineStatus(ctx context.Context, p *domain.Project) (state, detail string, err error) {
	target := p.Target(domain.BuildMode{})

	stored, found, err := a.stamps.Read(target)
	unreadable := errors.Is(err, domain.ErrInvalidStamp)
	if err != nil && !unreadable {
		return "", "", zerr.Wrap(err, "failed to read engine stamp")
	}

	current, err := a.state.Current(ctx, target)
	if err != nil {
		if msg, ok := err.(interface{ Message() string }); ok {
			return StateUnknown, msg.Message(), nil
		}
		return StateUnknown, err.Error(), nil
	}

	switch {
	case unreadable:
		return StateStale, fmt.Sprintf("unreadable stamp, current %q", current.String()), nil
	case !found:
		return StateNotBuilt, fmt.Sprintf("current %q", current.String()), nil
	case stored.Equal(current):
		return StateUpToDate, fmt.Sprintf("stamp %q", stored.String()), nil
	default:
		return StateStale, fmt.Sprintf("stored %q, current %q", stored.String(), current.String()), nil
	}
}

func (a *App) outputState(root, path string) (string, error) {
	ok, err := a.verifier.VerifyOutputs(root, []string{path})
	if err != nil {
		return "", err
	}
	if ok {
		return StateBuilt, nil
	}
	return StateMissing, nil
}

func rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return r
	}
	return path
}
