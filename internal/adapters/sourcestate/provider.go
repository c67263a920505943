package sourcestate

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceStateProvider = (*Provider)(nil)

// Provider dispatches to the strategy named by the target.
type Provider struct {
	git         *Git
	fingerprint *Fingerprint
}

// NewProvider creates a Provider.
func NewProvider(executor ports.Executor, fingerprinter ports.Fingerprinter) *Provider {
	return &Provider{
		git:         NewGit(executor),
		fingerprint: NewFingerprint(fingerprinter),
	}
}

// Current implements ports.SourceStateProvider.
func (p *Provider) Current(ctx context.Context, target domain.BuildTarget) (domain.SourceStamp, error) {
	switch target.State {
	case "", domain.StateGit:
		return p.git.Current(ctx, target)
	case domain.StateFingerprint:
		return p.fingerprint.Current(ctx, target)
	default:
		return domain.SourceStamp{}, zerr.With(
			zerr.Wrap(domain.ErrSourceStateUnavailable, "unknown source state strategy"), "state", target.State)
	}
}
