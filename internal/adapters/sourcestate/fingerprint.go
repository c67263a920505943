package sourcestate

import (
	"context"
	"errors"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Fingerprint derives stamps from a content digest of the source tree.
// It serves checkouts that are not git submodules, such as unpacked release tarballs.
type Fingerprint struct {
	fingerprinter ports.Fingerprinter
}

// NewFingerprint creates a Fingerprint state provider.
func NewFingerprint(fingerprinter ports.Fingerprinter) *Fingerprint {
	return &Fingerprint{fingerprinter: fingerprinter}
}

// Current returns a clean stamp whose revision is the hex digest of the source tree.
func (f *Fingerprint) Current(ctx context.Context, target domain.BuildTarget) (domain.SourceStamp, error) {
	sources := make([]domain.FingerprintSource, 0, max(len(target.StateExtensions), 1))
	for _, ext := range target.StateExtensions {
		sources = append(sources, domain.FingerprintSource{Dir: target.SourceDir, Ext: ext})
	}
	if len(sources) == 0 {
		sources = append(sources, domain.FingerprintSource{Dir: target.SourceDir})
	}

	fp, err := f.fingerprinter.Fingerprint(ctx, sources)
	if err != nil {
		return domain.SourceStamp{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrSourceStateUnavailable, err), "fingerprint source tree"),
			"source", target.SourceDir)
	}
	if fp.Empty() {
		return domain.SourceStamp{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrSourceStateUnavailable, domain.ErrEmptyFingerprint), "fingerprint source tree"),
			"source", target.SourceDir)
	}
	return domain.NewSourceStamp(domain.StatusClean, fp.Hex()), nil
}
