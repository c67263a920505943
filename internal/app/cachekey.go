package app

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// CacheKey returns "<grammar fingerprint>-<engine revision>". The key changes
// exactly when a grammar source or the pinned engine revision changes.
func (a *App) CacheKey(ctx context.Context) (string, error) {
	p, err := a.load()
	if err != nil {
		return "", err
	}

	ext := p.Grammars.FingerprintExt
	dirs := p.Grammars.SourceDirs()
	sources := make([]domain.FingerprintSource, len(dirs))
	for i, dir := range dirs {
		sources[i] = domain.FingerprintSource{Dir: p.Layout.Resolve(dir), Ext: ext}
	}

	fp, err := a.hasher.Fingerprint(ctx, sources)
	if err != nil {
		return "", zerr.Wrap(err, "failed to fingerprint grammar sources")
	}
	if fp.Empty() {
		return "", zerr.With(zerr.Wrap(domain.ErrEmptyFingerprint, "grammar sources matched no files"), "ext", ext)
	}

	stamp, err := a.state.Current(ctx, p.Target(domain.BuildMode{}))
	if err != nil {
		return "", zerr.Wrap(err, "failed to read engine revision")
	}

	return domain.CacheKey(fp, stamp.Revision), nil
}
