package domain

import (
	"path/filepath"
	"strings"
)

// GrammarArtifactExt is the extension of a compiled parse-table artifact.
const GrammarArtifactExt = ".pickle"

// GrammarSpec is a named grammar definition compiled into one parse-table artifact.
type GrammarSpec struct {
	// Name is the dotted spec name, e.g. "edb.edgeql.parser.grammar.single".
	Name string
	// SourceDir is the directory holding the spec, relative to the project root.
	SourceDir string
}

// ArtifactName is the file name of the compiled artifact, derived from the last name segment.
func (g GrammarSpec) ArtifactName() string {
	name := g.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name + GrammarArtifactExt
}

// RelativeArtifactPath mirrors the spec's source location relative to the project root.
func (g GrammarSpec) RelativeArtifactPath() string {
	return filepath.Join(filepath.Clean(g.SourceDir), g.ArtifactName())
}

// CachePath returns the artifact location under the given output tree.
func (g GrammarSpec) CachePath(outputRoot string) string {
	return filepath.Join(outputRoot, g.RelativeArtifactPath())
}

// MirrorPath returns the artifact location inside the source tree.
func (g GrammarSpec) MirrorPath(root string) string {
	return filepath.Join(root, g.RelativeArtifactPath())
}
