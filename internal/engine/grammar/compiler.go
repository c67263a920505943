// Package grammar compiles grammar specs into parse-table artifacts.
package grammar

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
)

// Placeholders substituted in the compiler argv template.
const (
	SpecPlaceholder   = "{spec}"
	OutputPlaceholder = "{output}"
)

// Compiler regenerates every grammar artifact on each run.
type Compiler struct {
	runner    *pipeline.Runner
	installer ports.ArtifactInstaller
	logger    ports.Logger
}

// NewCompiler creates a Compiler.
func NewCompiler(runner *pipeline.Runner, installer ports.ArtifactInstaller, logger ports.Logger) *Compiler {
	return &Compiler{
		runner:    runner,
		installer: installer,
		logger:    logger,
	}
}

// Compile builds one artifact per spec under outputRoot, mirroring each spec's
// location relative to root. With mirror set every artifact is also copied to
// the matching path inside the source tree. It returns the artifact paths in
// spec order.
func (c *Compiler) Compile(
	ctx context.Context,
	root string,
	set domain.GrammarSet,
	outputRoot string,
	mirror bool,
) ([]string, error) {
	p := domain.NewPipeline("grammars")
	artifacts := make([]string, 0, len(set.Specs))

	for _, spec := range set.Specs {
		cache := spec.CachePath(outputRoot)
		if err := os.MkdirAll(filepath.Dir(cache), domain.DirPerm); err != nil {
			return nil, domain.WrapIO(err, "failed to create grammar output directory", filepath.Dir(cache))
		}

		p.Add(domain.Step{
			Name: spec.Name,
			Command: domain.Command{
				Args: Expand(set.Compiler, spec.Name, cache),
				Dir:  root,
			},
		})
		artifacts = append(artifacts, cache)
	}

	if err := c.runner.Run(ctx, p); err != nil {
		return nil, err
	}

	if mirror {
		for i, spec := range set.Specs {
			dst := spec.MirrorPath(root)
			if err := c.installer.Replace(artifacts[i], dst); err != nil {
				return nil, err
			}
			c.logger.Info("mirrored " + spec.RelativeArtifactPath())
		}
	}

	return artifacts, nil
}

// Expand substitutes the spec name and output path into the argv template.
func Expand(template []string, spec, output string) []string {
	r := strings.NewReplacer(SpecPlaceholder, spec, OutputPlaceholder, output)
	args := make([]string, len(template))
	for i, a := range template {
		args[i] = r.Replace(a)
	}
	return args
}
