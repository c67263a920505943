// Package toolchain checks external compilers and reads their manifests.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

const rustupHint = "see https://rustup.rs/"

var _ ports.ToolchainChecker = (*RustChecker)(nil)

// RustChecker checks the installed rustc version.
type RustChecker struct {
	executor ports.Executor
}

// NewRustChecker creates a RustChecker running rustc through executor.
func NewRustChecker(executor ports.Executor) *RustChecker {
	return &RustChecker{executor: executor}
}

// Check runs `rustc -V` and compares the reported version with minimum.
func (c *RustChecker) Check(ctx context.Context, minimum string) (string, error) {
	var out bytes.Buffer
	err := c.executor.Execute(ctx, domain.Command{Args: []string{"rustc", "-V"}, Quiet: true}, &out, nil)
	if err != nil {
		if errors.Is(err, domain.ErrToolchainMissing) {
			return "", zerr.With(zerr.With(
				zerr.Wrap(domain.ErrToolchainMissing, "please install rustc >= "+minimum+" to compile from source"),
				"required", minimum), "hint", rustupHint)
		}
		return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrToolchainMissing, err), "rustc -V failed"), "required", minimum)
	}

	found := parseRustcVersion(out.String())
	if found == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrToolchainMissing, "unrecognized rustc -V output"), "output", out.String())
	}

	if compareVersions(found, minimum) < 0 {
		return found, zerr.With(zerr.With(zerr.With(
			zerr.Wrap(domain.ErrToolchainTooOld, "please upgrade Rust to "+minimum+" to compile from source"),
			"required", minimum), "found", found), "hint", rustupHint)
	}
	return found, nil
}

// parseRustcVersion extracts the version from "rustc 1.42.0 (b8cedc004 2020-03-09)".
func parseRustcVersion(output string) string {
	fields := strings.Fields(output)
	if len(fields) < 2 || fields[0] != "rustc" {
		return ""
	}
	return fields[1]
}

// compareVersions orders dotted versions. Pre-release tags such as "-nightly"
// sort before the corresponding release.
func compareVersions(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
