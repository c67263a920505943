package domain

import (
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Version stages.
const (
	StageDev   = "dev"
	StageAlpha = "alpha"
	StageBeta  = "beta"
	StageRC    = "rc"
	StageFinal = "final"
)

var stageCodes = map[string]int{
	StageDev:   0,
	StageAlpha: 10,
	StageBeta:  20,
	StageRC:    30,
	StageFinal: 40,
}

// StageCode returns the ordinal of a stage as exposed in the version tuple.
func StageCode(stage string) int {
	if code, ok := stageCodes[stage]; ok {
		return code
	}
	return stageCodes[StageFinal]
}

var versionPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)(?:[.-]?(dev|a|alpha|b|beta|rc)\.?(\d+))?$`)

// Version is the structured project version exposed to the running server.
type Version struct {
	Major   int
	Minor   int
	Stage   string
	StageNo int
	Local   []string
}

// ParseVersion parses "MAJOR.MINOR[STAGE N]" and attaches the dot-separated local suffix.
func ParseVersion(s, suffix string) (Version, error) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, zerr.With(zerr.Wrap(ErrInvalidVersion, "unrecognized version format"), "version", s)
	}

	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	v := Version{Major: major, Minor: minor, Stage: StageFinal}

	switch m[3] {
	case "":
	case "a", StageAlpha:
		v.Stage = StageAlpha
	case "b", StageBeta:
		v.Stage = StageBeta
	default:
		v.Stage = m[3]
	}
	if m[4] != "" {
		v.StageNo, _ = strconv.Atoi(m[4])
	}

	if suffix != "" {
		v.Local = strings.Split(suffix, ".")
	}
	return v, nil
}

// BuildMeta is the content of the generated config module read by the server at startup.
type BuildMeta struct {
	ToolPath   string
	RuntimeDir string
	SharedDir  string
	Version    Version
}
