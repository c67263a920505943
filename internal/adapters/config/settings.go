package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// EnvPrefix is the prefix of environment variables read into the settings.
const EnvPrefix = "KILN_"

// Settings are the run-time switches of one invocation.
type Settings struct {
	// Project is the project root.
	Project string `koanf:"project"`
	// Manifest is the manifest path, relative to the project root.
	Manifest string `koanf:"manifest"`
	// Debug builds extensions unoptimized with tracing enabled.
	Debug bool `koanf:"debug"`
	// JSON switches the logger to JSON records.
	JSON bool `koanf:"json"`
	// Jobs overrides the make parallelism; 0 derives it from the host.
	Jobs int `koanf:"jobs"`
	// Verbose streams the output of every external tool.
	Verbose bool `koanf:"verbose"`
}

// LoadSettings layers, from lowest to highest precedence: built-in defaults,
// <dir>/.kiln.yaml, KILN_* environment variables and explicitly set flags.
func LoadSettings(dir string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"project":  dir,
		"manifest": domain.ManifestFileName,
		"debug":    false,
		"json":     false,
		"jobs":     0,
		"verbose":  false,
	}, "."), nil); err != nil {
		return nil, settingsErr(err, "load defaults")
	}

	settingsFile := filepath.Join(dir, domain.SettingsFileName)
	if _, err := os.Stat(settingsFile); err == nil {
		if err := k.Load(file.Provider(settingsFile), yaml.Parser()); err != nil {
			return nil, zerr.With(settingsErr(err, "read settings file"), "path", settingsFile)
		}
	}

	// KILN_DEBUG -> debug
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, settingsErr(err, "load environment")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, settingsErr(err, "load flags")
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, settingsErr(err, "decode settings")
	}

	if s.Jobs < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrSettingsLoadFailed, "jobs must not be negative"), "jobs", s.Jobs)
	}
	return &s, nil
}

func settingsErr(err error, msg string) error {
	return zerr.Wrap(errors.Join(domain.ErrSettingsLoadFailed, err), msg)
}
