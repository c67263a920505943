package config

import (
	"runtime"
	"slices"
	"strings"
)

// Manifest is the on-disk form of kiln.yaml.
type Manifest struct {
	Build      BuildSection     `yaml:"build"`
	Engine     EngineSection    `yaml:"engine"`
	Grammars   GrammarSection   `yaml:"grammars"`
	Extensions ExtensionSection `yaml:"extensions"`
	Toolchain  ToolchainSection `yaml:"toolchain"`
	CLI        CLISection       `yaml:"cli"`
	Meta       MetaSection      `yaml:"meta"`
}

// BuildSection holds the output directories.
type BuildSection struct {
	Base string `yaml:"base"`
	Lib  string `yaml:"lib"`
	Temp string `yaml:"temp"`
}

// EngineSection describes the embedded engine.
type EngineSection struct {
	Name       string   `yaml:"name"`
	Source     string   `yaml:"source"`
	State      string   `yaml:"state"`
	Extensions []string `yaml:"extensions"`
}

// GrammarSection describes the grammar specs.
type GrammarSection struct {
	Compiler       []string     `yaml:"compiler"`
	FingerprintExt string       `yaml:"fingerprint_ext"`
	Specs          []GrammarDTO `yaml:"specs"`
}

// GrammarDTO is one grammar spec.
type GrammarDTO struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// ExtensionSection describes the native extensions.
type ExtensionSection struct {
	Suffix          string    `yaml:"suffix"`
	Transpiler      []string  `yaml:"transpiler"`
	TranspilerDebug []string  `yaml:"transpiler_debug"`
	CFlags          []string  `yaml:"cflags"`
	LDFlags         []string  `yaml:"ldflags"`
	Include         []string  `yaml:"include"`
	Rust            []RustDTO `yaml:"rust"`
	C               []CDTO    `yaml:"c"`
}

// RustDTO is one cargo-built extension.
type RustDTO struct {
	Module   string `yaml:"module"`
	Manifest string `yaml:"manifest"`
}

// CDTO is one C-compiled extension.
type CDTO struct {
	Module  string   `yaml:"module"`
	Sources []string `yaml:"sources"`
}

// ToolchainSection holds toolchain requirements.
type ToolchainSection struct {
	RustMin string `yaml:"rust_min"`
	CC      string `yaml:"cc"`
}

// CLISection describes the development CLI.
type CLISection struct {
	Repo     string   `yaml:"repo"`
	Bin      string   `yaml:"bin"`
	Features []string `yaml:"features"`
	Dest     string   `yaml:"dest"`
}

// MetaSection describes the generated config module.
type MetaSection struct {
	Output  string `yaml:"output"`
	Version string `yaml:"version"`
}

const grammarDir = "edb/edgeql/parser/grammar"

// defaultCompiler builds one parse table per invocation with the grammar's own tooling.
var defaultCompiler = []string{
	"python3", "-c",
	"import importlib, sys, parsing; " +
		"parsing.Spec(importlib.import_module(sys.argv[1]), pickleFile=sys.argv[2], verbose=True)",
	"{spec}", "{output}",
}

var cModules = []string{
	"edb.testbase.protocol.protocol",
	"edb.server.pgproto.pgproto",
	"edb.server.dbview.dbview",
	"edb.server.tokenizer",
	"edb.server.mng_port.edgecon",
	"edb.server.cache.stmt_cache",
	"edb.server.pgcon.pgcon",
	"edb.server.http.http",
	"edb.server.http_edgeql_port.protocol",
	"edb.server.http_graphql_port.protocol",
	"edb.server.notebook_port.protocol",
}

// DefaultManifest describes the reference project. A kiln.yaml overrides it section by section.
func DefaultManifest() Manifest {
	m := Manifest{
		Build: BuildSection{Base: "build"},
		Engine: EngineSection{
			Name:   "postgres",
			Source: "postgres",
			State:  "git",
		},
		Grammars: GrammarSection{
			Compiler:       slices.Clone(defaultCompiler),
			FingerprintExt: ".py",
			Specs: []GrammarDTO{
				{Name: "edb.edgeql.parser.grammar.single", Source: grammarDir},
				{Name: "edb.edgeql.parser.grammar.block", Source: grammarDir},
				{Name: "edb.edgeql.parser.grammar.sdldocument", Source: grammarDir},
			},
		},
		Extensions: ExtensionSection{
			Suffix: defaultSuffix(),
			Transpiler: []string{
				"cython", "-3", "-I", "edb/server/pgproto/", "{source}", "-o", "{output}",
			},
			TranspilerDebug: []string{"-X", "linetrace=True"},
			CFlags:          defaultCFlags(),
			Rust: []RustDTO{
				{Module: "edb._edgeql_rust", Manifest: "edb/edgeql-rust/Cargo.toml"},
				{Module: "edb._graphql_rewrite", Manifest: "edb/graphql-rewrite/Cargo.toml"},
			},
		},
		Toolchain: ToolchainSection{RustMin: "1.42.0"},
		CLI: CLISection{
			Repo:     "https://github.com/edgedb/edgedb-cli",
			Bin:      "edgedb",
			Features: []string{"dev_mode"},
			Dest:     "edb/cli/edgedb",
		},
		Meta: MetaSection{Output: "edb/server/_buildmeta.py", Version: "1.0a3"},
	}

	for _, module := range cModules {
		m.Extensions.C = append(m.Extensions.C, CDTO{
			Module:  module,
			Sources: []string{moduleSource(module)},
		})
	}
	return m
}

// moduleSource maps "a.b.c" to "a/b/c.pyx".
func moduleSource(module string) string {
	return strings.ReplaceAll(module, ".", "/") + ".pyx"
}

func defaultSuffix() string {
	if runtime.GOOS == "windows" {
		return ".pyd"
	}
	return ".so"
}

func defaultCFlags() []string {
	flags := []string{"-O2"}
	if runtime.GOOS != "windows" {
		flags = append(flags, "-std=c99", "-fsigned-char", "-Wall", "-Wsign-compare", "-Wconversion")
	}
	return flags
}
