package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"rexfuzz/internal/charenc"
)

// rexfuzz.toml is optional: flags alone are enough to run. When present
// it pins the campaign settings so that every invocation in a corpus
// directory agrees on the decode grammar.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
	meta   toml.MetaData
}

type projectConfig struct {
	Harness harnessConfig `toml:"harness"`
	Limits  limitsConfig  `toml:"limits"`
	Stats   statsConfig   `toml:"stats"`
}

type harnessConfig struct {
	Engine         string `toml:"engine"`
	SyntaxProbe    bool   `toml:"syntax_probe"`
	PinnedEncoding string `toml:"pinned_encoding"`
	ArtifactDir    string `toml:"artifact_dir"`
	AbortOnFatal   bool   `toml:"abort_on_fatal"`
}

type limitsConfig struct {
	ParseDepth    int `toml:"parse_depth"`
	RetryLimit    int `toml:"retry_limit"`
	CallNestLevel int `toml:"call_nest_level"`
}

type statsConfig struct {
	Interval string `toml:"interval"`
}

func findRexfuzzToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "rexfuzz.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findRexfuzzToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	meta, err := toml.DecodeFile(manifestPath, &cfg)
	if err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	m := &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
		meta:   meta,
	}
	if err := m.validate(); err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// IsSet reports whether the manifest defines the given key path. Only
// defined keys override flag defaults.
func (m *projectManifest) IsSet(keys ...string) bool {
	return m.meta.IsDefined(keys...)
}

func (m *projectManifest) validate() error {
	if m.IsSet("harness", "engine") {
		name := strings.TrimSpace(m.Config.Harness.Engine)
		if _, err := newEngine(name); err != nil {
			return fmt.Errorf("%s: [harness].engine: %w", m.Path, err)
		}
	}
	if m.IsSet("harness", "pinned_encoding") {
		name := strings.TrimSpace(m.Config.Harness.PinnedEncoding)
		if _, ok := charenc.ByName(name); !ok {
			return fmt.Errorf("%s: [harness].pinned_encoding: unknown encoding %q", m.Path, name)
		}
	}
	if m.IsSet("limits") {
		l := m.Config.Limits
		if m.IsSet("limits", "parse_depth") && l.ParseDepth <= 0 {
			return fmt.Errorf("%s: [limits].parse_depth must be positive", m.Path)
		}
		if m.IsSet("limits", "retry_limit") && l.RetryLimit <= 0 {
			return fmt.Errorf("%s: [limits].retry_limit must be positive", m.Path)
		}
		if m.IsSet("limits", "call_nest_level") && l.CallNestLevel <= 0 {
			return fmt.Errorf("%s: [limits].call_nest_level must be positive", m.Path)
		}
	}
	if m.IsSet("stats", "interval") {
		if _, err := time.ParseDuration(m.Config.Stats.Interval); err != nil {
			return fmt.Errorf("%s: [stats].interval: %w", m.Path, err)
		}
	}
	return nil
}
