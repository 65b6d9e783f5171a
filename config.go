package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configNames are the config files looked for, in order of preference.
var configNames = []string{".tidyimports.toml", ".tidyimports.yaml", ".tidyimports.yml"}

// Config represents the .tidyimports.toml (or .yaml) configuration file.
type Config struct {
	Ordering ConfigOrdering `toml:"ordering" yaml:"ordering"`
	Scanner  ConfigScanner  `toml:"scanner" yaml:"scanner"`
	Files    ConfigFiles    `toml:"files" yaml:"files"`
	Logging  ConfigLogging  `toml:"logging" yaml:"logging"`
}

// ConfigOrdering holds ordering-related config.
type ConfigOrdering struct {
	TypePlacement string `toml:"type_placement" yaml:"type_placement"`
	TypeMarker    string `toml:"type_marker" yaml:"type_marker"`
}

// ConfigScanner selects the statement scanner back end.
type ConfigScanner struct {
	Backend string `toml:"backend" yaml:"backend"`
}

// ConfigFiles controls which files are processed and how.
type ConfigFiles struct {
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Types      string   `toml:"types" yaml:"types"`
}

type ConfigLogging struct {
	Level string `toml:"level" yaml:"level"`
}

// findConfigFile walks up from the current directory to find a config file,
// stopping at the repository root (directory containing .git).
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		// Check if we're at a repo root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return ""
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadConfig reads a config file. The format follows the extension: .yaml
// and .yml are YAML, anything else is TOML.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML config: %w", err)
		}
	}
	return &cfg, nil
}

// MergeConfig applies config file values to opts, but only for fields not
// explicitly set via CLI flags. The setFlags map contains flag names that
// were explicitly passed on the command line.
func MergeConfig(opts *Options, cfg *Config, setFlags map[string]bool) {
	if cfg == nil {
		return
	}

	if cfg.Ordering.TypePlacement != "" && !setFlags["type-placement"] {
		opts.TypePlacement = cfg.Ordering.TypePlacement
	}
	if cfg.Ordering.TypeMarker != "" && !setFlags["type-marker"] {
		opts.TypeMarker = cfg.Ordering.TypeMarker
	}
	if cfg.Scanner.Backend != "" && !setFlags["backend"] {
		opts.Backend = cfg.Scanner.Backend
	}
	if len(cfg.Files.Extensions) > 0 && !setFlags["ext"] {
		opts.Extensions = cfg.Files.Extensions
	}
	if cfg.Files.Types != "" && !setFlags["types"] {
		opts.Types = cfg.Files.Types
	}
	if cfg.Logging.Level != "" && !setFlags["log-level"] {
		opts.LogLevel = cfg.Logging.Level
	}
}

// validateOptions rejects option values the engine does not understand.
func validateOptions(opts Options) error {
	switch opts.placement() {
	case PlacementShortest, PlacementFirst, PlacementLast:
	default:
		return fmt.Errorf("--type-placement must be %q, %q or %q, got %q",
			PlacementShortest, PlacementFirst, PlacementLast, opts.TypePlacement)
	}
	if _, err := NewScanner(opts.Backend); err != nil {
		return err
	}
	switch opts.Types {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("--types must be \"auto\", \"on\" or \"off\", got %q", opts.Types)
	}
	marker := strings.TrimSpace(opts.marker())
	if !strings.HasPrefix(marker, "//") || strings.Contains(marker, "\n") {
		return fmt.Errorf("--type-marker must be a single // comment line, got %q", opts.TypeMarker)
	}
	return nil
}
