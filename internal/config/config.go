// Package config handles environment configuration and catalog root resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// Config holds the launcher settings. It is read from the environment only.
type Config struct {
	RootDir   string `env:"CATALOG_LAUNCHER_ROOT"`
	NPM       string `env:"CATALOG_LAUNCHER_NPM" envDefault:"npm"`
	LogLevel  string `env:"CATALOG_LAUNCHER_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CATALOG_LAUNCHER_LOG_FORMAT" envDefault:"console"` // "console" | "json"
	DryRun    bool   `env:"CATALOG_LAUNCHER_DRY_RUN"`
}

// Default returns a Config populated with the same defaults Load applies.
func Default() *Config {
	return &Config{
		NPM:       "npm",
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.NPM == "" {
		return nil, errors.New("parse env: CATALOG_LAUNCHER_NPM must not be empty")
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("parse env: unknown log format %q (want console or json)", cfg.LogFormat)
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// Root resolution
// ---------------------------------------------------------------------------

// executable is swapped in tests.
var executable = os.Executable

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveRootDir returns the catalog root directory and the source of the resolution.
// Priority: CATALOG_LAUNCHER_ROOT → the parent of the directory holding the
// executable (a binary installed as <root>/bin/start-catalog).
// source is one of "env" or "executable". The caller's working directory is
// never consulted.
func (c *Config) ResolveRootDir() (path, source string, err error) {
	if c.RootDir != "" {
		p, err := normalizePath(c.RootDir)
		if err != nil {
			return "", "", fmt.Errorf("resolve root: %w", err)
		}
		return p, "env", nil
	}

	exe, err := executable()
	if err != nil {
		return "", "", fmt.Errorf("resolve root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), "executable", nil
}
