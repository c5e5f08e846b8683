// Package config resolves the per-invocation configuration: where the
// canny source tree lives and which directories the two install scopes
// point at. Nothing here is persisted; every run resolves fresh from
// the environment, the optional user config file, and built-in
// defaults, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/canny-cli/cannyup/internal/userconfig"
)

const (
	// EnvBinDir overrides the user-scope install directory.
	EnvBinDir = "CANNYUP_BIN_DIR"

	// BinaryName is the artifact cannyup builds, places and removes.
	// cannyup never executes it.
	BinaryName = "canny"

	// DefaultSystemBinDir is the system-scope install directory.
	DefaultSystemBinDir = "/usr/local/bin"
)

// Config holds the resolved directories for one invocation.
type Config struct {
	// SourceDir is the canny source tree (the directory holding Cargo.toml).
	SourceDir string

	// SystemBinDir is the privileged install target directory.
	SystemBinDir string

	// UserBinDir is the unprivileged install target directory.
	UserBinDir string

	// Settings are the raw user config file values for concerns beyond
	// directories (cargo path, github repo, checksum pin, dist formats).
	Settings *userconfig.Config
}

// Load resolves the configuration for the given source directory.
// sourceDir may be relative; it is made absolute here so subprocesses
// and error messages always see a full path.
func Load(sourceDir string) (*Config, error) {
	settings, err := userconfig.Load()
	if err != nil {
		return nil, err
	}
	return resolve(sourceDir, settings, os.Getenv)
}

// resolve applies the precedence rules with an injectable getenv so
// tests can supply a synthetic environment.
func resolve(sourceDir string, settings *userconfig.Config, getenv func(string) string) (*Config, error) {
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory %q: %w", sourceDir, err)
	}

	userBin := getenv(EnvBinDir)
	if userBin == "" {
		userBin = settings.BinDir
	}
	if userBin == "" {
		userBin = xdg.BinHome
	}

	systemBin := settings.SystemBinDir
	if systemBin == "" {
		systemBin = DefaultSystemBinDir
	}

	return &Config{
		SourceDir:    abs,
		SystemBinDir: systemBin,
		UserBinDir:   userBin,
		Settings:     settings,
	}, nil
}

// ManifestPath returns the Cargo.toml location inside the source tree.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.SourceDir, "Cargo.toml")
}

// CheckSourceTree verifies the source directory actually contains a
// Cargo.toml. Build and install pipelines call this before anything else.
func (c *Config) CheckSourceTree() error {
	if _, err := os.Stat(c.ManifestPath()); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no Cargo.toml in %s: run from the canny source tree or pass --source-dir", c.SourceDir)
		}
		return fmt.Errorf("failed to inspect source tree %s: %w", c.SourceDir, err)
	}
	return nil
}
