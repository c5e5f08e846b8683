// Package userconfig provides user configuration management for cannyup.
// Configuration is stored in $XDG_CONFIG_HOME/cannyup/config.toml and
// can be modified via the `cannyup config` command. Every key is
// optional; environment variables take precedence over file values.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents user-configurable settings.
type Config struct {
	// BinDir overrides the user-scope install directory.
	// CANNYUP_BIN_DIR takes precedence over this.
	BinDir string `toml:"bin_dir,omitempty"`

	// SystemBinDir overrides the system-scope install directory.
	SystemBinDir string `toml:"system_bin_dir,omitempty"`

	// Cargo is an explicit path to the cargo binary, bypassing PATH lookup.
	Cargo string `toml:"cargo,omitempty"`

	// GithubRepo is the owner/name repository checked by `cannyup outdated`.
	GithubRepo string `toml:"github_repo,omitempty"`

	// RustupSHA256 pins the expected checksum of the rustup bootstrap
	// script. When set, a mismatch aborts toolchain installation.
	RustupSHA256 string `toml:"rustup_sha256,omitempty"`

	// DistFormats selects the archive formats `cannyup dist` produces.
	DistFormats []string `toml:"dist_formats,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		GithubRepo:  "canny-cli/canny",
		DistFormats: []string{"gz"},
	}
}

// Path returns the config file location under the XDG config directory.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "cannyup", "config.toml")
}

// Load reads the config file and returns the configuration.
// A missing file yields defaults; only parse failures are errors.
func Load() (*Config, error) {
	return loadFromPath(Path())
}

func loadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.saveToPath(Path())
}

func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var (
	sha256Re = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	repoRe   = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
)

// ValidFormats are the archive formats dist can produce.
var ValidFormats = []string{"gz", "xz", "lz"}

func validFormat(f string) bool {
	for _, v := range ValidFormats {
		if f == v {
			return true
		}
	}
	return false
}

// Get returns the value of a config key as a string.
// Returns empty string and false if the key doesn't exist.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "bin_dir":
		return c.BinDir, true
	case "system_bin_dir":
		return c.SystemBinDir, true
	case "cargo":
		return c.Cargo, true
	case "github_repo":
		return c.GithubRepo, true
	case "rustup_sha256":
		return c.RustupSHA256, true
	case "dist_formats":
		return strings.Join(c.DistFormats, ","), true
	default:
		return "", false
	}
}

// Set updates a config value from a string.
// Returns an error if the key doesn't exist or the value is invalid.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "bin_dir":
		c.BinDir = value
		return nil
	case "system_bin_dir":
		c.SystemBinDir = value
		return nil
	case "cargo":
		c.Cargo = value
		return nil
	case "github_repo":
		if value != "" && !repoRe.MatchString(value) {
			return fmt.Errorf("invalid value for github_repo: expected owner/name, got %q", value)
		}
		c.GithubRepo = value
		return nil
	case "rustup_sha256":
		if value != "" && !sha256Re.MatchString(value) {
			return fmt.Errorf("invalid value for rustup_sha256: expected 64 hex characters")
		}
		c.RustupSHA256 = strings.ToLower(value)
		return nil
	case "dist_formats":
		var formats []string
		for _, f := range strings.Split(value, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if !validFormat(f) {
				return fmt.Errorf("invalid dist format %q: valid formats are %s",
					f, strings.Join(ValidFormats, ", "))
			}
			formats = append(formats, f)
		}
		if len(formats) == 0 {
			return fmt.Errorf("dist_formats must name at least one format")
		}
		c.DistFormats = formats
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

// AvailableKeys returns all configurable keys with descriptions.
func AvailableKeys() map[string]string {
	return map[string]string{
		"bin_dir":        "User-scope install directory (CANNYUP_BIN_DIR overrides)",
		"system_bin_dir": "System-scope install directory (default /usr/local/bin)",
		"cargo":          "Explicit path to the cargo binary",
		"github_repo":    "owner/name repository checked by `cannyup outdated`",
		"rustup_sha256":  "Pinned checksum for the rustup bootstrap script",
		"dist_formats":   "Comma-separated archive formats for `cannyup dist` (gz, xz, lz)",
	}
}
