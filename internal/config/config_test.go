package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/canny-cli/cannyup/internal/userconfig"
)

func noEnv(string) string { return "" }

func TestResolveDefaults(t *testing.T) {
	cfg, err := resolve(".", userconfig.DefaultConfig(), noEnv)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if !filepath.IsAbs(cfg.SourceDir) {
		t.Errorf("expected absolute source dir, got %q", cfg.SourceDir)
	}
	if cfg.SystemBinDir != DefaultSystemBinDir {
		t.Errorf("system bin dir = %q, want %q", cfg.SystemBinDir, DefaultSystemBinDir)
	}
	if cfg.UserBinDir == "" {
		t.Error("expected a non-empty default user bin dir")
	}
}

func TestResolveEnvOverridesFile(t *testing.T) {
	settings := userconfig.DefaultConfig()
	settings.BinDir = "/from/file"

	getenv := func(key string) string {
		if key == EnvBinDir {
			return "/from/env"
		}
		return ""
	}

	cfg, err := resolve(".", settings, getenv)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.UserBinDir != "/from/env" {
		t.Errorf("user bin dir = %q, want env override /from/env", cfg.UserBinDir)
	}
}

func TestResolveFileOverridesDefault(t *testing.T) {
	settings := userconfig.DefaultConfig()
	settings.BinDir = "/from/file"
	settings.SystemBinDir = "/opt/canny/bin"

	cfg, err := resolve(".", settings, noEnv)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.UserBinDir != "/from/file" {
		t.Errorf("user bin dir = %q, want /from/file", cfg.UserBinDir)
	}
	if cfg.SystemBinDir != "/opt/canny/bin" {
		t.Errorf("system bin dir = %q, want /opt/canny/bin", cfg.SystemBinDir)
	}
}

func TestManifestPath(t *testing.T) {
	cfg, err := resolve("/tmp/src", userconfig.DefaultConfig(), noEnv)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := filepath.Join("/tmp/src", "Cargo.toml")
	if cfg.ManifestPath() != want {
		t.Errorf("manifest path = %q, want %q", cfg.ManifestPath(), want)
	}
}

func TestCheckSourceTree(t *testing.T) {
	dir := t.TempDir()

	cfg, err := resolve(dir, userconfig.DefaultConfig(), noEnv)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if err := cfg.CheckSourceTree(); err == nil {
		t.Error("expected error for directory without Cargo.toml")
	}

	manifest := filepath.Join(dir, "Cargo.toml")
	if err := os.WriteFile(manifest, []byte("[package]\nname = \"canny\"\n"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	if err := cfg.CheckSourceTree(); err != nil {
		t.Errorf("expected valid source tree, got: %v", err)
	}
}
