package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// CargoProject creates a minimal crate layout with the given package
// name and version and returns its root directory
func CargoProject(t *testing.T, name, version string) string {
	t.Helper()
	dir := t.TempDir()

	manifest := fmt.Sprintf("[package]\nname = %q\nversion = %q\nedition = \"2021\"\n", name, version)
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write Cargo.toml: %v", err)
	}

	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("failed to create src dir: %v", err)
	}
	mainRS := "fn main() { println!(\"hello\"); }\n"
	if err := os.WriteFile(filepath.Join(srcDir, "main.rs"), []byte(mainRS), 0644); err != nil {
		t.Fatalf("failed to write main.rs: %v", err)
	}

	return dir
}

// WriteExecutable writes an executable shell script into dir and
// returns its path
func WriteExecutable(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// FakeArtifact writes a non-empty executable file standing in for a
// compiled release binary
func FakeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create artifact dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("\x7fELF fake binary"), 0755); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}
	return path
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertFileExists checks if a file exists at the given path
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if !FileExists(path) {
		t.Errorf("file does not exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does NOT exist at the given path
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if FileExists(path) {
		t.Errorf("file should not exist: %s", path)
	}
}
