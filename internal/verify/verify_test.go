package verify

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/canny-cli/cannyup/internal/log"
)

func TestCheckResolvesToInstalledBinary(t *testing.T) {
	dir := t.TempDir()
	installed := filepath.Join(dir, "canny")
	if err := os.WriteFile(installed, []byte("bin"), 0755); err != nil {
		t.Fatal(err)
	}

	c := &Checker{
		LookPath: func(name string) (string, error) { return installed, nil },
		Log:      log.NewNoop(),
	}

	res := c.Check("canny", installed)
	if res.Status != StatusOK {
		t.Errorf("Status = %v, want %v", res.Status, StatusOK)
	}
	if res.Resolved != installed {
		t.Errorf("Resolved = %q, want %q", res.Resolved, installed)
	}
}

func TestCheckNotOnPath(t *testing.T) {
	c := &Checker{
		LookPath: func(name string) (string, error) { return "", errors.New("not found") },
		Log:      log.NewNoop(),
	}

	res := c.Check("canny", "/opt/bin/canny")
	if res.Status != StatusNotOnPath {
		t.Errorf("Status = %v, want %v", res.Status, StatusNotOnPath)
	}
	if res.Resolved != "" {
		t.Errorf("Resolved = %q, want empty", res.Resolved)
	}
	if res.Installed != "/opt/bin/canny" {
		t.Errorf("Installed = %q, want the install path preserved", res.Installed)
	}
}

func TestCheckShadowedByEarlierBinary(t *testing.T) {
	installedDir := t.TempDir()
	otherDir := t.TempDir()
	installed := filepath.Join(installedDir, "canny")
	other := filepath.Join(otherDir, "canny")
	for _, p := range []string{installed, other} {
		if err := os.WriteFile(p, []byte("bin"), 0755); err != nil {
			t.Fatal(err)
		}
	}

	c := &Checker{
		LookPath: func(name string) (string, error) { return other, nil },
		Log:      log.NewNoop(),
	}

	res := c.Check("canny", installed)
	if res.Status != StatusShadowed {
		t.Errorf("Status = %v, want %v", res.Status, StatusShadowed)
	}
	if res.Resolved != other {
		t.Errorf("Resolved = %q, want %q", res.Resolved, other)
	}
}

func TestCheckFollowsSymlinkedPathEntry(t *testing.T) {
	dir := t.TempDir()
	installed := filepath.Join(dir, "canny")
	if err := os.WriteFile(installed, []byte("bin"), 0755); err != nil {
		t.Fatal(err)
	}
	linkDir := filepath.Join(t.TempDir(), "aliased")
	if err := os.Symlink(dir, linkDir); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	c := &Checker{
		LookPath: func(name string) (string, error) {
			return filepath.Join(linkDir, "canny"), nil
		},
		Log: log.NewNoop(),
	}

	res := c.Check("canny", installed)
	if res.Status != StatusOK {
		t.Errorf("Status = %v, want %v for symlinked PATH entry", res.Status, StatusOK)
	}
}

func TestDirOnPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		dir  string
		want bool
	}{
		{"present", "/usr/local/bin:/usr/bin", "/usr/local/bin", true},
		{"absent", "/usr/bin:/bin", "/usr/local/bin", false},
		{"trailing slash entry", "/usr/local/bin/:/usr/bin", "/usr/local/bin", true},
		{"empty PATH", "", "/usr/local/bin", false},
		{"empty entries skipped", "::/usr/bin", "/usr/bin", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Checker{
				Getenv: func(key string) string {
					if key == "PATH" {
						return tt.path
					}
					return ""
				},
				Log: log.NewNoop(),
			}
			if got := c.DirOnPath(tt.dir); got != tt.want {
				t.Errorf("DirOnPath(%q) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOK, "ok"},
		{StatusNotOnPath, "not-on-path"},
		{StatusShadowed, "shadowed"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestExportLine(t *testing.T) {
	got := ExportLine("/home/u/.local/bin")
	if !strings.Contains(got, `"/home/u/.local/bin:$PATH"`) {
		t.Errorf("ExportLine() = %q, want the dir prepended to $PATH", got)
	}
	if !strings.HasPrefix(got, "export PATH=") {
		t.Errorf("ExportLine() = %q, want an export statement", got)
	}
}
