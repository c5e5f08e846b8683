package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/canny-cli/cannyup/internal/log"
)

func newTestProber() *Prober {
	return &Prober{
		LookPath: func(string) (string, error) {
			return "", &exec.Error{Name: "x", Err: exec.ErrNotFound}
		},
		Output: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("no output configured")
		},
		OS:  "linux",
		Log: log.NewNoop(),
	}
}

func TestProbeAbsentTool(t *testing.T) {
	p := newTestProber()

	state, err := p.Probe(context.Background(), "cargo")
	if err != nil {
		t.Fatalf("absent tool must not be an error, got: %v", err)
	}
	if state.Present {
		t.Error("expected Present=false")
	}
	if state.Version != "" || state.Path != "" {
		t.Errorf("absent tool must have empty version and path, got %+v", state)
	}
}

func TestProbeBrokenEnvironment(t *testing.T) {
	p := newTestProber()
	p.LookPath = func(string) (string, error) {
		return "", fmt.Errorf("open /etc/paths.d: %w", os.ErrPermission)
	}

	_, err := p.Probe(context.Background(), "cargo")
	var envErr *EnvironmentError
	if !errors.As(err, &envErr) {
		t.Fatalf("expected EnvironmentError, got %T: %v", err, err)
	}
	if envErr.Tool != "cargo" {
		t.Errorf("EnvironmentError.Tool = %q, want cargo", envErr.Tool)
	}
	if envErr.Suggestion() == "" {
		t.Error("expected a suggestion")
	}
}

func TestProbePresentWithVersion(t *testing.T) {
	p := newTestProber()
	p.LookPath = func(tool string) (string, error) {
		return "/usr/bin/" + tool, nil
	}
	p.Output = func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != "/usr/bin/cargo" || len(args) != 1 || args[0] != "--version" {
			t.Errorf("unexpected version command: %s %v", name, args)
		}
		return []byte("cargo 1.76.0 (c84b36747 2024-01-18)\n"), nil
	}

	state, err := p.Probe(context.Background(), "cargo")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if !state.Present {
		t.Fatal("expected Present=true")
	}
	if state.Version != "1.76.0" {
		t.Errorf("version = %q, want 1.76.0", state.Version)
	}
	if state.Path != "/usr/bin/cargo" {
		t.Errorf("path = %q, want /usr/bin/cargo", state.Path)
	}
}

func TestProbeUnparseableVersion(t *testing.T) {
	p := newTestProber()
	p.LookPath = func(tool string) (string, error) { return "/usr/bin/" + tool, nil }
	p.Output = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("have you tried turning it off and on again\n"), nil
	}

	state, err := p.Probe(context.Background(), "cargo")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if !state.Present {
		t.Error("expected Present=true despite unparseable version")
	}
	if state.Version != "" {
		t.Errorf("version = %q, want empty", state.Version)
	}
}

func TestProbeVersionCommandFailure(t *testing.T) {
	p := newTestProber()
	p.LookPath = func(tool string) (string, error) { return "/usr/bin/" + tool, nil }
	p.Output = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exec format error")
	}

	state, err := p.Probe(context.Background(), "cargo")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if !state.Present || state.Version != "" {
		t.Errorf("expected present with empty version, got %+v", state)
	}
}

func TestProbeGenericCompilerVersion(t *testing.T) {
	p := newTestProber()
	p.LookPath = func(tool string) (string, error) { return "/usr/bin/cc", nil }
	p.Output = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("cc (Debian 12.2.0-14) 12.2.0\nCopyright (C) 2022\n"), nil
	}

	state, err := p.Probe(context.Background(), "cc")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if state.Version != "12.2.0" {
		t.Errorf("version = %q, want 12.2.0", state.Version)
	}
}

func TestProbeAt(t *testing.T) {
	dir := t.TempDir()
	cargoPath := filepath.Join(dir, "cargo")
	if err := os.WriteFile(cargoPath, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("failed to write fake cargo: %v", err)
	}

	p := newTestProber()
	p.Output = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("cargo 1.80.1 (1234 2024)\n"), nil
	}

	state := p.ProbeAt(context.Background(), "cargo", cargoPath)
	if !state.Present {
		t.Fatal("expected present for existing file")
	}
	if state.Version != "1.80.1" {
		t.Errorf("version = %q, want 1.80.1", state.Version)
	}

	missing := p.ProbeAt(context.Background(), "cargo", filepath.Join(dir, "nope"))
	if missing.Present {
		t.Error("expected absent for missing path")
	}
}

func TestProbeCompilerDarwinPresent(t *testing.T) {
	p := newTestProber()
	p.OS = "darwin"
	p.Output = func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != "xcode-select" || len(args) != 1 || args[0] != "-p" {
			t.Errorf("unexpected command: %s %v", name, args)
		}
		return []byte("/Library/Developer/CommandLineTools\n"), nil
	}

	state, err := p.ProbeCompiler(context.Background())
	if err != nil {
		t.Fatalf("ProbeCompiler failed: %v", err)
	}
	if !state.Present {
		t.Fatal("expected present")
	}
	if !strings.HasSuffix(state.Path, filepath.Join("usr", "bin", "cc")) {
		t.Errorf("unexpected compiler path: %q", state.Path)
	}
}

func TestProbeCompilerDarwinAbsent(t *testing.T) {
	p := newTestProber()
	p.OS = "darwin"
	p.Output = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		// Produce a genuine *exec.ExitError the way xcode-select
		// reports a missing developer directory.
		return exec.CommandContext(ctx, "sh", "-c", "exit 2").CombinedOutput()
	}

	state, err := p.ProbeCompiler(context.Background())
	if err != nil {
		t.Fatalf("absent CLT must not be an error, got: %v", err)
	}
	if state.Present {
		t.Error("expected Present=false when xcode-select exits nonzero")
	}
}

func TestProbeCompilerDarwinBroken(t *testing.T) {
	p := newTestProber()
	p.OS = "darwin"
	p.Output = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("fork failed")
	}

	_, err := p.ProbeCompiler(context.Background())
	var envErr *EnvironmentError
	if !errors.As(err, &envErr) {
		t.Fatalf("expected EnvironmentError, got %T: %v", err, err)
	}
}

func TestProbeCompilerLinux(t *testing.T) {
	p := newTestProber()
	p.LookPath = func(tool string) (string, error) {
		if tool != "cc" {
			t.Errorf("expected cc lookup, got %q", tool)
		}
		return "/usr/bin/cc", nil
	}
	p.Output = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("cc (GCC) 13.2.1\n"), nil
	}

	state, err := p.ProbeCompiler(context.Background())
	if err != nil {
		t.Fatalf("ProbeCompiler failed: %v", err)
	}
	if !state.Present || state.Tool != "cc" {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestMeetsMinimum(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		min     string
		want    bool
		wantErr bool
	}{
		{name: "newer", state: State{Present: true, Version: "1.76.0"}, min: "1.74.0", want: true},
		{name: "equal", state: State{Present: true, Version: "1.74.0"}, min: "1.74.0", want: true},
		{name: "older", state: State{Present: true, Version: "1.70.0"}, min: "1.74.0", want: false},
		{name: "absent", state: State{}, min: "1.74.0", want: false},
		{name: "no version", state: State{Present: true}, min: "1.74.0", want: false},
		{name: "bad minimum", state: State{Present: true, Version: "1.76.0"}, min: "not-a-version", wantErr: true},
		{name: "bad detected", state: State{Present: true, Version: "lots"}, min: "1.74.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MeetsMinimum(tt.state, tt.min)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("MeetsMinimum = %v, want %v", got, tt.want)
			}
		})
	}
}
