package main

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/canny-cli/cannyup/internal/cargo"
	"github.com/canny-cli/cannyup/internal/install"
	"github.com/canny-cli/cannyup/internal/toolchain"
	"github.com/canny-cli/cannyup/internal/version"
)

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"yes", true},
		{"YES", true},
		{"on", true},
		{"ON", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"off", false},
		{"random", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := isTruthy(tt.input)
			if got != tt.want {
				t.Errorf("isTruthy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetermineLogLevel(t *testing.T) {
	// Save original values
	origQuiet := quietFlag
	origVerbose := verboseFlag
	origDebug := debugFlag

	// Reset flags after each test
	defer func() {
		quietFlag = origQuiet
		verboseFlag = origVerbose
		debugFlag = origDebug
	}()

	tests := []struct {
		name       string
		quietF     bool
		verboseF   bool
		debugF     bool
		envQuiet   string
		envVerbose string
		envDebug   string
		want       slog.Level
	}{
		{
			name: "default is WARN",
			want: slog.LevelWarn,
		},
		{
			name:   "debug flag",
			debugF: true,
			want:   slog.LevelDebug,
		},
		{
			name:     "verbose flag",
			verboseF: true,
			want:     slog.LevelInfo,
		},
		{
			name:   "quiet flag",
			quietF: true,
			want:   slog.LevelError,
		},
		{
			name:     "debug env var",
			envDebug: "1",
			want:     slog.LevelDebug,
		},
		{
			name:       "verbose env var",
			envVerbose: "true",
			want:       slog.LevelInfo,
		},
		{
			name:     "quiet env var",
			envQuiet: "yes",
			want:     slog.LevelError,
		},
		{
			name:     "flag takes precedence over env var",
			quietF:   true,
			envDebug: "1",
			want:     slog.LevelError,
		},
		{
			name:     "debug flag overrides verbose flag",
			debugF:   true,
			verboseF: true,
			want:     slog.LevelDebug,
		},
		{
			name:     "verbose flag overrides quiet flag",
			verboseF: true,
			quietF:   true,
			want:     slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Set flags
			quietFlag = tt.quietF
			verboseFlag = tt.verboseF
			debugFlag = tt.debugF

			// Set env vars using t.Setenv (auto-cleanup after test)
			// Empty string acts as "unset" for isTruthy checks
			t.Setenv("CANNYUP_QUIET", tt.envQuiet)
			t.Setenv("CANNYUP_VERBOSE", tt.envVerbose)
			t.Setenv("CANNYUP_DEBUG", tt.envDebug)

			got := determineLogLevel()
			if got != tt.want {
				t.Errorf("determineLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error",
			err:  nil,
			want: ExitSuccess,
		},
		{
			name: "environment error",
			err:  &toolchain.EnvironmentError{Tool: "cargo", Message: "PATH lookup failed"},
			want: ExitEnvironment,
		},
		{
			name: "toolchain install error",
			err:  &toolchain.InstallError{Tool: "rust", Phase: toolchain.PhaseDownload, Message: "request failed"},
			want: ExitToolchain,
		},
		{
			name: "build error",
			err:  &cargo.BuildError{Op: "build", ExitCode: 101},
			want: ExitBuild,
		},
		{
			name: "permission error",
			err:  &install.PermissionError{Target: "system", Dir: "/usr/local/bin", Message: "directory is not writable"},
			want: ExitPermission,
		},
		{
			name: "install error",
			err:  &install.InstallError{Path: "/home/u/.local/bin/canny", Op: "install", Message: "atomic replace failed"},
			want: ExitInstall,
		},
		{
			name: "lookup error maps to general",
			err:  &version.LookupError{Type: version.ErrTypeNetwork, Source: "github", Message: "request failed"},
			want: ExitGeneral,
		},
		{
			name: "wrapped typed error still maps",
			err:  fmt.Errorf("release build: %w", &cargo.BuildError{Op: "build", ExitCode: 1}),
			want: ExitBuild,
		},
		{
			name: "generic error",
			err:  errors.New("something else"),
			want: ExitGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeFor(tt.err)
			if got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
