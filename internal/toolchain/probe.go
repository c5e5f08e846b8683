// Package toolchain probes for and installs the build toolchain canny
// needs: cargo (with rustc behind it) and a host C compiler.
//
// Probing is a pure query. It never installs anything, never mutates
// the environment, and distinguishes "tool absent" (a clean negative
// answer) from "cannot ask the question" (an EnvironmentError).
// Installation is a separate, explicit step that reports its result as
// a State value instead of mutating ambient environment variables.
package toolchain

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/canny-cli/cannyup/internal/log"
)

// MinCargoVersion is the oldest cargo release known to build canny.
// Older toolchains are reported by doctor but do not block a build.
const MinCargoVersion = "1.74.0"

// State is the result of one probe: whether the tool resolved, and if
// so where and at what version. Present==false implies empty Version
// and Path.
type State struct {
	Tool    string
	Present bool
	Version string
	Path    string
}

// OutputFunc runs a command and returns its combined output.
type OutputFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Prober answers presence and version questions about build tools.
// The zero value is not usable; construct with NewProber. The function
// fields are injectable so tests can supply a synthetic environment.
type Prober struct {
	LookPath func(file string) (string, error)
	Output   OutputFunc
	OS       string // runtime.GOOS unless overridden in tests
	Log      log.Logger
}

// NewProber returns a Prober bound to the real process environment.
func NewProber() *Prober {
	return &Prober{
		LookPath: exec.LookPath,
		Output:   defaultOutput,
		OS:       runtime.GOOS,
		Log:      log.Default(),
	}
}

var versionPatterns = map[string]*regexp.Regexp{
	"cargo": regexp.MustCompile(`cargo (\d+\.\d+\.\d+)`),
	"rustc": regexp.MustCompile(`rustc (\d+\.\d+\.\d+)`),
}

// genericVersion matches the first dotted number in output from tools
// with varied banners (gcc, clang).
var genericVersion = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// Probe resolves tool through PATH and detects its version.
// A tool that is not on PATH yields Present==false and a nil error.
// A lookup that cannot be performed at all yields an EnvironmentError.
func (p *Prober) Probe(ctx context.Context, tool string) (State, error) {
	path, err := p.LookPath(tool)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			p.Log.Debug("probe: tool not on PATH", "tool", tool)
			return State{Tool: tool}, nil
		}
		return State{}, &EnvironmentError{
			Tool:    tool,
			Message: "PATH lookup failed",
			Err:     err,
		}
	}

	state := State{Tool: tool, Present: true, Path: path}
	state.Version = p.detectVersion(ctx, tool, path)
	p.Log.Debug("probe: resolved", "tool", tool, "path", path, "version", state.Version)
	return state, nil
}

// ProbeAt checks for tool at an explicit path, bypassing PATH lookup.
// Used right after a toolchain install, before the new bin directory is
// visible on PATH.
func (p *Prober) ProbeAt(ctx context.Context, tool, path string) State {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return State{Tool: tool}
	}

	state := State{Tool: tool, Present: true, Path: path}
	state.Version = p.detectVersion(ctx, tool, path)
	return state
}

// ProbeCompiler checks for a usable host C compiler. On darwin that
// means the Xcode Command Line Tools; elsewhere it is cc on PATH.
func (p *Prober) ProbeCompiler(ctx context.Context) (State, error) {
	if p.OS == "darwin" {
		out, err := p.Output(ctx, "xcode-select", "-p")
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				// xcode-select ran and reported no developer directory.
				return State{Tool: "cc"}, nil
			}
			return State{}, &EnvironmentError{
				Tool:    "cc",
				Message: "xcode-select could not be run",
				Err:     err,
			}
		}
		devDir := strings.TrimSpace(string(out))
		return State{
			Tool:    "cc",
			Present: true,
			Path:    filepath.Join(devDir, "usr", "bin", "cc"),
		}, nil
	}

	return p.Probe(ctx, "cc")
}

func (p *Prober) detectVersion(ctx context.Context, tool, path string) string {
	out, err := p.Output(ctx, path, "--version")
	if err != nil {
		p.Log.Debug("probe: version detection failed", "tool", tool, "error", err)
		return ""
	}

	re, ok := versionPatterns[tool]
	if !ok {
		re = genericVersion
	}
	if m := re.FindStringSubmatch(string(out)); len(m) > 1 {
		return m[1]
	}
	p.Log.Debug("probe: unparseable version output", "tool", tool, "output", strings.TrimSpace(string(out)))
	return ""
}

// MeetsMinimum reports whether the probed version satisfies min.
// Absent tools and undetected versions never satisfy. A malformed min
// is a programming error and surfaces as error.
func MeetsMinimum(state State, min string) (bool, error) {
	if !state.Present || state.Version == "" {
		return false, nil
	}

	minVer, err := semver.NewVersion(min)
	if err != nil {
		return false, err
	}
	have, err := semver.NewVersion(state.Version)
	if err != nil {
		return false, err
	}
	return !have.LessThan(minVer), nil
}
