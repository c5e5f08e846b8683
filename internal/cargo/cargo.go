// Package cargo wraps the external build system. Compilation stays
// cargo's job; this package assembles invocations, streams their output
// to the user, and locates the produced artifact. Every operation is a
// single subprocess run with no retries.
package cargo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/canny-cli/cannyup/internal/config"
	"github.com/canny-cli/cannyup/internal/log"
)

// Profile selects the cargo build profile and with it the artifact
// directory under target/.
type Profile string

const (
	ProfileDebug   Profile = "debug"
	ProfileRelease Profile = "release"
)

// BuildError reports a cargo invocation that failed. The pipeline
// treats it as fatal: no later stage runs after a failed build.
type BuildError struct {
	Op       string // cargo subcommand: build, test, clippy, ...
	ExitCode int    // nonzero when cargo itself exited with a status
	Message  string // set for failures other than a nonzero exit
	Err      error
}

func (e *BuildError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("cargo %s failed: %s: %v", e.Op, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("cargo %s failed: %s", e.Op, e.Message)
	case e.ExitCode != 0:
		return fmt.Sprintf("cargo %s failed (exit status %d)", e.Op, e.ExitCode)
	default:
		return fmt.Sprintf("cargo %s failed: %v", e.Op, e.Err)
	}
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable hint for the user.
func (e *BuildError) Suggestion() string {
	if e.Message != "" && strings.Contains(e.Message, "not found") {
		return "Run `cannyup install` or `cannyup install-user` to bootstrap the Rust toolchain first"
	}
	switch e.Op {
	case "fmt":
		return "rustfmt ships with the toolchain; `rustup component add rustfmt` restores it"
	case "clippy":
		return "clippy ships with the toolchain; `rustup component add clippy` restores it"
	default:
		return "Inspect the cargo output above; it names the failing crate and location"
	}
}

// ExecFunc runs one subprocess, streaming its output to the user.
type ExecFunc func(ctx context.Context, name string, args, env []string, dir string) error

func defaultExec(ctx context.Context, name string, args, env []string, dir string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// Runner invokes cargo against one source tree.
type Runner struct {
	// SourceDir is the directory holding Cargo.toml. Required.
	SourceDir string

	// Cargo overrides the binary invoked. Empty means "cargo" via PATH.
	Cargo string

	// ExtraPath holds directories prepended to PATH for subprocesses,
	// so a toolchain installed earlier in the same run is visible
	// without mutating this process's environment.
	ExtraPath []string

	// Color controls CARGO_TERM_COLOR for subprocesses.
	Color bool

	// Exec is injectable for tests.
	Exec ExecFunc

	Log log.Logger
}

// New returns a Runner for the given source tree.
func New(sourceDir string) *Runner {
	return &Runner{
		SourceDir: sourceDir,
		Exec:      defaultExec,
		Log:       log.Default(),
	}
}

func (r *Runner) logger() log.Logger {
	if r.Log != nil {
		return r.Log
	}
	return log.Default()
}

func (r *Runner) cargoPath() string {
	if r.Cargo != "" {
		return r.Cargo
	}
	return "cargo"
}

// ArtifactPath returns where cargo places the canny binary for the
// given profile. The file need not exist yet.
func (r *Runner) ArtifactPath(profile Profile) string {
	return filepath.Join(r.SourceDir, "target", string(profile), config.BinaryName)
}

// Build compiles the tree with the given profile and returns the
// artifact path after verifying the binary actually appeared.
func (r *Runner) Build(ctx context.Context, profile Profile) (string, error) {
	args := []string{"build"}
	var extraEnv []string
	if profile == ProfileRelease {
		args = append(args, "--release")
		// Release artifacts should not depend on incremental state.
		extraEnv = append(extraEnv, "CARGO_INCREMENTAL=0")
	}

	if err := r.run(ctx, "build", args, extraEnv...); err != nil {
		return "", err
	}

	artifact := r.ArtifactPath(profile)
	info, err := os.Stat(artifact)
	if err != nil {
		return "", &BuildError{Op: "build", Message: fmt.Sprintf("build succeeded but %s is missing", artifact), Err: err}
	}
	if info.IsDir() || info.Mode().Perm()&0111 == 0 {
		return "", &BuildError{Op: "build", Message: fmt.Sprintf("%s is not an executable file", artifact)}
	}
	return artifact, nil
}

// Clean removes cargo's target directory via `cargo clean`.
func (r *Runner) Clean(ctx context.Context) error {
	return r.run(ctx, "clean", []string{"clean"})
}

// Test runs the crate's test suite.
func (r *Runner) Test(ctx context.Context) error {
	return r.run(ctx, "test", []string{"test"})
}

// Check type-checks the tree without producing artifacts.
func (r *Runner) Check(ctx context.Context) error {
	return r.run(ctx, "check", []string{"check"})
}

// Fmt formats the tree with rustfmt.
func (r *Runner) Fmt(ctx context.Context) error {
	return r.run(ctx, "fmt", []string{"fmt"})
}

// Clippy lints the tree.
func (r *Runner) Clippy(ctx context.Context) error {
	return r.run(ctx, "clippy", []string{"clippy"})
}

func (r *Runner) run(ctx context.Context, op string, args []string, extraEnv ...string) error {
	name := r.cargoPath()
	r.logger().Debug("running cargo", "op", op, "cargo", name, "args", strings.Join(args, " "), "dir", r.SourceDir)

	exe := r.Exec
	if exe == nil {
		exe = defaultExec
	}

	err := exe(ctx, name, args, append(r.env(), extraEnv...), r.SourceDir)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &BuildError{Op: op, ExitCode: exitErr.ExitCode(), Err: err}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return &BuildError{Op: op, Message: fmt.Sprintf("%s not found on PATH", name), Err: err}
	}
	return &BuildError{Op: op, Err: err}
}

// env assembles the subprocess environment. Go's exec keeps the last
// duplicate key, so appending overrides the inherited values.
func (r *Runner) env() []string {
	env := os.Environ()

	if len(r.ExtraPath) > 0 {
		path := strings.Join(r.ExtraPath, string(os.PathListSeparator))
		if cur := os.Getenv("PATH"); cur != "" {
			path += string(os.PathListSeparator) + cur
		}
		env = append(env, "PATH="+path)
	}

	if r.Color {
		env = append(env, "CARGO_TERM_COLOR=always")
	} else {
		env = append(env, "CARGO_TERM_COLOR=never")
	}

	return env
}
