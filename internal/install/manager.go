package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/google/renameio/v2"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/canny-cli/cannyup/internal/log"
)

// RunFunc executes a command with the given argv, streaming output to
// the user. Used for the sudo steps; injectable for tests.
type RunFunc func(ctx context.Context, name string, args ...string) error

func defaultRun(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// Manager installs and uninstalls the canny binary in a Target.
type Manager struct {
	// Run executes subprocesses (sudo steps). Injectable for tests.
	Run RunFunc

	// Writable reports whether the process can write to dir.
	// Injectable for tests.
	Writable func(dir string) bool

	// IsTTY reports whether a terminal is attached, which decides if
	// sudo may prompt for a password. Injectable for tests.
	IsTTY func() bool

	// AllowElevate is false when the user passed --no-elevate: any
	// operation that would need sudo fails with a PermissionError
	// instead.
	AllowElevate bool

	Log log.Logger
}

// NewManager returns a Manager bound to the real environment.
func NewManager() *Manager {
	return &Manager{
		Run:          defaultRun,
		Writable:     writable,
		IsTTY:        func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		AllowElevate: true,
		Log:          log.Default(),
	}
}

func writable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}

func (m *Manager) logger() log.Logger {
	if m.Log != nil {
		return m.Log
	}
	return log.Default()
}

// Install places artifact into the target and returns the installed
// path. Overwriting an existing binary is expected and succeeds;
// repeated installs converge on the same result.
func (m *Manager) Install(ctx context.Context, artifact string, t Target) (string, error) {
	if err := validateArtifact(artifact); err != nil {
		return "", err
	}

	dst := t.BinaryPath()
	session := &sudoSession{m: m, target: t, op: "install"}

	if err := m.ensureDir(ctx, t, session); err != nil {
		return "", err
	}

	if m.Writable(t.Dir) {
		m.logger().Debug("placing binary directly", "artifact", artifact, "dst", dst)
		if err := placeAtomic(artifact, dst); err != nil {
			return "", err
		}
		return dst, nil
	}

	if !t.Elevated {
		return "", &PermissionError{
			Target: t.Name, Dir: t.Dir, Op: "install",
			Message: "directory is not writable",
		}
	}

	if err := m.preflightElevation(ctx, t, "install"); err != nil {
		return "", err
	}

	// Staged copy-then-rename under sudo, plain argv throughout.
	tmp := dst + ".tmp"
	m.logger().Debug("placing binary via sudo", "artifact", artifact, "dst", dst)
	if err := session.run(ctx, "cp", artifact, tmp); err != nil {
		return "", err
	}
	if err := session.run(ctx, "chmod", "0755", tmp); err != nil {
		session.cleanup(ctx, tmp)
		return "", err
	}
	if err := session.run(ctx, "mv", "-f", tmp, dst); err != nil {
		session.cleanup(ctx, tmp)
		return "", err
	}
	return dst, nil
}

// Uninstall removes the binary from the target. A binary that is
// already absent is a successful no-op; removed reports whether a file
// was actually deleted. The other scope's directory is never touched.
func (m *Manager) Uninstall(ctx context.Context, t Target) (removed bool, err error) {
	path := t.BinaryPath()

	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			m.logger().Debug("nothing to uninstall", "path", path)
			return false, nil
		}
		return false, &InstallError{Path: path, Op: "uninstall", Message: "cannot inspect target", Err: err}
	}

	if m.Writable(t.Dir) {
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return false, &PermissionError{Target: t.Name, Dir: t.Dir, Op: "uninstall", Message: "removal denied", Err: err}
			}
			return false, &InstallError{Path: path, Op: "uninstall", Message: "removal failed", Err: err}
		}
		return true, nil
	}

	if !t.Elevated {
		return false, &PermissionError{
			Target: t.Name, Dir: t.Dir, Op: "uninstall",
			Message: "directory is not writable",
		}
	}

	if err := m.preflightElevation(ctx, t, "uninstall"); err != nil {
		return false, err
	}

	session := &sudoSession{m: m, target: t, op: "uninstall"}
	if err := session.run(ctx, "rm", "-f", path); err != nil {
		return false, err
	}
	return true, nil
}

// ensureDir creates the target directory when missing. User scopes
// create it directly; the system scope escalates when it must.
func (m *Manager) ensureDir(ctx context.Context, t Target, session *sudoSession) error {
	if _, err := os.Stat(t.Dir); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &InstallError{Path: t.Dir, Op: "install", Message: "cannot inspect target directory", Err: err}
	}

	err := os.MkdirAll(t.Dir, 0755)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrPermission) {
		return &InstallError{Path: t.Dir, Op: "install", Message: "cannot create target directory", Err: err}
	}
	if !t.Elevated {
		return &PermissionError{
			Target: t.Name, Dir: t.Dir, Op: "install",
			Message: "cannot create directory", Err: err,
		}
	}

	if err := m.preflightElevation(ctx, t, "install"); err != nil {
		return err
	}
	return session.run(ctx, "mkdir", "-p", t.Dir)
}

// preflightElevation decides whether a sudo attempt is even allowed.
func (m *Manager) preflightElevation(ctx context.Context, t Target, op string) error {
	if !m.AllowElevate {
		return &PermissionError{
			Target: t.Name, Dir: t.Dir, Op: op,
			Message: "directory is not writable and elevation is disabled (--no-elevate)",
		}
	}
	if m.IsTTY() {
		// sudo can prompt interactively.
		return nil
	}
	// No terminal: only cached or passwordless sudo can work.
	if err := m.Run(ctx, "sudo", "-n", "true"); err != nil {
		return &PermissionError{
			Target: t.Name, Dir: t.Dir, Op: op,
			Message: "sudo needs a password but no terminal is attached",
			Err:     err,
		}
	}
	return nil
}

// sudoSession tracks whether any sudo command has succeeded yet. The
// first failure is treated as an authentication refusal
// (PermissionError); once one command has run, later failures are real
// I/O errors (InstallError).
type sudoSession struct {
	m      *Manager
	target Target
	op     string
	authed bool
}

func (s *sudoSession) run(ctx context.Context, args ...string) error {
	argv := append([]string{}, args...)
	err := s.m.Run(ctx, "sudo", argv...)
	if err == nil {
		s.authed = true
		return nil
	}
	if !s.authed {
		return &PermissionError{
			Target: s.target.Name, Dir: s.target.Dir, Op: s.op,
			Message: fmt.Sprintf("sudo %s refused", argv[0]),
			Err:     err,
		}
	}
	return &InstallError{
		Path: s.target.Dir, Op: s.op,
		Message: fmt.Sprintf("sudo %s failed", argv[0]),
		Err:     err,
	}
}

func (s *sudoSession) cleanup(ctx context.Context, tmp string) {
	if err := s.m.Run(ctx, "sudo", "rm", "-f", tmp); err != nil {
		s.m.logger().Debug("failed to clean staged file", "path", tmp, "error", err)
	}
}

// validateArtifact rejects inputs that cannot be a built binary before
// any copying starts.
func validateArtifact(artifact string) error {
	info, err := os.Stat(artifact)
	if err != nil {
		return &InstallError{Path: artifact, Op: "install", Message: "artifact missing; run the build first", Err: err}
	}
	if !info.Mode().IsRegular() {
		return &InstallError{Path: artifact, Op: "install", Message: "artifact is not a regular file"}
	}
	if info.Size() == 0 {
		return &InstallError{Path: artifact, Op: "install", Message: "artifact is empty"}
	}
	if info.Mode().Perm()&0111 == 0 {
		return &InstallError{Path: artifact, Op: "install", Message: "artifact is not executable"}
	}
	return nil
}

// placeAtomic copies the artifact into place with write-temp-then-
// rename in the destination directory, so the binary is never observed
// half-written.
func placeAtomic(artifact, dst string) error {
	data, err := os.ReadFile(artifact)
	if err != nil {
		return &InstallError{Path: artifact, Op: "install", Message: "cannot read artifact", Err: err}
	}
	if err := renameio.WriteFile(dst, data, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return &PermissionError{Dir: dst, Op: "install", Message: "write denied", Err: err}
		}
		return &InstallError{Path: dst, Op: "install", Message: "atomic replace failed", Err: err}
	}
	return nil
}
