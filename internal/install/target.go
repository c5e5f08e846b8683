// Package install places the built canny binary into an install target
// and removes it again. Two scopes exist: the privileged system
// directory and the per-user directory. Every operation touches exactly
// one scope; the scopes never see each other.
//
// Placement is copy-then-rename in the destination directory, so a
// reader never observes a partially written binary. When the target
// directory is not writable and the scope allows it, the same staged
// sequence runs through sudo as plain argv, never a shell string.
package install

import (
	"path/filepath"

	"github.com/canny-cli/cannyup/internal/config"
)

// Target identifies one install scope.
type Target struct {
	// Name is "system" or "user", used in messages and reports.
	Name string

	// Dir is the directory the binary lives in.
	Dir string

	// Elevated marks scopes that may escalate privileges when Dir is
	// not writable. Only the system scope does.
	Elevated bool
}

// SystemTarget returns the privileged scope rooted at dir.
func SystemTarget(dir string) Target {
	return Target{Name: "system", Dir: dir, Elevated: true}
}

// UserTarget returns the unprivileged scope rooted at dir.
func UserTarget(dir string) Target {
	return Target{Name: "user", Dir: dir, Elevated: false}
}

// BinaryPath returns the full path of the managed binary inside the
// target.
func (t Target) BinaryPath() string {
	return filepath.Join(t.Dir, config.BinaryName)
}
