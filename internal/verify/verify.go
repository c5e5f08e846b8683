// Package verify checks where an installed binary resolves from the
// user's PATH.
//
// Verification is advisory. A binary that installed fine but is not
// reachable, or is shadowed by another binary earlier in PATH, is
// something for the user to fix in their shell profile, not a failed
// install. Nothing here executes the installed binary.
package verify

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/canny-cli/cannyup/internal/log"
)

// Status classifies how a binary name resolves from PATH.
type Status int

const (
	// StatusOK means PATH resolves the name to the installed binary.
	StatusOK Status = iota

	// StatusNotOnPath means the name does not resolve at all.
	StatusNotOnPath

	// StatusShadowed means the name resolves to a different binary
	// earlier in PATH.
	StatusShadowed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotOnPath:
		return "not-on-path"
	case StatusShadowed:
		return "shadowed"
	default:
		return "unknown"
	}
}

// Result describes the outcome of a reachability check.
type Result struct {
	Status Status

	// Installed is the path the binary was placed at.
	Installed string

	// Resolved is what PATH lookup found, empty when nothing resolved.
	Resolved string
}

// Checker resolves binary names against PATH.
type Checker struct {
	// LookPath resolves a name the way the shell would. Injectable
	// for testing.
	LookPath func(name string) (string, error)

	// Getenv reads environment variables. Injectable for testing.
	Getenv func(key string) string

	Log log.Logger
}

// NewChecker returns a Checker bound to the real environment.
func NewChecker() *Checker {
	return &Checker{
		LookPath: exec.LookPath,
		Getenv:   os.Getenv,
		Log:      log.Default(),
	}
}

// Check reports how name resolves from PATH relative to the binary
// installed at installed. It never fails: lookup problems degrade to
// StatusNotOnPath.
func (c *Checker) Check(name, installed string) Result {
	res := Result{Installed: installed}

	resolved, err := c.LookPath(name)
	if err != nil {
		if c.Log != nil {
			c.Log.Debug("binary not resolvable from PATH", "name", name, "error", err)
		}
		res.Status = StatusNotOnPath
		return res
	}
	res.Resolved = resolved

	if samePath(resolved, installed) {
		res.Status = StatusOK
		return res
	}
	res.Status = StatusShadowed
	return res
}

// DirOnPath reports whether dir is one of the PATH entries.
func (c *Checker) DirOnPath(dir string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	for _, entry := range filepath.SplitList(c.Getenv("PATH")) {
		if entry == "" {
			continue
		}
		absEntry, err := filepath.Abs(entry)
		if err != nil {
			continue
		}
		if absEntry == absDir {
			return true
		}
	}
	return false
}

// samePath compares two paths after resolving symlinks, so an install
// dir reached through a symlinked PATH entry still counts as a match.
func samePath(a, b string) bool {
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	if errA == nil && errB == nil {
		return ra == rb
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

// ExportLine returns the shell line that puts dir ahead of PATH, for
// pasting into a profile or eval'ing directly.
func ExportLine(dir string) string {
	return fmt.Sprintf("export PATH=\"%s:$PATH\"", dir)
}
