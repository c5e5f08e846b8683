package install

import "fmt"

// PermissionError reports that a target needs privileges this process
// does not have: the directory is unwritable and elevation is either
// not allowed for the scope, disabled, declined, or impossible without
// a terminal. Distinguished from InstallError so callers can steer the
// user toward the user scope instead of a generic I/O message.
type PermissionError struct {
	Target  string // scope name
	Dir     string
	Op      string // "install" or "uninstall"
	Message string
	Err     error
}

func (e *PermissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s in %s: %s: %v", e.Op, e.Target, e.Dir, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s in %s: %s", e.Op, e.Target, e.Dir, e.Message)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable hint for the user.
func (e *PermissionError) Suggestion() string {
	if e.Target == "system" {
		return "Re-run from a terminal where sudo can prompt, or use `cannyup install-user` for a no-privilege install"
	}
	return "Point CANNYUP_BIN_DIR at a directory you can write to"
}

// InstallError reports a placement or removal failure that is not a
// permissions problem: copy failures, rename failures, a missing or
// non-executable artifact.
type InstallError struct {
	Path    string
	Op      string
	Message string
	Err     error
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Message)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable hint for the user.
func (e *InstallError) Suggestion() string {
	return "Check free disk space and that the target filesystem is not read-only, then try again"
}
