package toolchain

import "fmt"

// EnvironmentError reports that the probing machinery itself is broken,
// as opposed to a tool simply being absent. An absent tool is a clean
// negative probe result; a probe that cannot run at all must stop the
// pipeline before any install decision is made.
type EnvironmentError struct {
	Tool    string // tool being probed when the machinery failed
	Message string
	Err     error
}

func (e *EnvironmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("environment: cannot probe for %s: %s: %v", e.Tool, e.Message, e.Err)
	}
	return fmt.Sprintf("environment: cannot probe for %s: %s", e.Tool, e.Message)
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable hint for the user.
func (e *EnvironmentError) Suggestion() string {
	return "Check that PATH is set and its entries are readable, then re-run with --debug for detail"
}

// InstallPhase identifies where a toolchain installation failed.
type InstallPhase int

const (
	// PhaseDownload covers fetching the bootstrap script.
	PhaseDownload InstallPhase = iota
	// PhaseChecksum covers verification against a pinned checksum.
	PhaseChecksum
	// PhaseExecute covers running the bootstrap script.
	PhaseExecute
	// PhaseVerify covers the post-install presence check.
	PhaseVerify
)

func (p InstallPhase) String() string {
	switch p {
	case PhaseDownload:
		return "download"
	case PhaseChecksum:
		return "checksum"
	case PhaseExecute:
		return "execute"
	case PhaseVerify:
		return "verify"
	default:
		return "unknown"
	}
}

// InstallError reports a failed toolchain installation. The pipeline
// treats it as fatal; there are no retries.
type InstallError struct {
	Tool    string
	Phase   InstallPhase
	Message string
	Err     error
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s install failed during %s: %s: %v", e.Tool, e.Phase, e.Message, e.Err)
	}
	return fmt.Sprintf("%s install failed during %s: %s", e.Tool, e.Phase, e.Message)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable hint based on the failed phase.
func (e *InstallError) Suggestion() string {
	switch e.Phase {
	case PhaseDownload:
		return "Check your internet connection; the bootstrap channel requires HTTPS with TLS 1.2 or newer"
	case PhaseChecksum:
		return "The pinned rustup_sha256 may be stale; update it with `cannyup config set rustup_sha256 <checksum>` or clear it"
	case PhaseExecute:
		return "Inspect the installer output above, then re-run with --debug for full detail"
	case PhaseVerify:
		return "The installer finished but cargo did not appear; remove ~/.rustup and try again"
	default:
		return ""
	}
}
