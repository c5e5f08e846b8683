// Package errmsg provides enhanced error message formatting with
// actionable suggestions.
package errmsg

import (
	"errors"
	"strings"

	"github.com/canny-cli/cannyup/internal/cargo"
	"github.com/canny-cli/cannyup/internal/install"
	"github.com/canny-cli/cannyup/internal/toolchain"
	"github.com/canny-cli/cannyup/internal/version"
)

// Format returns a formatted error message with possible causes and
// suggestions. Unrecognized errors pass through unchanged.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var envErr *toolchain.EnvironmentError
	if errors.As(err, &envErr) {
		return formatEnvironmentError(envErr)
	}

	var tcErr *toolchain.InstallError
	if errors.As(err, &tcErr) {
		return formatToolchainError(tcErr)
	}

	var buildErr *cargo.BuildError
	if errors.As(err, &buildErr) {
		return formatBuildError(buildErr)
	}

	var permErr *install.PermissionError
	if errors.As(err, &permErr) {
		return formatPermissionError(permErr)
	}

	var instErr *install.InstallError
	if errors.As(err, &instErr) {
		return formatInstallError(instErr)
	}

	var lookupErr *version.LookupError
	if errors.As(err, &lookupErr) {
		return formatLookupError(lookupErr)
	}

	msg := err.Error()
	if isNetworkError(msg) {
		return formatGenericNetwork(msg)
	}
	if isPermissionDenied(msg) {
		return formatGenericPermission(msg)
	}
	return msg
}

// block assembles the message / causes / suggestions layout shared by
// every formatter.
func block(header string, causes, suggestions []string) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")

	if len(causes) > 0 {
		sb.WriteString("\nPossible causes:\n")
		for _, c := range causes {
			sb.WriteString("  - ")
			sb.WriteString(c)
			sb.WriteString("\n")
		}
	}
	if len(suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range suggestions {
			sb.WriteString("  - ")
			sb.WriteString(s)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func withSuggestion(first string, rest ...string) []string {
	var out []string
	if first != "" {
		out = append(out, first)
	}
	return append(out, rest...)
}

func formatEnvironmentError(err *toolchain.EnvironmentError) string {
	return block(err.Error(),
		[]string{
			"PATH is misconfigured for this shell",
			"The " + err.Tool + " binary exists but cannot be executed",
		},
		withSuggestion(err.Suggestion(),
			"Run 'cannyup doctor' for a full environment report"))
}

func formatToolchainError(err *toolchain.InstallError) string {
	var causes []string
	switch err.Phase {
	case toolchain.PhaseDownload:
		causes = []string{
			"Network connectivity issue",
			"The bootstrap endpoint is temporarily unavailable",
		}
	case toolchain.PhaseChecksum:
		causes = []string{
			"The bootstrap script changed upstream",
			"The configured rustup_sha256 pin is stale",
		}
	case toolchain.PhaseExecute:
		causes = []string{
			"The installer exited with an error",
			"Missing system packages the installer needs",
		}
	case toolchain.PhaseVerify:
		causes = []string{
			"The toolchain did not finish installing",
		}
	}
	return block(err.Error(), causes,
		withSuggestion(err.Suggestion()))
}

func formatBuildError(err *cargo.BuildError) string {
	return block(err.Error(),
		[]string{
			"Compilation errors in the source tree",
			"A required cargo component is not installed",
		},
		withSuggestion(err.Suggestion(),
			"Inspect the cargo output above for the first reported error"))
}

func formatPermissionError(err *install.PermissionError) string {
	return block(err.Error(),
		[]string{
			err.Dir + " is not writable by this user",
			"sudo was refused or could not prompt for a password",
		},
		withSuggestion(err.Suggestion()))
}

func formatInstallError(err *install.InstallError) string {
	return block(err.Error(),
		[]string{
			"Disk full or read-only filesystem",
			"The file changed or disappeared mid-operation",
		},
		withSuggestion(err.Suggestion()))
}

func formatLookupError(err *version.LookupError) string {
	var causes []string
	switch err.Type {
	case version.ErrTypeRateLimit:
		causes = []string{
			"Too many requests to the GitHub API",
			"Unauthenticated requests have low limits",
		}
	case version.ErrTypeNotFound:
		causes = []string{
			"The configured repository has no releases",
			"Typo in the github_repo setting",
		}
	case version.ErrTypeParsing, version.ErrTypeValidation:
		causes = []string{
			"Unexpected data in Cargo.toml or the API response",
		}
	default:
		causes = []string{
			"Network connectivity issue",
			"Service temporarily unavailable",
		}
	}
	return block(err.Error(), causes,
		withSuggestion(err.Suggestion(),
			"Try again in a few minutes"))
}

func formatGenericNetwork(msg string) string {
	return block(msg,
		[]string{
			"Network connectivity issue",
			"DNS resolution failure",
			"Service temporarily unavailable",
		},
		[]string{
			"Check your internet connection",
			"Try again in a few minutes",
		})
}

func formatGenericPermission(msg string) string {
	return block(msg,
		[]string{
			"Insufficient permissions on the target path",
			"File or directory owned by a different user",
		},
		[]string{
			"Check ownership of the affected directory",
			"Use 'cannyup install-user' for a no-privilege install",
		})
}

// isNetworkError checks if the error message indicates a network issue.
func isNetworkError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "dial tcp") ||
		strings.Contains(lower, "i/o timeout")
}

// isPermissionDenied checks if the error message indicates a
// permission issue.
func isPermissionDenied(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
