package main

import (
	"errors"
	"os"

	"github.com/canny-cli/cannyup/internal/cargo"
	"github.com/canny-cli/cannyup/internal/install"
	"github.com/canny-cli/cannyup/internal/toolchain"
)

// Exit codes for different error types.
// These enable scripts to distinguish between failure modes.
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitGeneral indicates a general error
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments or usage error
	ExitUsage = 2

	// ExitEnvironment indicates the toolchain probe machinery failed
	ExitEnvironment = 10

	// ExitToolchain indicates a toolchain installation failed
	ExitToolchain = 11

	// ExitBuild indicates cargo reported a failure
	ExitBuild = 12

	// ExitPermission indicates a privilege problem at the install target
	ExitPermission = 13

	// ExitInstall indicates binary placement or removal failed
	ExitInstall = 14
)

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	os.Exit(code)
}

// exitCodeFor maps an error to its exit code. Unknown errors map to
// ExitGeneral; nil maps to ExitSuccess.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var envErr *toolchain.EnvironmentError
	if errors.As(err, &envErr) {
		return ExitEnvironment
	}
	var tcErr *toolchain.InstallError
	if errors.As(err, &tcErr) {
		return ExitToolchain
	}
	var buildErr *cargo.BuildError
	if errors.As(err, &buildErr) {
		return ExitBuild
	}
	var permErr *install.PermissionError
	if errors.As(err, &permErr) {
		return ExitPermission
	}
	var instErr *install.InstallError
	if errors.As(err, &instErr) {
		return ExitInstall
	}

	return ExitGeneral
}
