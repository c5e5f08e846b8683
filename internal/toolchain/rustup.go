package toolchain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/canny-cli/cannyup/internal/httputil"
	"github.com/canny-cli/cannyup/internal/log"
	"github.com/canny-cli/cannyup/internal/platform"
)

// bootstrapURL is the rustup bootstrap endpoint. It is fixed at build
// time and must never be derived from flags, config or environment.
const bootstrapURL = "https://sh.rustup.rs"

// maxScriptSize caps the bootstrap script download. The real script is
// tens of kilobytes; anything near this limit is not rustup-init.
const maxScriptSize = 4 << 20

// RunFunc executes a command with the given argv, streaming its output
// to the user. Injectable for tests.
type RunFunc func(ctx context.Context, name string, args ...string) error

func defaultRun(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// Installer performs toolchain installations. Rust installs go through
// the rustup bootstrap script over the hardened HTTPS channel; the C
// compiler is either triggered (darwin) or turned into instructions
// (linux), since package managers need root.
type Installer struct {
	Client  *http.Client // hardened; TLS 1.2 floor
	Run     RunFunc
	HomeDir func() (string, error)
	Log     log.Logger

	// PinSHA256, when non-empty, is the required hex checksum of the
	// downloaded bootstrap script.
	PinSHA256 string

	// url stays bootstrapURL outside package tests. Deliberately
	// unexported: callers cannot point the installer anywhere else.
	url string
}

func (i *Installer) endpoint() string {
	if i.url == "" {
		return bootstrapURL
	}
	return i.url
}

// NewInstaller returns an Installer bound to the real environment.
// pin may be empty to skip checksum enforcement.
func NewInstaller(pin string) *Installer {
	return &Installer{
		Client:    httputil.NewSecureClient(httputil.DefaultOptions()),
		Run:       defaultRun,
		HomeDir:   os.UserHomeDir,
		PinSHA256: strings.ToLower(pin),
	}
}

func (i *Installer) logger() log.Logger {
	if i.Log != nil {
		return i.Log
	}
	return log.Default()
}

// InstallRust downloads and runs the rustup bootstrap script, then
// verifies cargo exists where rustup puts it. On success the returned
// State carries the cargo path; callers thread its directory into later
// build commands. No environment variables are exported, so a failed
// install can never make a later probe report a phantom toolchain.
func (i *Installer) InstallRust(ctx context.Context) (State, error) {
	script, err := i.download(ctx)
	if err != nil {
		return State{}, err
	}

	if i.PinSHA256 != "" {
		sum := sha256.Sum256(script)
		actual := hex.EncodeToString(sum[:])
		if actual != i.PinSHA256 {
			return State{}, &InstallError{
				Tool:    "rust",
				Phase:   PhaseChecksum,
				Message: fmt.Sprintf("bootstrap script checksum %s does not match pinned %s", actual, i.PinSHA256),
			}
		}
		i.logger().Debug("bootstrap script checksum verified", "sha256", actual)
	}

	tmp, err := os.CreateTemp("", "rustup-init-*.sh")
	if err != nil {
		return State{}, &InstallError{Tool: "rust", Phase: PhaseExecute, Message: "failed to stage bootstrap script", Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(script); err != nil {
		tmp.Close()
		return State{}, &InstallError{Tool: "rust", Phase: PhaseExecute, Message: "failed to write bootstrap script", Err: err}
	}
	if err := tmp.Chmod(0700); err != nil {
		tmp.Close()
		return State{}, &InstallError{Tool: "rust", Phase: PhaseExecute, Message: "failed to set script permissions", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return State{}, &InstallError{Tool: "rust", Phase: PhaseExecute, Message: "failed to finalize bootstrap script", Err: err}
	}

	i.logger().Info("running rustup bootstrap", "script", tmpPath)
	// --no-modify-path keeps the installer out of shell profiles; the
	// resulting State is the only channel back to the pipeline.
	if err := i.Run(ctx, "sh", tmpPath, "-s", "--", "-y", "--no-modify-path", "--profile", "minimal"); err != nil {
		return State{}, &InstallError{Tool: "rust", Phase: PhaseExecute, Message: "bootstrap script failed", Err: err}
	}

	home, err := i.HomeDir()
	if err != nil {
		return State{}, &InstallError{Tool: "rust", Phase: PhaseVerify, Message: "cannot locate home directory", Err: err}
	}
	cargoPath := filepath.Join(home, ".cargo", "bin", "cargo")
	if _, err := os.Stat(cargoPath); err != nil {
		return State{}, &InstallError{Tool: "rust", Phase: PhaseVerify, Message: fmt.Sprintf("cargo not found at %s after install", cargoPath), Err: err}
	}

	return State{Tool: "cargo", Present: true, Path: cargoPath}, nil
}

func (i *Installer) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.endpoint(), nil)
	if err != nil {
		return nil, &InstallError{Tool: "rust", Phase: PhaseDownload, Message: "failed to build request", Err: err}
	}

	i.logger().Info("downloading bootstrap script", "url", i.endpoint())
	resp, err := i.Client.Do(req)
	if err != nil {
		return nil, &InstallError{Tool: "rust", Phase: PhaseDownload, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &InstallError{Tool: "rust", Phase: PhaseDownload, Message: fmt.Sprintf("bad status: %s", resp.Status)}
	}

	script, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptSize+1))
	if err != nil {
		return nil, &InstallError{Tool: "rust", Phase: PhaseDownload, Message: "failed to read response", Err: err}
	}
	if len(script) > maxScriptSize {
		return nil, &InstallError{Tool: "rust", Phase: PhaseDownload, Message: "bootstrap script exceeds size limit"}
	}
	if len(script) == 0 {
		return nil, &InstallError{Tool: "rust", Phase: PhaseDownload, Message: "empty response"}
	}
	return script, nil
}

// InstallCompiler makes a C compiler available, to the extent this
// process can. On darwin it triggers the Command Line Tools installer
// and asks the user to re-run once the GUI dialog completes. On linux
// installing compilers needs the system package manager and root, so
// the result is always an InstallError carrying the exact command.
func (i *Installer) InstallCompiler(ctx context.Context, goos string) error {
	if goos == "darwin" {
		i.logger().Info("triggering Xcode Command Line Tools install")
		if err := i.Run(ctx, "xcode-select", "--install"); err != nil {
			return &InstallError{
				Tool:    "cc",
				Phase:   PhaseExecute,
				Message: "xcode-select --install failed",
				Err:     err,
			}
		}
		return &InstallError{
			Tool:    "cc",
			Phase:   PhaseVerify,
			Message: "Command Line Tools installer started; complete the dialog, then re-run cannyup install",
		}
	}

	family, err := platform.DetectFamily()
	if err != nil {
		i.logger().Debug("distro family detection failed", "error", err)
	}
	return &InstallError{
		Tool:    "cc",
		Phase:   PhaseExecute,
		Message: fmt.Sprintf("no C compiler found; install one with: %s", platform.CompilerInstallHint(family)),
	}
}
