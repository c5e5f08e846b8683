package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canny-cli/cannyup/internal/config"
	"github.com/canny-cli/cannyup/internal/install"
	"github.com/canny-cli/cannyup/internal/platform"
	"github.com/canny-cli/cannyup/internal/toolchain"
	"github.com/canny-cli/cannyup/internal/verify"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the canny build environment is healthy",
	Long: `Verify the build environment: source tree present, C compiler and
Rust toolchain available, install directory on PATH, installed binary
reachable.

Exits with a non-zero status if any check fails, making it suitable
for use as a gate in scripts and CI:

  cannyup doctor || exit 1`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg := loadConfig()
		report := collectDoctor(globalCtx, cfg, toolchain.NewProber(), verify.NewChecker())

		if jsonOutput {
			printJSON(report)
		} else {
			renderDoctor(report)
		}

		if !report.OK {
			exitWithCode(ExitGeneral)
		}
	},
}

func init() {
	doctorCmd.Flags().Bool("json", false, "Output in JSON format")
}

type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
	Hint   string `json:"hint,omitempty"`
}

type doctorReport struct {
	Checks []doctorCheck `json:"checks"`
	OK     bool          `json:"ok"`
}

// collectDoctor runs every check and aggregates the results. It never
// stops early; the point of doctor is the full picture.
func collectDoctor(ctx context.Context, cfg *config.Config, prober *toolchain.Prober, checker *verify.Checker) doctorReport {
	var checks []doctorCheck

	source := doctorCheck{Name: "source tree", OK: true, Detail: cfg.SourceDir}
	if err := cfg.CheckSourceTree(); err != nil {
		source.OK = false
		source.Detail = err.Error()
		source.Hint = "Pass --source-dir or run from the canny checkout"
	}
	checks = append(checks, source)

	ccState, ccErr := prober.ProbeCompiler(ctx)
	checks = append(checks, stateCheck("C compiler", ccState, ccErr, compilerHint()))

	var cargoState toolchain.State
	var cargoErr error
	if explicit := cfg.Settings.Cargo; explicit != "" {
		cargoState = prober.ProbeAt(ctx, "cargo", explicit)
	} else {
		cargoState, cargoErr = prober.Probe(ctx, "cargo")
	}
	cargoCheck := stateCheck("cargo", cargoState, cargoErr, "Run `cannyup install` or `cannyup install-user` to bootstrap the toolchain")
	if cargoCheck.OK {
		if ok, _ := toolchain.MeetsMinimum(cargoState, toolchain.MinCargoVersion); !ok && cargoState.Version != "" {
			cargoCheck.Detail += fmt.Sprintf(" (older than %s, the oldest tested release)", toolchain.MinCargoVersion)
		}
	}
	checks = append(checks, cargoCheck)

	rustcState, rustcErr := prober.Probe(ctx, "rustc")
	checks = append(checks, stateCheck("rustc", rustcState, rustcErr, "rustup installs rustc alongside cargo; run `cannyup install`"))

	pathCheck := doctorCheck{Name: "user bin dir on PATH", OK: true, Detail: cfg.UserBinDir}
	if !checker.DirOnPath(cfg.UserBinDir) {
		pathCheck.OK = false
		pathCheck.Detail = fmt.Sprintf("%s is not in your PATH", cfg.UserBinDir)
		pathCheck.Hint = "Run: eval $(cannyup shellenv)"
	}
	checks = append(checks, pathCheck)

	checks = append(checks, binaryCheck(cfg, checker))

	report := doctorReport{Checks: checks, OK: true}
	for _, c := range checks {
		if !c.OK {
			report.OK = false
			break
		}
	}
	return report
}

// stateCheck turns one probe result into a check row. A probe error
// means the machinery is broken, which fails the check with the error
// itself rather than the absent-tool hint.
func stateCheck(name string, st toolchain.State, err error, absentHint string) doctorCheck {
	if err != nil {
		return doctorCheck{Name: name, Detail: err.Error()}
	}
	if !st.Present {
		return doctorCheck{Name: name, Detail: "not found", Hint: absentHint}
	}

	detail := st.Path
	if st.Version != "" {
		detail = fmt.Sprintf("%s at %s", st.Version, st.Path)
	}
	return doctorCheck{Name: name, OK: true, Detail: detail}
}

// binaryCheck reports where the managed binary resolves. A machine
// without canny installed passes; a shadowed or unreachable install
// does not.
func binaryCheck(cfg *config.Config, checker *verify.Checker) doctorCheck {
	installed := ""
	for _, t := range []install.Target{
		install.SystemTarget(cfg.SystemBinDir),
		install.UserTarget(cfg.UserBinDir),
	} {
		if _, err := os.Stat(t.BinaryPath()); err == nil {
			installed = t.BinaryPath()
			break
		}
	}
	if installed == "" {
		return doctorCheck{Name: config.BinaryName, OK: true, Detail: "not installed yet"}
	}

	res := checker.Check(config.BinaryName, installed)
	switch res.Status {
	case verify.StatusOK:
		return doctorCheck{Name: config.BinaryName, OK: true, Detail: res.Resolved}
	case verify.StatusShadowed:
		return doctorCheck{
			Name:   config.BinaryName,
			Detail: fmt.Sprintf("resolves to %s, expected %s", res.Resolved, res.Installed),
			Hint:   "Another canny is earlier in PATH; reorder PATH or remove it",
		}
	default:
		return doctorCheck{
			Name:   config.BinaryName,
			Detail: fmt.Sprintf("installed at %s but not reachable via PATH", res.Installed),
			Hint:   "Run: eval $(cannyup shellenv)",
		}
	}
}

func compilerHint() string {
	family, err := platform.DetectFamily()
	if err != nil {
		family = ""
	}
	return "Install one with: " + platform.CompilerInstallHint(family)
}

func renderDoctor(report doctorReport) {
	fmt.Println("Checking the canny build environment...")

	for _, c := range report.Checks {
		fmt.Fprintf(os.Stdout, "  %s", c.Name)
		if c.OK {
			if c.Detail != "" {
				fmt.Printf(": %s", c.Detail)
			}
			fmt.Println(" ... ok")
			continue
		}

		fmt.Println(" ... FAIL")
		if c.Detail != "" {
			fmt.Fprintf(os.Stderr, "    %s\n", c.Detail)
		}
		if c.Hint != "" {
			fmt.Fprintf(os.Stderr, "    %s\n", c.Hint)
		}
	}

	fmt.Println()
	if report.OK {
		fmt.Println("Everything looks good!")
	} else {
		fmt.Println("Environment check failed.")
	}
}
