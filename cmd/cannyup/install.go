package main

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/canny-cli/cannyup/internal/cargo"
	"github.com/canny-cli/cannyup/internal/config"
	"github.com/canny-cli/cannyup/internal/install"
	"github.com/canny-cli/cannyup/internal/toolchain"
	"github.com/canny-cli/cannyup/internal/ui"
	"github.com/canny-cli/cannyup/internal/verify"
)

var noElevateFlag bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Build canny and install it system-wide",
	Long: `Build canny with the release profile and install it into the system
directory (default /usr/local/bin). Missing toolchain pieces are
bootstrapped first: rustup for cargo, instructions for a C compiler.

When the directory is not writable the staged copy runs through sudo.
Pass --no-elevate to fail instead of escalating.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		runPipeline(cfg, install.SystemTarget(cfg.SystemBinDir), !noElevateFlag)
	},
}

var installUserCmd = &cobra.Command{
	Use:   "install-user",
	Short: "Build canny and install it for the current user",
	Long: `Build canny with the release profile and install it into the per-user
binary directory. The directory comes from CANNYUP_BIN_DIR, then the
bin_dir config key, then the XDG default. No privileges are ever
escalated for this scope.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		runPipeline(cfg, install.UserTarget(cfg.UserBinDir), false)
	},
}

func init() {
	installCmd.Flags().BoolVar(&noElevateFlag, "no-elevate", false, "Fail instead of escalating via sudo")
}

func runPipeline(cfg *config.Config, target install.Target, allowElevate bool) {
	if err := cfg.CheckSourceTree(); err != nil {
		printError(err)
		exitWithCode(ExitGeneral)
	}
	if err := newPipeline(cfg, target, allowElevate).run(globalCtx); err != nil {
		fatal(err)
	}
}

// pipeline is the bootstrap sequence for one install scope. Each stage
// is a function field so tests can observe ordering and inject
// failures without touching the real toolchain.
type pipeline struct {
	target install.Target

	probeCompiler   func(ctx context.Context) (toolchain.State, error)
	installCompiler func(ctx context.Context) error
	probeCargo      func(ctx context.Context) (toolchain.State, error)
	installRust     func(ctx context.Context) (toolchain.State, error)
	build           func(ctx context.Context, cargoPath string, extraPath []string) (string, error)
	place           func(ctx context.Context, artifact string) (string, error)
	check           func(installed string) verify.Result
}

func newPipeline(cfg *config.Config, target install.Target, allowElevate bool) *pipeline {
	prober := toolchain.NewProber()
	installer := toolchain.NewInstaller(cfg.Settings.RustupSHA256)

	return &pipeline{
		target:        target,
		probeCompiler: prober.ProbeCompiler,
		installCompiler: func(ctx context.Context) error {
			return installer.InstallCompiler(ctx, runtime.GOOS)
		},
		probeCargo: func(ctx context.Context) (toolchain.State, error) {
			if explicit := cfg.Settings.Cargo; explicit != "" {
				return prober.ProbeAt(ctx, "cargo", explicit), nil
			}
			return prober.Probe(ctx, "cargo")
		},
		installRust: installer.InstallRust,
		build: func(ctx context.Context, cargoPath string, extraPath []string) (string, error) {
			r := newRunner(cfg)
			if cargoPath != "" {
				r.Cargo = cargoPath
			}
			r.ExtraPath = extraPath
			return r.Build(ctx, cargo.ProfileRelease)
		},
		place: func(ctx context.Context, artifact string) (string, error) {
			mgr := install.NewManager()
			mgr.AllowElevate = allowElevate
			return mgr.Install(ctx, artifact, target)
		},
		check: func(installed string) verify.Result {
			return verify.NewChecker().Check(config.BinaryName, installed)
		},
	}
}

// run executes the stages in order and stops at the first failure.
// Nothing is retried; a failed stage leaves everything before it in
// place and everything after it untouched.
func (p *pipeline) run(ctx context.Context) error {
	ui.Step("checking build toolchain")
	cc, err := p.probeCompiler(ctx)
	if err != nil {
		return err
	}
	if !cc.Present {
		ui.Warn("no C compiler found")
		return p.installCompiler(ctx)
	}

	cargoState, err := p.probeCargo(ctx)
	if err != nil {
		return err
	}

	var cargoPath string
	var extraPath []string
	if cargoState.Present {
		cargoPath = cargoState.Path
		if ok, _ := toolchain.MeetsMinimum(cargoState, toolchain.MinCargoVersion); !ok && cargoState.Version != "" {
			ui.Warn("cargo %s is older than the oldest tested release %s", cargoState.Version, toolchain.MinCargoVersion)
		}
	} else {
		ui.Step("installing the Rust toolchain")
		st, err := p.installRust(ctx)
		if err != nil {
			return err
		}
		// The fresh toolchain is not on PATH yet; thread its directory
		// into the build subprocess instead of mutating our environment.
		cargoPath = st.Path
		extraPath = append(extraPath, filepath.Dir(st.Path))
	}

	ui.Step("building canny (release)")
	artifact, err := p.build(ctx, cargoPath, extraPath)
	if err != nil {
		return err
	}

	ui.Step("installing canny to %s", p.target.Dir)
	installed, err := p.place(ctx, artifact)
	if err != nil {
		return err
	}
	ui.Success("installed %s", installed)

	p.report(p.check(installed))
	return nil
}

// report prints the advisory PATH check outcome. Warnings only; a
// completed install never fails over PATH state.
func (p *pipeline) report(res verify.Result) {
	switch res.Status {
	case verify.StatusOK:
		ui.Success("canny resolves to %s", res.Resolved)
	case verify.StatusShadowed:
		ui.Warn("another canny at %s shadows the one just installed", res.Resolved)
		ui.Info("Reorder PATH so %s comes first", p.target.Dir)
	default:
		ui.Warn("%s is not on PATH", p.target.Dir)
		ui.Info("Add it to your shell profile with: %s", verify.ExportLine(p.target.Dir))
	}
}
