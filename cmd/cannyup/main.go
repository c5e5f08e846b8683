// Command cannyup builds, installs and manages the canny binary from
// its source tree. It orchestrates external tools (rustup, cargo, sudo)
// and never executes the binary it manages.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/canny-cli/cannyup/internal/buildinfo"
	"github.com/canny-cli/cannyup/internal/log"
	"github.com/canny-cli/cannyup/internal/ui"
)

var (
	quietFlag   bool
	verboseFlag bool
	debugFlag   bool
	noColorFlag bool

	// sourceDirFlag is where the canny source tree lives. Defaults to
	// the current directory so `cannyup build` works from a checkout.
	sourceDirFlag string
)

// globalCtx is canceled on SIGINT/SIGTERM so subprocesses die with us.
var globalCtx = context.Background()

var rootCmd = &cobra.Command{
	Use:   "cannyup",
	Short: "Build and install canny from source",
	Long: `cannyup is the bootstrap tool for canny. It probes for the Rust
toolchain, installs it via rustup when missing, builds canny with
cargo, and places the binary into a system or per-user directory.

Run it from the canny source tree, or point --source-dir at one.

Examples:
  cannyup build
  cannyup install
  cannyup install-user
  cannyup uninstall`,
	Version: buildinfo.Version(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetDefault(log.NewText(os.Stderr, determineLogLevel()))
		ui.SetQuiet(quietFlag || isTruthy(os.Getenv("CANNYUP_QUIET")))
		if noColorFlag {
			ui.DisableColor()
		}
	},
}

// isTruthy interprets an environment variable value as a boolean.
func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// determineLogLevel resolves the diagnostic verbosity. Flags win over
// environment variables; within each group debug > verbose > quiet.
func determineLogLevel() slog.Level {
	if quietFlag || verboseFlag || debugFlag {
		return log.LevelFromFlags(quietFlag, verboseFlag, debugFlag)
	}
	return log.LevelFromFlags(
		isTruthy(os.Getenv("CANNYUP_QUIET")),
		isTruthy(os.Getenv("CANNYUP_VERBOSE")),
		isTruthy(os.Getenv("CANNYUP_DEBUG")))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress status output; errors still print")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log operational detail")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log full troubleshooting detail")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&sourceDirFlag, "source-dir", "C", ".", "Path to the canny source tree")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(installUserCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(uninstallUserCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(distCmd)
	rootCmd.AddCommand(outdatedCmd)
	rootCmd.AddCommand(shellenvCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	globalCtx = ctx

	// Subcommands exit through fatal() with a mapped code, so any error
	// surfacing here came from cobra itself: bad flags or an unknown
	// command.
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitUsage)
	}
}
