package main

import (
	"github.com/spf13/cobra"

	"github.com/canny-cli/cannyup/internal/cargo"
	"github.com/canny-cli/cannyup/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile canny with the debug profile",
	Long: `Compile canny with cargo's debug profile. The binary lands in
target/debug/ inside the source tree and is not installed anywhere.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runBuild(cargo.ProfileDebug)
	},
}

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Compile canny with the release profile",
	Long: `Compile canny with cargo's release profile, producing the optimized
binary that install and dist operate on.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runBuild(cargo.ProfileRelease)
	},
}

func runBuild(profile cargo.Profile) {
	cfg := loadConfig()
	if err := cfg.CheckSourceTree(); err != nil {
		printError(err)
		exitWithCode(ExitGeneral)
	}

	ui.Step("building canny (%s)", profile)
	artifact, err := newRunner(cfg).Build(globalCtx, profile)
	if err != nil {
		fatal(err)
	}
	ui.Success("built %s", artifact)
}
