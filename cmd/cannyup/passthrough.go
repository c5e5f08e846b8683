package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/canny-cli/cannyup/internal/cargo"
)

// The passthrough commands hand the source tree to one cargo
// subcommand each. cargo's own output is the user interface here;
// cannyup adds nothing but the exit-code mapping.

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cargo build artifacts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCargo((*cargo.Runner).Clean)
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run canny's test suite",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCargo((*cargo.Runner).Test)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Type-check canny without building",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCargo((*cargo.Runner).Check)
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Format the canny source tree",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCargo((*cargo.Runner).Fmt)
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint canny with clippy",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCargo((*cargo.Runner).Clippy)
	},
}

func runCargo(op func(*cargo.Runner, context.Context) error) {
	cfg := loadConfig()
	if err := cfg.CheckSourceTree(); err != nil {
		printError(err)
		exitWithCode(ExitGeneral)
	}
	if err := op(newRunner(cfg), globalCtx); err != nil {
		fatal(err)
	}
}
