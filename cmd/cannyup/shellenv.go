package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canny-cli/cannyup/internal/verify"
)

var shellenvCmd = &cobra.Command{
	Use:   "shellenv",
	Short: "Print shell commands to put the user bin directory on PATH",
	Long: `Print the shell command that adds the per-user install directory to
PATH, so a canny installed with install-user is reachable.

Usage in shell profile:
  eval $(cannyup shellenv)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		fmt.Fprintln(os.Stdout, verify.ExportLine(cfg.UserBinDir))
	},
}
