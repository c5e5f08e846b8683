package main

import (
	"github.com/spf13/cobra"

	"github.com/canny-cli/cannyup/internal/config"
	"github.com/canny-cli/cannyup/internal/install"
	"github.com/canny-cli/cannyup/internal/ui"
)

var uninstallNoElevateFlag bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the system-wide canny binary",
	Long: `Remove canny from the system directory. Removing an absent binary is
not an error; the command reports it and exits successfully. The
per-user install, if any, is left alone.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		runUninstall(install.SystemTarget(cfg.SystemBinDir), !uninstallNoElevateFlag)
	},
}

var uninstallUserCmd = &cobra.Command{
	Use:   "uninstall-user",
	Short: "Remove the per-user canny binary",
	Long: `Remove canny from the per-user binary directory. Removing an absent
binary is not an error. The system install, if any, is left alone.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		runUninstall(install.UserTarget(cfg.UserBinDir), false)
	},
}

func init() {
	uninstallCmd.Flags().BoolVar(&uninstallNoElevateFlag, "no-elevate", false, "Fail instead of escalating via sudo")
}

func runUninstall(target install.Target, allowElevate bool) {
	mgr := install.NewManager()
	mgr.AllowElevate = allowElevate

	path := target.BinaryPath()
	removed, err := mgr.Uninstall(globalCtx, target)
	if err != nil {
		fatal(err)
	}
	if !removed {
		ui.Info("%s is not installed in %s; nothing to do", config.BinaryName, target.Dir)
		return
	}
	ui.Success("removed %s", path)
}
