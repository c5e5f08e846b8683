package main

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/canny-cli/cannyup/internal/cargo"
	"github.com/canny-cli/cannyup/internal/config"
	"github.com/canny-cli/cannyup/internal/dist"
	"github.com/canny-cli/cannyup/internal/platform"
	"github.com/canny-cli/cannyup/internal/ui"
	"github.com/canny-cli/cannyup/internal/version"
)

var (
	distFormatsFlag string
	distOutputFlag  string
	distSignKeyFlag string
)

var distCmd = &cobra.Command{
	Use:   "dist",
	Short: "Package release archives for distribution",
	Long: `Build canny with the release profile and package it into tar archives
named canny-<version>-<triple>.tar.<format>, alongside a SHA256SUMS
file. With --sign-key, each archive also gets a detached armored PGP
signature.

Formats come from --formats, then the dist_formats config key
(default gz). Valid formats: gz, xz, lz.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if err := cfg.CheckSourceTree(); err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}

		m, err := version.ReadManifest(cfg.ManifestPath())
		if err != nil {
			fatal(err)
		}

		triple, ok := platform.RustTriple()
		if !ok {
			ui.Fail("no Rust target triple known for %s/%s", runtime.GOOS, runtime.GOARCH)
			exitWithCode(ExitGeneral)
		}

		formats := cfg.Settings.DistFormats
		if distFormatsFlag != "" {
			formats = splitFormats(distFormatsFlag)
		}

		outDir := distOutputFlag
		if outDir == "" {
			outDir = filepath.Join(cfg.SourceDir, "dist")
		}

		ui.Step("building canny (release)")
		artifact, err := newRunner(cfg).Build(globalCtx, cargo.ProfileRelease)
		if err != nil {
			fatal(err)
		}

		ui.Step("packaging %s %s for %s", config.BinaryName, m.Version, triple)
		res, err := dist.Build(dist.Options{
			Artifact: artifact,
			Version:  m.Version,
			Triple:   triple,
			Formats:  formats,
			OutDir:   outDir,
			Extras:   distExtras(cfg.SourceDir),
			SignKey:  distSignKeyFlag,
		})
		if err != nil {
			fatal(err)
		}

		for _, a := range res.Archives {
			ui.Success("wrote %s", a.Path)
		}
		ui.Success("wrote %s", res.SumsPath)
		for _, sig := range res.Signatures {
			ui.Success("wrote %s", sig)
		}
	},
}

func init() {
	distCmd.Flags().StringVar(&distFormatsFlag, "formats", "", "Comma-separated archive formats (gz, xz, lz)")
	distCmd.Flags().StringVarP(&distOutputFlag, "output", "o", "", "Output directory (default <source>/dist)")
	distCmd.Flags().StringVar(&distSignKeyFlag, "sign-key", "", "Armored PGP private key for detached signatures")
}

func splitFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// distExtras lists the conventional documentation files to ship next
// to the binary. Absent files are skipped during packaging.
func distExtras(sourceDir string) []string {
	var extras []string
	for _, name := range []string{"README.md", "LICENSE", "LICENSE-MIT", "LICENSE-APACHE"} {
		extras = append(extras, filepath.Join(sourceDir, name))
	}
	return extras
}
