package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/canny-cli/cannyup/internal/ui"
	"github.com/canny-cli/cannyup/internal/version"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Check whether the source tree is behind the latest release",
	Long: `Compare the crate version in Cargo.toml against the latest release
published on GitHub (the github_repo config key, default
canny-cli/canny).

A network failure exits non-zero and is never retried; run the command
again when connectivity returns. Set GITHUB_TOKEN to raise the API
rate limit.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg := loadConfig()
		m, err := version.ReadManifest(cfg.ManifestPath())
		if err != nil {
			fatal(err)
		}

		repo := cfg.Settings.GithubRepo
		if !jsonOutput {
			ui.Info("Checking %s for releases...", repo)
		}
		latest, err := version.New().LatestRelease(globalCtx, repo)
		if err != nil {
			fatal(err)
		}

		rel, err := version.Compare(m.Version, latest.Version)
		if err != nil {
			fatal(err)
		}

		if jsonOutput {
			printJSON(outdatedReport{
				Local:    m.Version,
				Latest:   latest.Version,
				Tag:      latest.Tag,
				Relation: rel.String(),
			})
			return
		}
		renderOutdated(os.Stdout, m.Version, latest, rel)
	},
}

func init() {
	outdatedCmd.Flags().Bool("json", false, "Output in JSON format")
}

type outdatedReport struct {
	Local    string `json:"local"`
	Latest   string `json:"latest"`
	Tag      string `json:"tag"`
	Relation string `json:"relation"`
}

func renderOutdated(w io.Writer, local string, latest *version.Release, rel version.Relation) {
	switch rel {
	case version.Behind:
		fmt.Fprintf(w, "canny %s is behind the latest release %s (%s)\n", local, latest.Version, latest.Tag)
		fmt.Fprintln(w, "To update, pull the latest source and re-run: cannyup install")
	case version.Ahead:
		fmt.Fprintf(w, "canny %s is ahead of the latest release %s (unreleased changes)\n", local, latest.Version)
	default:
		fmt.Fprintf(w, "canny %s is up to date\n", local)
	}
}
