package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/canny-cli/cannyup/internal/cargo"
	"github.com/canny-cli/cannyup/internal/config"
	"github.com/canny-cli/cannyup/internal/errmsg"
	"github.com/canny-cli/cannyup/internal/ui"
)

// loadConfig resolves configuration for the --source-dir flag, exiting
// on failure. Config errors are always usage-shaped: a bad config file
// or an unresolvable path.
func loadConfig() *config.Config {
	cfg, err := config.Load(sourceDirFlag)
	if err != nil {
		printError(err)
		exitWithCode(ExitGeneral)
	}
	return cfg
}

// newRunner builds a cargo runner for the resolved source tree,
// honoring an explicit cargo path from the config file.
func newRunner(cfg *config.Config) *cargo.Runner {
	r := cargo.New(cfg.SourceDir)
	r.Cargo = cfg.Settings.Cargo
	r.Color = !noColorFlag
	return r
}

// printError prints an error to stderr with causes and suggestions
// when the error type carries them.
func printError(err error) {
	msg := errmsg.Format(err)
	if msg == "" {
		return
	}
	head, rest, _ := strings.Cut(msg, "\n")
	ui.Fail("%s", head)
	if rest != "" {
		fmt.Fprint(os.Stderr, rest)
	}
}

// fatal prints the error and exits with its mapped code.
func fatal(err error) {
	printError(err)
	exitWithCode(exitCodeFor(err))
}

// printJSON marshals the given value to JSON and prints it to stdout
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		exitWithCode(ExitGeneral)
	}
}
