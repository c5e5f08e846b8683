// Package buildinfo derives the cannyup version from Go build
// metadata.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Info describes the running cannyup build.
type Info struct {
	// Version is the module version for tagged builds, or a
	// dev-<hash>[-dirty] pseudo-version otherwise.
	Version string

	// Revision is the full VCS revision, empty when not built from a
	// checkout.
	Revision string

	// Dirty reports uncommitted changes at build time.
	Dirty bool
}

// Current reads the build metadata compiled into the binary.
func Current() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{Version: "unknown"}
	}
	return fromBuildInfo(info)
}

// Version is shorthand for Current().Version, used by the CLI version
// output.
func Version() string {
	return Current().Version
}

func fromBuildInfo(bi *debug.BuildInfo) Info {
	out := Info{}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			out.Revision = setting.Value
		case "vcs.modified":
			out.Dirty = setting.Value == "true"
		}
	}

	// go install from a tag bakes the tag into Main.Version;
	// development builds report "(devel)".
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		out.Version = bi.Main.Version
		return out
	}

	if out.Revision == "" {
		out.Version = "dev"
		return out
	}

	short := out.Revision
	if len(short) > 12 {
		short = short[:12]
	}
	out.Version = fmt.Sprintf("dev-%s", short)
	if out.Dirty {
		out.Version += "-dirty"
	}
	return out
}
