package version

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// Manifest holds the crate identity read from Cargo.toml.
type Manifest struct {
	Name    string
	Version string
}

type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// ReadManifest reads the [package] name and version from a Cargo.toml.
// Workspace-inherited versions are rejected; the orchestrator needs a
// concrete version string for naming and comparison.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LookupError{
			Type:    ErrTypeNotFound,
			Source:  "cargo-manifest",
			Message: fmt.Sprintf("cannot read %s", path),
			Err:     err,
		}
	}

	var raw cargoManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &LookupError{
			Type:    ErrTypeParsing,
			Source:  "cargo-manifest",
			Message: fmt.Sprintf("cannot parse %s", path),
			Err:     err,
		}
	}

	if raw.Package.Version == "" {
		return nil, &LookupError{
			Type:    ErrTypeValidation,
			Source:  "cargo-manifest",
			Message: fmt.Sprintf("no package.version in %s", path),
		}
	}
	if _, err := semver.NewVersion(raw.Package.Version); err != nil {
		return nil, &LookupError{
			Type:    ErrTypeValidation,
			Source:  "cargo-manifest",
			Message: fmt.Sprintf("package.version %q is not a semantic version", raw.Package.Version),
			Err:     err,
		}
	}

	return &Manifest{
		Name:    raw.Package.Name,
		Version: raw.Package.Version,
	}, nil
}
