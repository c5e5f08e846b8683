package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Relation describes how the local crate version relates to the latest
// published release.
type Relation int

const (
	// UpToDate means local and latest are the same version.
	UpToDate Relation = iota
	// Behind means a newer release is published.
	Behind
	// Ahead means the local tree is newer than any release, the usual
	// state between a version bump and its release.
	Ahead
)

func (r Relation) String() string {
	switch r {
	case UpToDate:
		return "up to date"
	case Behind:
		return "behind"
	case Ahead:
		return "ahead"
	default:
		return "unknown"
	}
}

// Compare relates a local version string to a released one.
func Compare(local, latest string) (Relation, error) {
	lv, err := semver.NewVersion(local)
	if err != nil {
		return UpToDate, fmt.Errorf("local version %q is not a semantic version: %w", local, err)
	}
	rv, err := semver.NewVersion(latest)
	if err != nil {
		return UpToDate, fmt.Errorf("release version %q is not a semantic version: %w", latest, err)
	}

	switch {
	case lv.LessThan(rv):
		return Behind, nil
	case lv.GreaterThan(rv):
		return Ahead, nil
	default:
		return UpToDate, nil
	}
}
