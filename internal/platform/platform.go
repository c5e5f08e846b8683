// Package platform answers the host questions the pipelines ask:
// which package-manager family a Linux host belongs to, what command
// installs a C compiler there, and the Rust target triple used to name
// release artifacts.
package platform

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
)

// OSRelease contains parsed values from /etc/os-release.
type OSRelease struct {
	ID              string   // Canonical distro identifier (e.g., "ubuntu", "fedora")
	IDLike          []string // Parent/similar distros (e.g., ["debian"] for Ubuntu)
	VersionID       string   // Version number (e.g., "22.04")
	VersionCodename string   // Codename (e.g., "jammy")
}

// distroToFamily maps distro IDs to package-manager families.
var distroToFamily = map[string]string{
	// Debian family (apt)
	"debian": "debian", "ubuntu": "debian", "linuxmint": "debian",
	"pop": "debian", "elementary": "debian", "zorin": "debian",
	// RHEL family (dnf)
	"fedora": "rhel", "rhel": "rhel", "centos": "rhel",
	"rocky": "rhel", "almalinux": "rhel", "ol": "rhel",
	// Arch family (pacman)
	"arch": "arch", "manjaro": "arch", "endeavouros": "arch",
	// Alpine (apk)
	"alpine": "alpine",
	// SUSE family (zypper)
	"opensuse":            "suse",
	"opensuse-leap":       "suse",
	"opensuse-tumbleweed": "suse",
	"sles":                "suse",
}

// ParseOSRelease parses the /etc/os-release file format.
func ParseOSRelease(path string) (*OSRelease, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	release := &OSRelease{}
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		value = strings.Trim(value, `"'`)

		switch key {
		case "ID":
			release.ID = value
		case "ID_LIKE":
			// ID_LIKE is space-separated
			release.IDLike = strings.Fields(value)
		case "VERSION_ID":
			release.VersionID = value
		case "VERSION_CODENAME":
			release.VersionCodename = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return release, nil
}

// MapDistroToFamily maps a distro ID to its family, falling back to
// the ID_LIKE chain when the ID itself is not recognized.
func MapDistroToFamily(id string, idLike []string) (string, error) {
	if family, ok := distroToFamily[id]; ok {
		return family, nil
	}

	for _, like := range idLike {
		if family, ok := distroToFamily[like]; ok {
			return family, nil
		}
	}

	return "", fmt.Errorf("unknown distro: %s", id)
}

// DetectFamily returns the package-manager family for the current
// system. Returns empty string and nil error if /etc/os-release is
// missing (macOS, unusual containers).
func DetectFamily() (string, error) {
	osRelease, err := ParseOSRelease("/etc/os-release")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	return MapDistroToFamily(osRelease.ID, osRelease.IDLike)
}

// CompilerInstallHint returns the command that installs a C compiler
// toolchain for the given family. An empty or unknown family gets a
// generic hint.
func CompilerInstallHint(family string) string {
	switch family {
	case "debian":
		return "sudo apt-get install build-essential"
	case "rhel":
		return `sudo dnf groupinstall "Development Tools"`
	case "arch":
		return "sudo pacman -S base-devel"
	case "alpine":
		return "sudo apk add build-base"
	case "suse":
		return "sudo zypper install -t pattern devel_C_C++"
	default:
		return "install a C compiler with your distribution's package manager"
	}
}

// rustTriples maps GOOS/GOARCH pairs to the Rust target triples cargo
// builds for on that host.
var rustTriples = map[string]string{
	"darwin/arm64": "aarch64-apple-darwin",
	"darwin/amd64": "x86_64-apple-darwin",
	"linux/arm64":  "aarch64-unknown-linux-gnu",
	"linux/amd64":  "x86_64-unknown-linux-gnu",
}

// RustTriple returns the Rust target triple for the current host.
// The boolean is false on platforms canny does not ship for.
func RustTriple() (string, bool) {
	return rustTripleFor(runtime.GOOS, runtime.GOARCH)
}

func rustTripleFor(goos, goarch string) (string, bool) {
	triple, ok := rustTriples[goos+"/"+goarch]
	return triple, ok
}
