// Package dist packages a release build into distributable archives.
//
// Each archive is named canny-<version>-<triple>.tar.<format> and
// contains the binary at the archive root alongside any extra files
// (README, LICENSE). A SHA256SUMS file covers every archive written in
// the run.
package dist

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gzip "github.com/klauspost/compress/gzip"
	lzip "github.com/sorairolake/lzip-go"
	"github.com/ulikunitz/xz"

	"github.com/canny-cli/cannyup/internal/config"
	"github.com/canny-cli/cannyup/internal/log"
)

// Options configures a packaging run.
type Options struct {
	// Artifact is the release binary to package.
	Artifact string

	// Version is the crate version, used in archive names.
	Version string

	// Triple is the Rust target triple for the build host.
	Triple string

	// Formats lists the compressions to produce (gz, xz, lz).
	Formats []string

	// OutDir receives the archives and SHA256SUMS.
	OutDir string

	// Extras are additional files to include at the archive root.
	// Missing entries are skipped silently.
	Extras []string

	// SignKey is an armored private key file. When set, each archive
	// gets a detached armored signature next to it.
	SignKey string

	Log log.Logger
}

// Archive describes one written archive.
type Archive struct {
	Path   string
	SHA256 string
}

// Result lists everything a packaging run produced.
type Result struct {
	Archives   []Archive
	SumsPath   string
	Signatures []string
}

// Build writes the requested archives, the checksum file, and
// signatures when a key is configured.
func Build(opts Options) (*Result, error) {
	if len(opts.Formats) == 0 {
		return nil, fmt.Errorf("no archive formats requested")
	}
	if opts.Version == "" {
		return nil, fmt.Errorf("version is required for archive naming")
	}
	if opts.Triple == "" {
		return nil, fmt.Errorf("target triple is required for archive naming")
	}
	logger := opts.Log
	if logger == nil {
		logger = log.Default()
	}

	if _, err := os.Stat(opts.Artifact); err != nil {
		return nil, fmt.Errorf("release binary not found at %s: %w", opts.Artifact, err)
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	entries, err := collectEntries(opts.Artifact, opts.Extras)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, format := range opts.Formats {
		name := ArchiveName(opts.Version, opts.Triple, format)
		path := filepath.Join(opts.OutDir, name)
		logger.Debug("writing archive", "path", path, "format", format)

		sum, err := writeArchive(path, format, entries)
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		res.Archives = append(res.Archives, Archive{Path: path, SHA256: sum})
	}

	res.SumsPath = filepath.Join(opts.OutDir, "SHA256SUMS")
	if err := writeSums(res.SumsPath, res.Archives); err != nil {
		return nil, err
	}

	if opts.SignKey != "" {
		signer, err := NewSigner(opts.SignKey)
		if err != nil {
			return nil, err
		}
		for _, a := range res.Archives {
			sig, err := signer.SignFile(a.Path)
			if err != nil {
				return nil, err
			}
			res.Signatures = append(res.Signatures, sig)
		}
	}
	return res, nil
}

// ArchiveName returns the canonical archive filename for a version,
// triple, and compression format.
func ArchiveName(version, triple, format string) string {
	return fmt.Sprintf("%s-%s-%s.tar.%s", config.BinaryName, version, triple, format)
}

// entry is a file staged for inclusion in every archive.
type entry struct {
	name string
	path string
	mode int64
	size int64
}

func collectEntries(artifact string, extras []string) ([]entry, error) {
	info, err := os.Stat(artifact)
	if err != nil {
		return nil, fmt.Errorf("cannot stat release binary: %w", err)
	}
	entries := []entry{{
		name: config.BinaryName,
		path: artifact,
		mode: 0755,
		size: info.Size(),
	}}

	for _, extra := range extras {
		info, err := os.Stat(extra)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, entry{
			name: filepath.Base(extra),
			path: extra,
			mode: 0644,
			size: info.Size(),
		})
	}
	return entries, nil
}

func writeArchive(path, format string, entries []entry) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Hash the compressed bytes so SHA256SUMS matches sha256sum on the
	// archive file itself.
	h := sha256.New()
	out := io.MultiWriter(f, h)

	compressor, err := newCompressor(format, out)
	if err != nil {
		return "", err
	}

	tw := tar.NewWriter(compressor)
	for _, e := range entries {
		if err := addEntry(tw, e); err != nil {
			return "", err
		}
	}
	if err := tw.Close(); err != nil {
		return "", err
	}
	if err := compressor.Close(); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func newCompressor(format string, w io.Writer) (io.WriteCloser, error) {
	switch format {
	case "gz":
		return gzip.NewWriter(w), nil
	case "xz":
		return xz.NewWriter(w)
	case "lz":
		return lzip.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported archive format %q", format)
	}
}

func addEntry(tw *tar.Writer, e entry) error {
	src, err := os.Open(e.path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", e.path, err)
	}
	defer src.Close()

	hdr := &tar.Header{
		Name:     e.name,
		Mode:     e.mode,
		Size:     e.size,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := io.Copy(tw, src); err != nil {
		return fmt.Errorf("failed to archive %s: %w", e.name, err)
	}
	return nil
}

// writeSums emits the standard sha256sum format, hex digest and
// filename separated by two spaces.
func writeSums(path string, archives []Archive) error {
	var b strings.Builder
	for _, a := range archives {
		fmt.Fprintf(&b, "%s  %s\n", a.SHA256, filepath.Base(a.Path))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write checksums: %w", err)
	}
	return nil
}
