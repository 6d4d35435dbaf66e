// Package packager builds distributable archives from skill bundles.
// A bundle is validated before packaging and written as dist/<name>.zip
// with deterministic entry ordering.
package packager

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/skillboxdev/skillbox/pkg/skills/validate"
)

// alwaysExcluded directories never end up in an archive.
var alwaysExcluded = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
}

// Result describes a packaged skill artifact
type Result struct {
	SkillName   string
	ArchivePath string
	Entries     int
	SHA256      string
}

// Packager archives skill bundles into zip files
type Packager struct {
	excludes []string
}

// Option configures a Packager
type Option func(*Packager)

// WithExcludes adds glob patterns (matched against slash-separated paths
// relative to the bundle root) whose matches are left out of the archive.
func WithExcludes(patterns ...string) Option {
	return func(p *Packager) {
		p.excludes = append(p.excludes, patterns...)
	}
}

// New creates a Packager
func New(opts ...Option) *Packager {
	p := &Packager{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Package validates skillDir, then writes <distDir>/<name>.zip containing the
// bundle rooted at its skill name. Broken bundles are refused.
func (p *Packager) Package(skillDir, distDir string) (*Result, error) {
	report := validate.Dir(skillDir)
	if !report.OK() {
		return nil, errors.Wrap(report.Err(), "skill failed validation")
	}

	skillName := filepath.Base(filepath.Clean(skillDir))

	files, err := p.collectFiles(skillDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no files to package in %s", skillDir)
	}

	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create dist directory")
	}

	archivePath := filepath.Join(distDir, skillName+".zip")
	if err := writeArchive(archivePath, skillDir, skillName, files); err != nil {
		os.Remove(archivePath)
		return nil, err
	}

	checksum, err := fileChecksum(archivePath)
	if err != nil {
		return nil, err
	}

	return &Result{
		SkillName:   skillName,
		ArchivePath: archivePath,
		Entries:     len(files),
		SHA256:      checksum,
	}, nil
}

// collectFiles returns the bundle-relative slash paths to archive, sorted.
func (p *Packager) collectFiles(skillDir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(skillDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == skillDir {
			return nil
		}

		name := entry.Name()
		if entry.IsDir() {
			if alwaysExcluded[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		relPath, err := filepath.Rel(skillDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		excluded, err := p.matchesExclude(relPath)
		if err != nil {
			return err
		}
		if excluded {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan skill directory")
	}

	sort.Strings(files)
	return files, nil
}

func (p *Packager) matchesExclude(relPath string) (bool, error) {
	for _, pattern := range p.excludes {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			return false, errors.Wrapf(err, "invalid exclude pattern %q", pattern)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func writeArchive(archivePath, skillDir, skillName string, files []string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrap(err, "failed to create archive")
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	for _, relPath := range files {
		entry, err := zw.Create(skillName + "/" + relPath)
		if err != nil {
			return errors.Wrapf(err, "failed to add archive entry %s", relPath)
		}

		file, err := os.Open(filepath.Join(skillDir, filepath.FromSlash(relPath)))
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", relPath)
		}

		_, err = io.Copy(entry, file)
		file.Close()
		if err != nil {
			return errors.Wrapf(err, "failed to write archive entry %s", relPath)
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "failed to finalize archive")
	}
	return nil
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to open archive for checksum")
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", errors.Wrap(err, "failed to checksum archive")
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
