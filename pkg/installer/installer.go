// Package installer fetches skill bundles from GitHub repositories with the
// gh CLI and installs them into a skills root.
package installer

import (
	"context"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillboxdev/skillbox/pkg/osutil"
	"github.com/skillboxdev/skillbox/pkg/skills"
)

const localSkillsDir = "skills"

// ValidateRepoName validates a GitHub repository name format.
// Expected format: "owner/repo".
func ValidateRepoName(repo string) error {
	if repo == "" {
		return errors.New("repository name cannot be empty")
	}
	if !strings.Contains(repo, "/") {
		return errors.Errorf("invalid repository format %q: expected 'owner/repo'", repo)
	}
	parts := strings.SplitN(repo, "/", 2)
	if parts[0] == "" || parts[1] == "" {
		return errors.Errorf("invalid repository format %q: owner and repo cannot be empty", repo)
	}
	return nil
}

// ParseRepoAndRef splits "owner/repo@ref" into its repo and optional ref.
func ParseRepoAndRef(spec string) (repo, ref string) {
	if idx := strings.LastIndex(spec, "@"); idx != -1 {
		return spec[:idx], spec[idx+1:]
	}
	return spec, ""
}

// SkillsRoot returns the skills directory installs target: the repo-local
// skills/ directory, or the user-global one when global is set.
func SkillsRoot(global bool) (string, error) {
	if !global {
		return localSkillsDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(homeDir, ".claude", "skills"), nil
}

// Installer installs skills from GitHub repositories
type Installer struct {
	global bool
	force  bool
	subdir string
}

// Option configures an Installer
type Option func(*Installer)

// WithGlobal installs into the user-global skills directory
func WithGlobal(global bool) Option {
	return func(i *Installer) {
		i.global = global
	}
}

// WithForce overwrites skills that already exist at the destination
func WithForce(force bool) Option {
	return func(i *Installer) {
		i.force = force
	}
}

// WithSubdir restricts installation to one skill directory in the repository
func WithSubdir(subdir string) Option {
	return func(i *Installer) {
		i.subdir = subdir
	}
}

// New creates an Installer
func New(opts ...Option) *Installer {
	i := &Installer{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Result lists what an Install call did
type Result struct {
	Installed []string // Skill names copied into the skills root
	Skipped   []string // Skill names left alone because they already existed
	Root      string   // The skills root written to
}

// Install clones the repository (optionally at a ref) and copies every skill
// bundle it finds into the skills root.
func (i *Installer) Install(ctx context.Context, repoSpec string) (*Result, error) {
	repo, ref := ParseRepoAndRef(repoSpec)
	if err := ValidateRepoName(repo); err != nil {
		return nil, err
	}

	if err := osutil.ValidateGHCLI(); err != nil {
		return nil, err
	}

	tempDir, err := cloneRepo(ctx, repo, ref)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	skillDirs, err := i.selectSkillDirs(tempDir)
	if err != nil {
		return nil, err
	}

	root, err := SkillsRoot(i.global)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create skills directory")
	}

	result := &Result{Root: root}
	for _, dir := range skillDirs {
		skillName := filepath.Base(dir)
		destDir := filepath.Join(root, skillName)

		if _, err := os.Stat(destDir); err == nil {
			if !i.force {
				result.Skipped = append(result.Skipped, skillName)
				continue
			}
			if err := os.RemoveAll(destDir); err != nil {
				return nil, errors.Wrapf(err, "failed to replace skill %q", skillName)
			}
		}

		if err := copyDir(dir, destDir); err != nil {
			return nil, errors.Wrapf(err, "failed to install skill %q", skillName)
		}
		result.Installed = append(result.Installed, skillName)
	}

	return result, nil
}

func (i *Installer) selectSkillDirs(repoDir string) ([]string, error) {
	if i.subdir != "" {
		target := filepath.Join(repoDir, i.subdir)
		if _, err := os.Stat(filepath.Join(target, skills.SkillFileName)); err != nil {
			return nil, errors.Errorf("no %s found at %s", skills.SkillFileName, i.subdir)
		}
		return []string{target}, nil
	}

	skillDirs, err := FindSkillDirs(repoDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan repository for skills")
	}
	if len(skillDirs) == 0 {
		return nil, errors.New("no skills found in repository")
	}
	return skillDirs, nil
}

func cloneRepo(ctx context.Context, repo, ref string) (string, error) {
	tempDir, err := os.MkdirTemp("", "skillbox-install-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp directory")
	}

	args := []string{"repo", "clone", repo, tempDir}
	if ref != "" {
		args = append(args, "--", "--branch", ref, "--depth", "1")
	} else {
		args = append(args, "--", "--depth", "1")
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(tempDir)
		return "", errors.Wrapf(err, "failed to clone repository: %s", string(output))
	}

	return tempDir, nil
}

// FindSkillDirs walks root and returns every directory holding a SKILL.md,
// skipping .git and node_modules.
func FindSkillDirs(root string) ([]string, error) {
	var skillDirs []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() && (entry.Name() == ".git" || entry.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if !entry.IsDir() && entry.Name() == skills.SkillFileName {
			skillDirs = append(skillDirs, filepath.Dir(path))
		}
		return nil
	})

	return skillDirs, err
}

// Remove deletes the named skill from the skills root. The target must
// actually be a skill bundle, so unrelated directories stay safe.
func Remove(name string, global bool) (string, error) {
	root, err := SkillsRoot(global)
	if err != nil {
		return "", err
	}

	skillDir := filepath.Join(root, name)
	if _, err := os.Stat(filepath.Join(skillDir, skills.SkillFileName)); os.IsNotExist(err) {
		location := "local"
		if global {
			location = "global"
		}
		return "", errors.Errorf("skill '%s' not found in %s skills directory", name, location)
	}

	if err := os.RemoveAll(skillDir); err != nil {
		return "", errors.Wrapf(err, "failed to remove skill '%s'", name)
	}

	return skillDir, nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		destPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(destPath, info.Mode())
		}

		return copyFile(path, destPath)
	})
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
