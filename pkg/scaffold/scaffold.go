// Package scaffold creates new skill bundles: a directory with a prefilled
// SKILL.md plus the optional scripts/, references/, and assets/
// subdirectories.
package scaffold

import (
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"

	"github.com/skillboxdev/skillbox/pkg/skills"
)

// DefaultSubdirs are the optional bundle subdirectories created alongside
// SKILL.md.
var DefaultSubdirs = []string{"scripts", "references", "assets"}

var skillTemplate = template.Must(template.New("skill").Parse(`---
name: {{.Name}}
description: TODO describe when an agent should reach for this skill
---

# {{.Title}}

## Overview

Explain what this skill helps the agent accomplish.

## Instructions

1. Describe the steps the agent should follow.
2. Reference supporting files with relative paths, e.g. ` + "`scripts/run.sh`" + ` or ` + "`references/guide.md`" + `.
`))

// Scaffolder creates skill bundles under a parent directory
type Scaffolder struct {
	force   bool
	subdirs []string
}

// Option configures a Scaffolder
type Option func(*Scaffolder)

// WithForce replaces an existing skill directory instead of refusing
func WithForce(force bool) Option {
	return func(s *Scaffolder) {
		s.force = force
	}
}

// WithSubdirs overrides the set of subdirectories created in the bundle
func WithSubdirs(subdirs ...string) Option {
	return func(s *Scaffolder) {
		s.subdirs = subdirs
	}
}

// New creates a Scaffolder
func New(opts ...Option) *Scaffolder {
	s := &Scaffolder{
		subdirs: DefaultSubdirs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create scaffolds skills/<name> under parentDir and returns the new
// bundle's path.
func (s *Scaffolder) Create(name, parentDir string) (string, error) {
	if !skills.ValidName(name) {
		return "", errors.Errorf("invalid skill name %q: use lowercase letters, digits, and hyphens", name)
	}

	skillDir := filepath.Join(parentDir, name)
	if _, err := os.Stat(skillDir); err == nil {
		if !s.force {
			return "", errors.Errorf("skill directory %s already exists (use --force to replace)", skillDir)
		}
		if err := os.RemoveAll(skillDir); err != nil {
			return "", errors.Wrap(err, "failed to remove existing skill directory")
		}
	}

	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create skill directory")
	}

	if err := s.writeSkillFile(skillDir, name); err != nil {
		return "", err
	}

	for _, subdir := range s.subdirs {
		dir := filepath.Join(skillDir, subdir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(err, "failed to create %s directory", subdir)
		}
		// Keep the empty directory under version control.
		if err := os.WriteFile(filepath.Join(dir, ".gitkeep"), nil, 0o644); err != nil {
			return "", errors.Wrapf(err, "failed to create %s/.gitkeep", subdir)
		}
	}

	return skillDir, nil
}

func (s *Scaffolder) writeSkillFile(skillDir, name string) error {
	file, err := os.OpenFile(filepath.Join(skillDir, skills.SkillFileName), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to create SKILL.md")
	}
	defer file.Close()

	data := struct {
		Name  string
		Title string
	}{
		Name:  name,
		Title: titleFromName(name),
	}

	if err := skillTemplate.Execute(file, data); err != nil {
		return errors.Wrap(err, "failed to render SKILL.md template")
	}
	return nil
}

func titleFromName(name string) string {
	out := make([]byte, 0, len(name))
	upperNext := true
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '-' {
			out = append(out, ' ')
			upperNext = true
			continue
		}
		if upperNext && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upperNext = false
		out = append(out, c)
	}
	return string(out)
}
