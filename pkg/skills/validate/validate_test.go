package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillboxdev/skillbox/pkg/skills"
)

func writeSkillFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, skills.SkillFileName), []byte(content), 0o644))
}

func rules(report *SkillReport) []string {
	var out []string
	for _, v := range report.Violations {
		out = append(out, v.Rule)
	}
	return out
}

func TestDirValidSkill(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "pdf-tools")
	writeSkillFile(t, skillDir, `---
name: pdf-tools
description: Extract text and tables from PDF files
---

# PDF Tools
`)
	require.NoError(t, os.MkdirAll(filepath.Join(skillDir, "scripts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(skillDir, "references"), 0o755))

	report := Dir(skillDir)
	assert.True(t, report.OK(), "violations: %v", report.Violations)
	assert.NoError(t, report.Err())
}

func TestDirViolations(t *testing.T) {
	t.Run("bad directory name", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "PDF_Tools")
		writeSkillFile(t, skillDir, "---\nname: PDF_Tools\ndescription: Bad name\n---\n")

		report := Dir(skillDir)
		assert.Contains(t, rules(report), "dir-name")
	})

	t.Run("missing skill file", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "empty-skill")
		require.NoError(t, os.MkdirAll(skillDir, 0o755))

		report := Dir(skillDir)
		assert.Contains(t, rules(report), "skill-file")
	})

	t.Run("not a directory", func(t *testing.T) {
		report := Dir(filepath.Join(t.TempDir(), "does-not-exist"))
		assert.Contains(t, rules(report), "skill-dir")
	})

	t.Run("no frontmatter", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "no-frontmatter")
		writeSkillFile(t, skillDir, "# Just markdown\n")

		report := Dir(skillDir)
		assert.Contains(t, rules(report), "frontmatter")
	})

	t.Run("extra frontmatter key", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "extra-key")
		writeSkillFile(t, skillDir, `---
name: extra-key
description: Has a forbidden key
version: 1.0.0
---
`)

		report := Dir(skillDir)
		assert.Contains(t, rules(report), "frontmatter-keys")
	})

	t.Run("name mismatch", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "actual-name")
		writeSkillFile(t, skillDir, "---\nname: other-name\ndescription: Mismatched\n---\n")

		report := Dir(skillDir)
		assert.Contains(t, rules(report), "name-mismatch")
	})

	t.Run("empty description", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "empty-description")
		writeSkillFile(t, skillDir, "---\nname: empty-description\ndescription: \"\"\n---\n")

		report := Dir(skillDir)
		assert.Contains(t, rules(report), "frontmatter-keys")
	})

	t.Run("multiline description", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "multiline-description")
		writeSkillFile(t, skillDir, "---\nname: multiline-description\ndescription: |\n  line one\n  line two\n---\n")

		report := Dir(skillDir)
		assert.Contains(t, rules(report), "description")
	})

	t.Run("unexpected top-level entry", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "messy-skill")
		writeSkillFile(t, skillDir, "---\nname: messy-skill\ndescription: Has stray files\n---\n")
		require.NoError(t, os.WriteFile(filepath.Join(skillDir, "README.md"), []byte("stray"), 0o644))
		require.NoError(t, os.MkdirAll(filepath.Join(skillDir, "extras"), 0o755))

		report := Dir(skillDir)
		violations := rules(report)
		count := 0
		for _, rule := range violations {
			if rule == "layout" {
				count++
			}
		}
		assert.Equal(t, 2, count, "violations: %v", report.Violations)
	})

	t.Run("dotfiles are ignored", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "tidy-skill")
		writeSkillFile(t, skillDir, "---\nname: tidy-skill\ndescription: Clean bundle\n---\n")
		require.NoError(t, os.WriteFile(filepath.Join(skillDir, ".gitignore"), []byte("dist/\n"), 0o644))

		report := Dir(skillDir)
		assert.True(t, report.OK(), "violations: %v", report.Violations)
	})

	t.Run("invalid yaml frontmatter", func(t *testing.T) {
		skillDir := filepath.Join(t.TempDir(), "broken-yaml")
		writeSkillFile(t, skillDir, "---\nname: [unclosed\n---\n")

		report := Dir(skillDir)
		assert.Contains(t, rules(report), "frontmatter")
	})
}

func TestTree(t *testing.T) {
	t.Run("mixed results", func(t *testing.T) {
		root := t.TempDir()
		writeSkillFile(t, filepath.Join(root, "good-skill"), "---\nname: good-skill\ndescription: Fine\n---\n")
		writeSkillFile(t, filepath.Join(root, "bad-skill"), "---\nname: wrong\ndescription: Mismatched\n---\n")

		report, err := Tree(root)
		require.NoError(t, err)
		require.Len(t, report.Skills, 2)
		assert.False(t, report.OK())
		require.Error(t, report.Err())
		assert.Contains(t, report.Err().Error(), "bad-skill")
	})

	t.Run("reports directory without a skill file", func(t *testing.T) {
		root := t.TempDir()
		writeSkillFile(t, filepath.Join(root, "good-skill"), "---\nname: good-skill\ndescription: Fine\n---\n")
		require.NoError(t, os.MkdirAll(filepath.Join(root, "Broken_Name"), 0o755))

		report, err := Tree(root)
		require.NoError(t, err)
		require.Len(t, report.Skills, 2)
		assert.False(t, report.OK())

		broken := report.Skills[0]
		assert.Equal(t, filepath.Join(root, "Broken_Name"), broken.Dir)
		assert.Contains(t, rules(broken), "dir-name")
		assert.Contains(t, rules(broken), "skill-file")
	})

	t.Run("skips hidden directories and plain files", func(t *testing.T) {
		root := t.TempDir()
		writeSkillFile(t, filepath.Join(root, "good-skill"), "---\nname: good-skill\ndescription: Fine\n---\n")
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("notes\n"), 0o644))

		report, err := Tree(root)
		require.NoError(t, err)
		require.Len(t, report.Skills, 1)
		assert.True(t, report.OK())
	})

	t.Run("empty root", func(t *testing.T) {
		_, err := Tree(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no skills found")
	})
}

func TestPaths(t *testing.T) {
	t.Run("sorted output", func(t *testing.T) {
		root := t.TempDir()
		dirA := filepath.Join(root, "aaa-skill")
		dirB := filepath.Join(root, "bbb-skill")
		writeSkillFile(t, dirA, "---\nname: aaa-skill\ndescription: First\n---\n")
		writeSkillFile(t, dirB, "---\nname: bbb-skill\ndescription: Second\n---\n")

		report, err := Paths([]string{dirB, dirA})
		require.NoError(t, err)
		require.Len(t, report.Skills, 2)
		assert.Equal(t, dirA, report.Skills[0].Dir)
		assert.True(t, report.OK())
	})

	t.Run("no paths", func(t *testing.T) {
		_, err := Paths(nil)
		require.Error(t, err)
	})
}
